package service

import (
	"context"
	"fmt"
	"strings"

	"deuda_tracker/internal/model"
	"deuda_tracker/internal/repository"
)

// AccountService defines operations on accounts. Every operation takes the
// caller explicitly; access decisions flow from Account.RoleFor, never from
// ambient state.
type AccountService interface {
	ListForUser(ctx context.Context, userID int) ([]model.AccountView, error)
	Create(ctx context.Context, ownerID int, req model.CreateAccountRequest) (*model.Account, error)
	Update(ctx context.Context, accountID, callerID int, req model.UpdateAccountRequest) error
	Delete(ctx context.Context, accountID, callerID int) error
}

type accountService struct {
	accounts repository.AccountRepository
	users    repository.UserRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accounts repository.AccountRepository, users repository.UserRepository) AccountService {
	return &accountService{accounts: accounts, users: users}
}

// ListForUser returns every account the user owns or views, decorated with
// the user's role on each.
func (s *accountService) ListForUser(ctx context.Context, userID int) ([]model.AccountView, error) {
	accounts, err := s.accounts.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	views := make([]model.AccountView, 0, len(accounts))
	for _, a := range accounts {
		role := a.RoleFor(userID)
		views = append(views, model.AccountView{
			Account:  a,
			MyRole:   role,
			CanWrite: role == model.AccountRoleOwner,
		})
	}
	return views, nil
}

// resolveViewer maps a viewer username to a user id, rejecting unknown
// usernames, inactive users and the owner themself.
func (s *accountService) resolveViewer(ctx context.Context, username string, ownerID int) (*int, error) {
	name := strings.ToLower(strings.TrimSpace(username))
	viewer, err := s.users.FindByUsername(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up viewer: %w", err)
	}
	if viewer == nil {
		return nil, validationErr("viewer_username does not exist")
	}
	if !viewer.IsActive {
		return nil, validationErr("viewer user is inactive")
	}
	if viewer.ID == ownerID {
		return nil, validationErr("viewer cannot be the account owner")
	}
	return &viewer.ID, nil
}

// Create creates an account owned by ownerID.
func (s *accountService) Create(ctx context.Context, ownerID int, req model.CreateAccountRequest) (*model.Account, error) {
	currency, err := normalizeCurrency(req.Currency)
	if err != nil {
		return nil, err
	}
	if req.InitialAmount < 0 {
		return nil, validationErr("initial_amount must be >= 0")
	}

	var viewerID *int
	if req.ViewerUsername != nil && strings.TrimSpace(*req.ViewerUsername) != "" {
		viewerID, err = s.resolveViewer(ctx, *req.ViewerUsername, ownerID)
		if err != nil {
			return nil, err
		}
	}

	account := &model.Account{
		OwnerUserID:   ownerID,
		ViewerUserID:  viewerID,
		Title:         strings.TrimSpace(req.Title),
		Kind:          req.Kind,
		Currency:      currency,
		InitialAmount: req.InitialAmount,
		WeeklyTarget:  req.WeeklyTarget,
		PayTo:         req.PayTo,
		Notes:         req.Notes,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account in repo: %w", err)
	}
	return account, nil
}

// loadOwned loads the account and verifies the caller is its owner.
func (s *accountService) loadOwned(ctx context.Context, accountID, callerID int) (*model.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account does not exist", ErrNotFound)
	}
	if account.RoleFor(callerID) != model.AccountRoleOwner {
		return nil, ErrForbidden
	}
	return account, nil
}

// Update applies a partial update to an account the caller owns. An empty
// ViewerUsername clears the viewer.
func (s *accountService) Update(ctx context.Context, accountID, callerID int, req model.UpdateAccountRequest) error {
	if req.IsEmpty() {
		return validationErr("nothing to update")
	}
	account, err := s.loadOwned(ctx, accountID, callerID)
	if err != nil {
		return err
	}

	upd := repository.AccountUpdate{
		Title:        req.Title,
		Kind:         req.Kind,
		WeeklyTarget: req.WeeklyTarget,
		PayTo:        req.PayTo,
		Notes:        req.Notes,
	}
	if req.Currency != nil {
		currency, err := normalizeCurrency(*req.Currency)
		if err != nil {
			return err
		}
		upd.Currency = &currency
	}
	if req.ViewerUsername != nil {
		upd.SetViewer = true
		if strings.TrimSpace(*req.ViewerUsername) != "" {
			viewerID, err := s.resolveViewer(ctx, *req.ViewerUsername, account.OwnerUserID)
			if err != nil {
				return err
			}
			upd.ViewerUserID = viewerID
		}
	}

	updated, err := s.accounts.Update(ctx, accountID, upd)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if !updated {
		return fmt.Errorf("%w: account does not exist", ErrNotFound)
	}
	return nil
}

// Delete soft-deletes an account the caller owns. The tombstoned account
// becomes invisible to every role.
func (s *accountService) Delete(ctx context.Context, accountID, callerID int) error {
	if _, err := s.loadOwned(ctx, accountID, callerID); err != nil {
		return err
	}
	deleted, err := s.accounts.SoftDelete(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: account does not exist", ErrNotFound)
	}
	return nil
}
