package service

import (
	"context"
	"fmt"
	"strings"

	"deuda_tracker/internal/model"
	"deuda_tracker/internal/repository"
	"deuda_tracker/internal/utils"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// LedgerService records movements, computes running balances and drives the
// receipt-confirmation state machine. Every operation resolves the caller's
// role on the target account first.
type LedgerService interface {
	RecordTransaction(ctx context.Context, callerID int, req model.CreateTransactionRequest) (*model.Transaction, error)
	ListTransactions(ctx context.Context, callerID, accountID, limit, offset int) (*model.TransactionPage, error)
	ComputeBalance(ctx context.Context, account *model.Account) (model.BalanceSummary, error)
	ConfirmReceipt(ctx context.Context, transactionID int64, callerID int) error
	DeleteTransaction(ctx context.Context, transactionID int64, callerID int) error
}

type ledgerService struct {
	transactions repository.TransactionRepository
	accounts     repository.AccountRepository
	balances     *utils.BalanceCache
}

// NewLedgerService creates a new LedgerService. balances may be nil, which
// disables the balance cache.
func NewLedgerService(transactions repository.TransactionRepository, accounts repository.AccountRepository, balances *utils.BalanceCache) LedgerService {
	return &ledgerService{transactions: transactions, accounts: accounts, balances: balances}
}

// RecordTransaction creates a movement on an account the caller owns. A new
// ABONO starts PENDIENTE; a CARGO carries no receipt status.
func (s *ledgerService) RecordTransaction(ctx context.Context, callerID int, req model.CreateTransactionRequest) (*model.Transaction, error) {
	if req.Amount <= 0 {
		return nil, validationErr("amount must be > 0")
	}
	if req.Movement != model.MovementAbono && req.Movement != model.MovementCargo {
		return nil, validationErr("movement must be ABONO or CARGO")
	}
	date, err := validateDate(req.Date)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindVisibleByID(ctx, req.AccountID, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account does not exist or is not visible", ErrNotFound)
	}
	if account.RoleFor(callerID) != model.AccountRoleOwner {
		return nil, ErrForbidden
	}

	raw := req.Currency
	if strings.TrimSpace(raw) == "" {
		raw = account.Currency
	}
	currency, err := normalizeCurrency(raw)
	if err != nil {
		return nil, err
	}
	if currency != strings.ToUpper(account.Currency) {
		return nil, validationErr("currency must match the account currency")
	}

	var receiptStatus *string
	if req.Movement == model.MovementAbono {
		pending := model.ReceiptPending
		receiptStatus = &pending
	}

	transaction := &model.Transaction{
		AccountID:       account.ID,
		CreatedByUserID: callerID,
		Movement:        req.Movement,
		Date:            date,
		Amount:          req.Amount,
		Currency:        currency,
		PayTo:           req.PayTo,
		Note:            req.Note,
		ReceiptStatus:   receiptStatus,
	}
	if err := s.transactions.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction in repo: %w", err)
	}
	s.balances.Invalidate(ctx, account.ID)
	return transaction, nil
}

// ComputeBalance returns the account's running balance:
// saldo = initial_amount + total_cargos - total_abonos. A CARGO increases
// the tracked obligation and an ABONO reduces it, for PAYABLE and RECEIVABLE
// accounts alike.
func (s *ledgerService) ComputeBalance(ctx context.Context, account *model.Account) (model.BalanceSummary, error) {
	var summary model.BalanceSummary
	if s.balances.Get(ctx, account.ID, &summary) {
		return summary, nil
	}
	totalAbonos, totalCargos, err := s.transactions.SummarizeAccount(ctx, account.ID)
	if err != nil {
		return model.BalanceSummary{}, fmt.Errorf("failed to compute balance: %w", err)
	}
	summary = model.BalanceSummary{
		Saldo:       account.InitialAmount + totalCargos - totalAbonos,
		TotalAbonos: totalAbonos,
		TotalCargos: totalCargos,
	}
	s.balances.Set(ctx, account.ID, summary)
	return summary, nil
}

// ListTransactions returns the ledger view of an account the caller can see:
// the account, its balance and one page of movements, date descending with
// ties broken by id descending.
func (s *ledgerService) ListTransactions(ctx context.Context, callerID, accountID, limit, offset int) (*model.TransactionPage, error) {
	account, err := s.accounts.FindVisibleByID(ctx, accountID, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account does not exist or is not visible", ErrNotFound)
	}

	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	summary, err := s.ComputeBalance(ctx, account)
	if err != nil {
		return nil, err
	}
	transactions, err := s.transactions.ListByAccount(ctx, account.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	role := account.RoleFor(callerID)
	return &model.TransactionPage{
		Account: model.AccountView{
			Account:  *account,
			MyRole:   role,
			CanWrite: role == model.AccountRoleOwner,
		},
		Summary:      summary,
		Transactions: transactions,
	}, nil
}

// ConfirmReceipt performs the one-way PENDIENTE -> RECIBIDO transition. It
// fails with no state change unless the transaction is an ABONO, currently
// PENDIENTE, and the caller is the viewer of the owning account. The final
// write re-checks the PENDIENTE precondition atomically, so a concurrent
// double confirm resolves to exactly one success.
func (s *ledgerService) ConfirmReceipt(ctx context.Context, transactionID int64, callerID int) error {
	target, err := s.transactions.FindForConfirm(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("failed to load transaction: %w", err)
	}
	if target == nil {
		return fmt.Errorf("%w: transaction does not exist", ErrNotFound)
	}
	if target.ViewerUserID == nil || *target.ViewerUserID != callerID {
		return ErrForbidden
	}
	if target.Movement != model.MovementAbono {
		return validationErr("only ABONO movements can be confirmed")
	}
	if target.ReceiptStatus == nil || *target.ReceiptStatus != model.ReceiptPending {
		return fmt.Errorf("%w: receipt is not pending", ErrConflict)
	}

	confirmed, err := s.transactions.ConfirmReceipt(ctx, transactionID, callerID)
	if err != nil {
		return fmt.Errorf("failed to confirm receipt: %w", err)
	}
	if !confirmed {
		// Lost the race against a concurrent confirmation.
		return fmt.Errorf("%w: receipt is not pending", ErrConflict)
	}
	s.balances.Invalidate(ctx, target.AccountID)
	return nil
}

// DeleteTransaction soft-deletes a movement on an account the caller owns.
// The row is excluded from reads and balance computation but retained.
func (s *ledgerService) DeleteTransaction(ctx context.Context, transactionID int64, callerID int) error {
	transaction, err := s.transactions.FindByID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("failed to load transaction: %w", err)
	}
	if transaction == nil {
		return fmt.Errorf("%w: transaction does not exist", ErrNotFound)
	}
	account, err := s.accounts.FindByID(ctx, transaction.AccountID)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	if account == nil {
		return fmt.Errorf("%w: account does not exist", ErrNotFound)
	}
	if account.RoleFor(callerID) != model.AccountRoleOwner {
		return ErrForbidden
	}

	deleted, err := s.transactions.SoftDelete(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: transaction does not exist", ErrNotFound)
	}
	s.balances.Invalidate(ctx, account.ID)
	return nil
}
