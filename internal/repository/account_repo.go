package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"deuda_tracker/internal/model"

	"github.com/jackc/pgx/v5"
)

// AccountUpdate lists the account columns to change. Nil pointers leave the
// column untouched. SetViewer with a nil ViewerUserID clears the viewer.
type AccountUpdate struct {
	Title        *string
	Kind         *string
	Currency     *string
	WeeklyTarget *float64
	PayTo        *string
	Notes        *string
	SetViewer    bool
	ViewerUserID *int
}

// AccountRepository defines operations for account data. Every read filters
// out soft-deleted rows, so a deleted account is indistinguishable from a
// nonexistent one.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id int) (*model.Account, error)
	FindVisibleByID(ctx context.Context, id, userID int) (*model.Account, error)
	ListForUser(ctx context.Context, userID int) ([]model.Account, error)
	Update(ctx context.Context, id int, upd AccountUpdate) (bool, error)
	SoftDelete(ctx context.Context, id int) (bool, error)
}

type accountRepository struct {
	db DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db DB) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `id, owner_user_id, viewer_user_id, title, kind, currency,
        initial_amount, weekly_target, pay_to, notes, created_at, updated_at`

func scanAccount(row pgx.Row, a *model.Account) error {
	return row.Scan(
		&a.ID, &a.OwnerUserID, &a.ViewerUserID, &a.Title, &a.Kind, &a.Currency,
		&a.InitialAmount, &a.WeeklyTarget, &a.PayTo, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
}

// Create inserts a new account into the database
func (r *accountRepository) Create(ctx context.Context, a *model.Account) error {
	sql := `INSERT INTO accounts (owner_user_id, viewer_user_id, title, kind, currency, initial_amount, weekly_target, pay_to, notes)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql,
		a.OwnerUserID, a.ViewerUserID, a.Title, a.Kind, a.Currency,
		a.InitialAmount, a.WeeklyTarget, a.PayTo, a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// FindByID retrieves a non-deleted account by its ID. Not found is (nil, nil).
func (r *accountRepository) FindByID(ctx context.Context, id int) (*model.Account, error) {
	a := &model.Account{}
	sql := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND deleted_at IS NULL`
	if err := scanAccount(r.db.QueryRow(ctx, sql, id), a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account by ID: %w", err)
	}
	return a, nil
}

// FindVisibleByID retrieves an account only if userID is its owner or
// viewer. An account the user cannot see is reported the same way as a
// nonexistent one.
func (r *accountRepository) FindVisibleByID(ctx context.Context, id, userID int) (*model.Account, error) {
	a := &model.Account{}
	sql := `SELECT ` + accountColumns + ` FROM accounts
            WHERE id = $1 AND deleted_at IS NULL
              AND (owner_user_id = $2 OR viewer_user_id = $2)`
	if err := scanAccount(r.db.QueryRow(ctx, sql, id, userID), a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find visible account: %w", err)
	}
	return a, nil
}

// ListForUser retrieves every account the user owns or views, most recently
// created first.
func (r *accountRepository) ListForUser(ctx context.Context, userID int) ([]model.Account, error) {
	sql := `SELECT ` + accountColumns + ` FROM accounts
            WHERE deleted_at IS NULL AND (owner_user_id = $1 OR viewer_user_id = $1)
            ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for user: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := scanAccount(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// Update applies a partial update. It returns false if the account does not
// exist or was soft-deleted in the meantime. The caller must have validated
// that the update is non-empty.
func (r *accountRepository) Update(ctx context.Context, id int, upd AccountUpdate) (bool, error) {
	var fields []string
	var args []any
	argCount := 1

	setIf := func(name string, val any) {
		fields = append(fields, fmt.Sprintf("%s = $%d", name, argCount))
		args = append(args, val)
		argCount++
	}

	if upd.Title != nil {
		setIf("title", *upd.Title)
	}
	if upd.Kind != nil {
		setIf("kind", *upd.Kind)
	}
	if upd.Currency != nil {
		setIf("currency", *upd.Currency)
	}
	if upd.WeeklyTarget != nil {
		setIf("weekly_target", *upd.WeeklyTarget)
	}
	if upd.PayTo != nil {
		setIf("pay_to", *upd.PayTo)
	}
	if upd.Notes != nil {
		setIf("notes", *upd.Notes)
	}
	if upd.SetViewer {
		if upd.ViewerUserID == nil {
			fields = append(fields, "viewer_user_id = NULL")
		} else {
			setIf("viewer_user_id", *upd.ViewerUserID)
		}
	}
	if len(fields) == 0 {
		return false, fmt.Errorf("no fields to update")
	}
	fields = append(fields, "updated_at = NOW()")

	args = append(args, id)
	sql := fmt.Sprintf("UPDATE accounts SET %s WHERE id = $%d AND deleted_at IS NULL",
		strings.Join(fields, ", "), argCount)
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update account: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SoftDelete tombstones the account. The row is retained for history.
func (r *accountRepository) SoftDelete(ctx context.Context, id int) (bool, error) {
	sql := `UPDATE accounts SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return false, fmt.Errorf("failed to soft-delete account: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
