package repository

import (
	"context"
	"errors"
	"fmt"

	"deuda_tracker/internal/model"

	"github.com/jackc/pgx/v5"
)

// ConfirmTarget is the slice of a transaction the receipt-confirmation state
// machine needs: the movement, its current status and the viewer of the
// owning account.
type ConfirmTarget struct {
	ID            int64
	AccountID     int
	Movement      string
	ReceiptStatus *string
	ViewerUserID  *int
}

// TransactionRepository defines operations for transaction data. Reads
// exclude soft-deleted rows.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *model.Transaction) error
	FindByID(ctx context.Context, id int64) (*model.Transaction, error)
	ListByAccount(ctx context.Context, accountID, limit, offset int) ([]model.Transaction, error)
	SummarizeAccount(ctx context.Context, accountID int) (totalAbonos, totalCargos float64, err error)
	FindForConfirm(ctx context.Context, id int64) (*ConfirmTarget, error)
	ConfirmReceipt(ctx context.Context, id int64, viewerID int) (bool, error)
	SoftDelete(ctx context.Context, id int64) (bool, error)
}

type transactionRepository struct {
	db DB
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db DB) TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, account_id, created_by_user_id, movement, date, amount, currency,
        pay_to, note, receipt_status, receipt_confirmed_by_user_id, receipt_confirmed_at, created_at`

func scanTransaction(row pgx.Row, t *model.Transaction) error {
	return row.Scan(
		&t.ID, &t.AccountID, &t.CreatedByUserID, &t.Movement, &t.Date, &t.Amount, &t.Currency,
		&t.PayTo, &t.Note, &t.ReceiptStatus, &t.ReceiptConfirmedBy, &t.ReceiptConfirmedAt, &t.CreatedAt,
	)
}

// Create inserts a new transaction into the database
func (r *transactionRepository) Create(ctx context.Context, t *model.Transaction) error {
	sql := `INSERT INTO transactions (account_id, created_by_user_id, movement, date, amount, currency, pay_to, note, receipt_status)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, sql,
		t.AccountID, t.CreatedByUserID, t.Movement, t.Date, t.Amount, t.Currency,
		t.PayTo, t.Note, t.ReceiptStatus,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// FindByID retrieves a non-deleted transaction by its ID. Not found is
// (nil, nil).
func (r *transactionRepository) FindByID(ctx context.Context, id int64) (*model.Transaction, error) {
	t := &model.Transaction{}
	sql := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND deleted_at IS NULL`
	if err := scanTransaction(r.db.QueryRow(ctx, sql, id), t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find transaction by ID: %w", err)
	}
	return t, nil
}

// ListByAccount retrieves one page of an account's movements, ordered by
// date descending with ties broken by id descending, so equal dates list
// deterministically most-recent-first.
func (r *transactionRepository) ListByAccount(ctx context.Context, accountID, limit, offset int) ([]model.Transaction, error) {
	sql := `SELECT ` + transactionColumns + ` FROM transactions
            WHERE account_id = $1 AND deleted_at IS NULL
            ORDER BY date DESC, id DESC
            LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, sql, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by account: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return transactions, nil
}

// SummarizeAccount sums ABONO and CARGO amounts over the account's
// non-deleted movements. Sums over an empty set are zero.
func (r *transactionRepository) SummarizeAccount(ctx context.Context, accountID int) (float64, float64, error) {
	sql := `SELECT
              COALESCE(SUM(CASE WHEN movement = 'ABONO' THEN amount END), 0) AS total_abonos,
              COALESCE(SUM(CASE WHEN movement = 'CARGO' THEN amount END), 0) AS total_cargos
            FROM transactions
            WHERE account_id = $1 AND deleted_at IS NULL`
	var totalAbonos, totalCargos float64
	if err := r.db.QueryRow(ctx, sql, accountID).Scan(&totalAbonos, &totalCargos); err != nil {
		return 0, 0, fmt.Errorf("failed to summarize account: %w", err)
	}
	return totalAbonos, totalCargos, nil
}

// FindForConfirm loads the confirmation view of a transaction joined with
// its account's viewer. Not found (including a soft-deleted transaction or
// account) is (nil, nil).
func (r *transactionRepository) FindForConfirm(ctx context.Context, id int64) (*ConfirmTarget, error) {
	target := &ConfirmTarget{}
	sql := `SELECT t.id, t.account_id, t.movement, t.receipt_status, a.viewer_user_id
            FROM transactions t
            JOIN accounts a ON a.id = t.account_id
            WHERE t.id = $1 AND t.deleted_at IS NULL AND a.deleted_at IS NULL`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&target.ID, &target.AccountID, &target.Movement, &target.ReceiptStatus, &target.ViewerUserID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find transaction for confirmation: %w", err)
	}
	return target, nil
}

// ConfirmReceipt performs the PENDIENTE -> RECIBIDO transition as one atomic
// conditional write: the WHERE clause re-checks the precondition so two
// concurrent confirmations cannot both succeed. Returns false when no
// pending ABONO row matched.
func (r *transactionRepository) ConfirmReceipt(ctx context.Context, id int64, viewerID int) (bool, error) {
	sql := `UPDATE transactions
            SET receipt_status = 'RECIBIDO', receipt_confirmed_by_user_id = $1, receipt_confirmed_at = NOW()
            WHERE id = $2 AND movement = 'ABONO' AND receipt_status = 'PENDIENTE' AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, sql, viewerID, id)
	if err != nil {
		return false, fmt.Errorf("failed to confirm receipt: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SoftDelete tombstones the transaction, excluding it from reads and balance
// computation while retaining it for history.
func (r *transactionRepository) SoftDelete(ctx context.Context, id int64) (bool, error) {
	sql := `UPDATE transactions SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return false, fmt.Errorf("failed to soft-delete transaction: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
