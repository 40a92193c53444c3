package model

import "time"

const (
	// MovementAbono is a payment/credit reducing what is owed.
	MovementAbono = "ABONO"
	// MovementCargo is a charge increasing what is owed.
	MovementCargo = "CARGO"
)

// Receipt confirmation states for ABONO movements. CARGO movements carry no
// receipt status. The only legal transition is PENDIENTE -> RECIBIDO, once,
// by the account's viewer.
const (
	ReceiptPending  = "PENDIENTE"
	ReceiptReceived = "RECIBIDO"
)

// Transaction is a single ledger movement. Transactions are never edited
// after creation except for the receipt-status transition; soft-deleted rows
// are kept for history but excluded from reads and balance computation.
type Transaction struct {
	ID                 int64      `json:"id"`
	AccountID          int        `json:"account_id"`
	CreatedByUserID    int        `json:"created_by_user_id"`
	Movement           string     `json:"movement"`
	Date               string     `json:"date"` // calendar date, YYYY-MM-DD, no time component
	Amount             float64    `json:"amount"`
	Currency           string     `json:"currency"`
	PayTo              *string    `json:"pay_to,omitempty"`
	Note               *string    `json:"note,omitempty"`
	ReceiptStatus      *string    `json:"receipt_status,omitempty"`
	ReceiptConfirmedBy *int       `json:"receipt_confirmed_by_user_id,omitempty"`
	ReceiptConfirmedAt *time.Time `json:"receipt_confirmed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// CreateTransactionRequest is used for recording a new movement. Currency
// may be omitted, in which case the account's currency is assumed.
type CreateTransactionRequest struct {
	AccountID int     `json:"account_id" binding:"required,min=1"`
	Movement  string  `json:"movement" binding:"required,oneof=ABONO CARGO"`
	Date      string  `json:"date" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Currency  string  `json:"currency"`
	PayTo     *string `json:"pay_to" binding:"omitempty,max=80"`
	Note      *string `json:"note" binding:"omitempty,max=300"`
}

// BalanceSummary is the running balance of an account:
// saldo = initial_amount + total_cargos - total_abonos.
type BalanceSummary struct {
	Saldo       float64 `json:"saldo"`
	TotalAbonos float64 `json:"total_abonos"`
	TotalCargos float64 `json:"total_cargos"`
}

// TransactionPage is the ledger view returned to a caller with access to the
// account: the account itself, its running balance and one page of
// movements ordered most recent first.
type TransactionPage struct {
	Account      AccountView    `json:"account"`
	Summary      BalanceSummary `json:"summary"`
	Transactions []Transaction  `json:"transactions"`
}
