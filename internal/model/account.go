package model

import "time"

const (
	KindPayable    = "PAYABLE"
	KindReceivable = "RECEIVABLE"
)

// Roles a user can hold on an account.
const (
	AccountRoleOwner  = "OWNER"
	AccountRoleViewer = "VIEWER"
	AccountRoleNone   = "NONE"
)

// Account is a shared debt/receivable ledger between an owner (exclusive
// write access) and at most one viewer (read + receipt-confirm access).
// Soft-deleted accounts keep their row but are excluded from every read.
type Account struct {
	ID            int       `json:"id"`
	OwnerUserID   int       `json:"owner_user_id"`
	ViewerUserID  *int      `json:"viewer_user_id,omitempty"`
	Title         string    `json:"title"`
	Kind          string    `json:"kind"`
	Currency      string    `json:"currency"`
	InitialAmount float64   `json:"initial_amount"`
	WeeklyTarget  *float64  `json:"weekly_target,omitempty"`
	PayTo         *string   `json:"pay_to,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RoleFor returns the role userID holds on the account: OWNER, VIEWER or
// NONE. The viewer, if set, is guaranteed by the schema to differ from the
// owner, so the owner check wins.
func (a *Account) RoleFor(userID int) string {
	switch {
	case a.OwnerUserID == userID:
		return AccountRoleOwner
	case a.ViewerUserID != nil && *a.ViewerUserID == userID:
		return AccountRoleViewer
	default:
		return AccountRoleNone
	}
}

// AccountView is an account decorated with the caller's role on it.
type AccountView struct {
	Account
	MyRole   string `json:"my_role"`
	CanWrite bool   `json:"can_write"`
}

// CreateAccountRequest is used for creating a new account. The caller
// becomes the owner; ViewerUsername optionally grants a second party
// read + receipt-confirm access.
type CreateAccountRequest struct {
	Title          string   `json:"title" binding:"required,min=2,max=80"`
	Kind           string   `json:"kind" binding:"required,oneof=PAYABLE RECEIVABLE"`
	Currency       string   `json:"currency" binding:"required"`
	InitialAmount  float64  `json:"initial_amount" binding:"min=0"`
	WeeklyTarget   *float64 `json:"weekly_target" binding:"omitempty,min=0"`
	PayTo          *string  `json:"pay_to" binding:"omitempty,max=80"`
	Notes          *string  `json:"notes" binding:"omitempty,max=500"`
	ViewerUsername *string  `json:"viewer_username" binding:"omitempty,max=40"`
}

// UpdateAccountRequest carries a partial update. Nil pointers leave the
// field untouched; an empty ViewerUsername clears the viewer.
type UpdateAccountRequest struct {
	Title          *string  `json:"title,omitempty" binding:"omitempty,min=2,max=80"`
	Kind           *string  `json:"kind,omitempty" binding:"omitempty,oneof=PAYABLE RECEIVABLE"`
	Currency       *string  `json:"currency,omitempty"`
	WeeklyTarget   *float64 `json:"weekly_target,omitempty" binding:"omitempty,min=0"`
	PayTo          *string  `json:"pay_to,omitempty" binding:"omitempty,max=80"`
	Notes          *string  `json:"notes,omitempty" binding:"omitempty,max=500"`
	ViewerUsername *string  `json:"viewer_username,omitempty" binding:"omitempty,max=40"`
}

// IsEmpty reports whether the update changes nothing.
func (r UpdateAccountRequest) IsEmpty() bool {
	return r.Title == nil && r.Kind == nil && r.Currency == nil &&
		r.WeeklyTarget == nil && r.PayTo == nil && r.Notes == nil &&
		r.ViewerUsername == nil
}
