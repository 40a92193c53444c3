package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"deuda_tracker/internal/model"
	"deuda_tracker/internal/repository"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountServiceWithMock(t *testing.T) (AccountService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	accounts := repository.NewAccountRepository(mock)
	users := repository.NewUserRepository(mock)
	return NewAccountService(accounts, users), mock
}

func TestCreateAccount_Success(t *testing.T) {
	svc, mock := newAccountServiceWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO accounts`)).
		WithArgs(1, (*int)(nil), "Rent", model.KindPayable, "MXN", 100.0,
			(*float64)(nil), (*string)(nil), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(7, time.Now(), time.Now()))

	account, err := svc.Create(context.Background(), 1, model.CreateAccountRequest{
		Title:         "Rent",
		Kind:          model.KindPayable,
		Currency:      "mxn",
		InitialAmount: 100,
	})
	assert.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, 7, account.ID)
	assert.Equal(t, "MXN", account.Currency)
	assert.Equal(t, 1, account.OwnerUserID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_ViewerIsOwner(t *testing.T) {
	svc, mock := newAccountServiceWithMock(t)

	viewer := "maria"
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE lower(username) = lower($1)`)).
		WithArgs("maria").
		WillReturnRows(userRows(1, "maria", "hash", model.RoleUser, true))

	_, err := svc.Create(context.Background(), 1, model.CreateAccountRequest{
		Title:          "Rent",
		Kind:           model.KindPayable,
		Currency:       "MXN",
		ViewerUsername: &viewer,
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_UnknownViewer(t *testing.T) {
	svc, mock := newAccountServiceWithMock(t)

	viewer := "ghost"
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE lower(username) = lower($1)`)).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "role", "is_active", "created_at"}))

	_, err := svc.Create(context.Background(), 1, model.CreateAccountRequest{
		Title:          "Rent",
		Kind:           model.KindPayable,
		Currency:       "MXN",
		ViewerUsername: &viewer,
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_InactiveViewer(t *testing.T) {
	svc, mock := newAccountServiceWithMock(t)

	viewer := "pedro"
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE lower(username) = lower($1)`)).
		WithArgs("pedro").
		WillReturnRows(userRows(2, "pedro", "hash", model.RoleUser, false))

	_, err := svc.Create(context.Background(), 1, model.CreateAccountRequest{
		Title:          "Rent",
		Kind:           model.KindPayable,
		Currency:       "MXN",
		ViewerUsername: &viewer,
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_BadCurrency(t *testing.T) {
	svc, mock := newAccountServiceWithMock(t)

	_, err := svc.Create(context.Background(), 1, model.CreateAccountRequest{
		Title:    "Rent",
		Kind:     model.KindPayable,
		Currency: "pesos!",
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAccount_NotOwner(t *testing.T) {
	svc, mock := newAccountServiceWithMock(t)

	viewerID := 2
	title := "New title"
	mock.ExpectQuery(regexp.QuoteMeta(`FROM accounts WHERE id = $1 AND deleted_at IS NULL`)).
		WithArgs(7).
		WillReturnRows(accountRow(7, 1, &viewerID, "MXN", 100))

	err := svc.Update(context.Background(), 7, 2, model.UpdateAccountRequest{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAccount_Empty(t *testing.T) {
	svc, mock := newAccountServiceWithMock(t)

	err := svc.Update(context.Background(), 7, 1, model.UpdateAccountRequest{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAccount_ClearViewer(t *testing.T) {
	svc, mock := newAccountServiceWithMock(t)

	viewerID := 2
	empty := ""
	mock.ExpectQuery(regexp.QuoteMeta(`FROM accounts WHERE id = $1 AND deleted_at IS NULL`)).
		WithArgs(7).
		WillReturnRows(accountRow(7, 1, &viewerID, "MXN", 100))
	mock.ExpectExec(regexp.QuoteMeta(`viewer_user_id = NULL`)).
		WithArgs(7).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := svc.Update(context.Background(), 7, 1, model.UpdateAccountRequest{ViewerUsername: &empty})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccount_NotFound(t *testing.T) {
	svc, mock := newAccountServiceWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM accounts WHERE id = $1 AND deleted_at IS NULL`)).
		WithArgs(404).
		WillReturnRows(pgxmock.NewRows(accountCols))

	err := svc.Delete(context.Background(), 404, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
