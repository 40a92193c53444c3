package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"deuda_tracker/internal/model"
	"deuda_tracker/internal/repository"
	"deuda_tracker/internal/utils"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminServiceWithMock(t *testing.T) (AdminService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewAdminService(repository.NewUserRepository(mock)), mock
}

func TestCreateUser_Success(t *testing.T) {
	svc, mock := newAdminServiceWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE lower(username) = lower($1)`)).
		WithArgs("pedro").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "role", "is_active", "created_at"}))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("pedro", pgxmock.AnyArg(), model.RoleUser, true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(2, time.Now()))

	user, tempPassword, err := svc.CreateUser(context.Background(), "  Pedro  ", "")
	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "pedro", user.Username)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.Len(t, tempPassword, 10)
	assert.True(t, utils.CheckPasswordHash(tempPassword, user.PasswordHash))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	svc, mock := newAdminServiceWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE lower(username) = lower($1)`)).
		WithArgs("maria").
		WillReturnRows(userRows(1, "maria", "hash", model.RoleUser, true))

	_, _, err := svc.CreateUser(context.Background(), "Maria", model.RoleUser)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_Validation(t *testing.T) {
	svc, mock := newAdminServiceWithMock(t)

	_, _, err := svc.CreateUser(context.Background(), "ab", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.CreateUser(context.Background(), "pedro", "SUPERUSER")
	assert.ErrorIs(t, err, ErrValidation)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPassword(t *testing.T) {
	svc, mock := newAdminServiceWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(2).
		WillReturnRows(userRows(2, "pedro", "oldhash", model.RoleUser, true))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET password_hash = $1 WHERE id = $2`)).
		WithArgs(pgxmock.AnyArg(), 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tempPassword, err := svc.ResetPassword(context.Background(), 2)
	assert.NoError(t, err)
	assert.Len(t, tempPassword, 10)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPassword_UnknownUser(t *testing.T) {
	svc, mock := newAdminServiceWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(404).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "role", "is_active", "created_at"}))

	_, err := svc.ResetPassword(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
