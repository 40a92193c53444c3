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

func newAuthServiceWithMock(t *testing.T) (AuthService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	users := repository.NewUserRepository(mock)
	sessions := repository.NewSessionRepository(mock)
	return NewAuthService(users, sessions), mock
}

func userRows(id int, username, passwordHash, role string, isActive bool) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "username", "password_hash", "role", "is_active", "created_at"}).
		AddRow(id, username, passwordHash, role, isActive, time.Now())
}

func TestLogin_Success(t *testing.T) {
	svc, mock := newAuthServiceWithMock(t)

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE lower(username) = lower($1)`)).
		WithArgs("maria").
		WillReturnRows(userRows(1, "maria", hash, model.RoleUser, true))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO sessions (id, user_id, expires_at)`)).
		WithArgs(pgxmock.AnyArg(), 1, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	user, session, err := svc.Login(context.Background(), "Maria", "secret123")
	assert.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, session)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, 1, session.UserID)
	assert.NotEmpty(t, session.ID)
	assert.WithinDuration(t, time.Now().Add(SessionTTL), session.ExpiresAt, time.Minute)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, mock := newAuthServiceWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE lower(username) = lower($1)`)).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "role", "is_active", "created_at"}))

	_, _, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mock := newAuthServiceWithMock(t)

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE lower(username) = lower($1)`)).
		WithArgs("maria").
		WillReturnRows(userRows(1, "maria", hash, model.RoleUser, true))

	_, _, err = svc.Login(context.Background(), "maria", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_InactiveUser(t *testing.T) {
	svc, mock := newAuthServiceWithMock(t)

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE lower(username) = lower($1)`)).
		WithArgs("maria").
		WillReturnRows(userRows(1, "maria", hash, model.RoleUser, false))

	_, _, err = svc.Login(context.Background(), "maria", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_ValidSession(t *testing.T) {
	svc, mock := newAuthServiceWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, expires_at FROM sessions WHERE id = $1`)).
		WithArgs("tok").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "expires_at"}).
			AddRow("tok", 1, time.Now().Add(time.Hour)))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(1).
		WillReturnRows(userRows(1, "maria", "hash", model.RoleAdmin, true))

	authUser, err := svc.Resolve(context.Background(), "tok")
	assert.NoError(t, err)
	require.NotNil(t, authUser)
	assert.Equal(t, 1, authUser.ID)
	assert.Equal(t, "maria", authUser.Username)
	assert.Equal(t, model.RoleAdmin, authUser.Role)
	assert.Equal(t, "tok", authUser.SessionID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_ExpiredSessionIsDeleted(t *testing.T) {
	svc, mock := newAuthServiceWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, expires_at FROM sessions WHERE id = $1`)).
		WithArgs("tok").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "expires_at"}).
			AddRow("tok", 1, time.Now().Add(-time.Hour)))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE id = $1`)).
		WithArgs("tok").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	authUser, err := svc.Resolve(context.Background(), "tok")
	assert.NoError(t, err)
	assert.Nil(t, authUser)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_InactiveUser(t *testing.T) {
	svc, mock := newAuthServiceWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, expires_at FROM sessions WHERE id = $1`)).
		WithArgs("tok").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "expires_at"}).
			AddRow("tok", 1, time.Now().Add(time.Hour)))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(1).
		WillReturnRows(userRows(1, "maria", "hash", model.RoleUser, false))

	authUser, err := svc.Resolve(context.Background(), "tok")
	assert.NoError(t, err)
	assert.Nil(t, authUser)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_EmptySessionID(t *testing.T) {
	svc, mock := newAuthServiceWithMock(t)

	authUser, err := svc.Resolve(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, authUser)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogout_Idempotent(t *testing.T) {
	svc, mock := newAuthServiceWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE id = $1`)).
		WithArgs("tok").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, svc.Logout(context.Background(), "tok"))
	assert.NoError(t, svc.Logout(context.Background(), ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}
