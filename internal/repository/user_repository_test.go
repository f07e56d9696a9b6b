package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/auth-service/internal/model"
)

func newUserRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewUserRepo(db), mock, func() { db.Close() }
}

func TestUserCreateNormalizesEmail(t *testing.T) {
	r, mock, done := newUserRepo(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)")).
		WithArgs("a@x.com", "hash", model.RoleUser).
		WillReturnResult(sqlmock.NewResult(12, 1))

	id, err := r.Create(context.Background(), "  A@X.COM ", "hash", model.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	r, mock, done := newUserRepo(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)")).
		WithArgs("a@x.com", "hash", model.RoleUser).
		WillReturnError(errDuplicate)

	_, err := r.Create(context.Background(), "a@x.com", "hash", model.RoleUser)
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByEmailNullColumns(t *testing.T) {
	r, mock, done := newUserRepo(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "email", "password_hash", "role", "is_active", "is_verified",
		"verification_code", "first_name", "last_name", "created_at", "updated_at",
	}).AddRow(7, "a@x.com", "hash", "user", true, false, nil, nil, nil, now, now)
	mock.ExpectQuery("SELECT .+ FROM users WHERE email=\\? LIMIT 1").
		WithArgs("a@x.com").WillReturnRows(rows)

	u, err := r.GetByEmail(context.Background(), "A@x.com")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), u.ID)
	assert.Empty(t, u.VerificationCode)
	assert.Empty(t, u.FirstName)
	assert.True(t, u.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkVerifiedVanishedUser(t *testing.T) {
	r, mock, done := newUserRepo(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_verified=1 WHERE id=?")).
		WithArgs(uint64(99)).WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.MarkVerified(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func newResetRepo(t *testing.T) (*ResetTokenRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewResetTokenRepo(db), mock, func() { db.Close() }
}

func TestResetTokenMarkUsedOnce(t *testing.T) {
	r, mock, done := newResetRepo(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE password_reset_tokens SET used=1 WHERE id=? AND used=0")).
		WithArgs(uint64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
	// Second consumption attempt no longer matches the used=0 guard.
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE password_reset_tokens SET used=1 WHERE id=? AND used=0")).
		WithArgs(uint64(4)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, r.MarkUsed(context.Background(), 4))
	assert.ErrorIs(t, r.MarkUsed(context.Background(), 4), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenGetLiveExpiredIsAbsent(t *testing.T) {
	r, mock, done := newResetRepo(t)
	defer done()

	mock.ExpectQuery("SELECT .+ FROM password_reset_tokens WHERE token=\\? AND used=0 AND expires_at > \\? LIMIT 1").
		WithArgs("stale", sqlmock.AnyArg()).WillReturnError(sql.ErrNoRows)

	_, err := r.GetLive(context.Background(), "stale")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
