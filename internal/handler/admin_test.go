package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/auth-service/internal/repository"
)

func newAdminHandler(t *testing.T) (*AdminHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewAdminHandler(repository.NewUserRepo(db)), mock, func() { db.Close() }
}

func adminGetUser(t *testing.T, h *AdminHandler, id string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.GetUser(c))
	return rec
}

func TestAdminGetUser(t *testing.T) {
	h, mock, done := newAdminHandler(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "email", "password_hash", "role", "is_active", "is_verified",
		"verification_code", "first_name", "last_name", "created_at", "updated_at",
	}).AddRow(7, "a@x.com", "hash", "user", true, true, nil, nil, nil, now, now)
	mock.ExpectQuery("SELECT .+ FROM users WHERE id=\\? LIMIT 1").
		WithArgs(uint64(7)).WillReturnRows(rows)

	rec := adminGetUser(t, h, "7")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"a@x.com"`)
	// The hash must never leave the repository layer.
	assert.NotContains(t, rec.Body.String(), "hash")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminGetUserNotFound(t *testing.T) {
	h, mock, done := newAdminHandler(t)
	defer done()

	mock.ExpectQuery("SELECT .+ FROM users WHERE id=\\? LIMIT 1").
		WithArgs(uint64(99)).WillReturnError(sql.ErrNoRows)

	rec := adminGetUser(t, h, "99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminGetUserBadID(t *testing.T) {
	h, _, done := newAdminHandler(t)
	defer done()

	rec := adminGetUser(t, h, "not-a-number")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
