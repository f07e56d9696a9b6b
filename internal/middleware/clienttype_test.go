package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runClientType(t *testing.T, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if header != "" {
		req.Header.Set("X-Client-Type", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var resolved string
	h := ClientType()(func(c echo.Context) error {
		resolved = RequestClientType(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, resolved
}

func TestClientTypeDefaultsToWeb(t *testing.T) {
	rec, resolved := runClientType(t, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ClientWeb, resolved)
}

func TestClientTypeMobile(t *testing.T) {
	rec, resolved := runClientType(t, "mobile")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ClientMobile, resolved)
}

func TestClientTypeNormalizesCase(t *testing.T) {
	rec, resolved := runClientType(t, "  Mobile ")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ClientMobile, resolved)
}

func TestClientTypeRejectsUnknown(t *testing.T) {
	rec, _ := runClientType(t, "desktop")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestClientTypeWithoutMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, ClientWeb, RequestClientType(c))
}
