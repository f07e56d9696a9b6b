package middleware

// clienttype.go resolves whether a request comes from a web or a mobile
// client.  Web clients keep their tokens in HTTP-only cookies; mobile
// clients store them in the platform keychain and send them as bearer
// headers.  The distinction decides where handlers read and write tokens,
// never how the ledger treats them.

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Client type values stored in the request context under ContextKeyClientType.
const (
	ClientWeb    = "web"
	ClientMobile = "mobile"
)

// ContextKeyClientType is the echo context key holding the resolved client type.
const ContextKeyClientType = "client_type"

// ClientType returns a middleware that classifies the request from the
// X-Client-Type header.  A missing header defaults to web; anything other
// than "web" or "mobile" is rejected with 400 before reaching a handler.
func ClientType() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ct := strings.ToLower(strings.TrimSpace(c.Request().Header.Get("X-Client-Type")))
			switch ct {
			case "":
				ct = ClientWeb
			case ClientWeb, ClientMobile:
			default:
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid X-Client-Type header, must be 'web' or 'mobile'"})
			}
			c.Set(ContextKeyClientType, ct)
			return next(c)
		}
	}
}

// RequestClientType reads the resolved client type from the context,
// defaulting to web when the middleware did not run.
func RequestClientType(c echo.Context) string {
	if v, ok := c.Get(ContextKeyClientType).(string); ok && v != "" {
		return v
	}
	return ClientWeb
}
