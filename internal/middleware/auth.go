package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/token"
)

// BlacklistChecker is the slice of the token ledger the middleware needs:
// a membership check against the blacklist.
type BlacklistChecker interface {
	IsBlacklisted(ctx context.Context, tok string) (bool, error)
}

// UserLoader loads the authenticated user so inactive accounts can be
// rejected even while holding a cryptographically valid token.
type UserLoader interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// Context keys set by Auth for downstream handlers.
const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
	ContextKeyRole   = "role"
	ContextKeyToken  = "access_token"
)

// Auth returns an echo middleware that authenticates a request with an
// access token.  The token is read from the Authorization header for
// mobile clients and from the access-token cookie for web clients (the
// ClientType middleware must run first).  Validation is layered exactly
// like the issue path in reverse: the codec proves the token is genuine
// and unexpired, the ledger proves it has not been revoked, and the user
// record proves the account is still active.  The token string itself is
// kept in the context so logout can revoke precisely the credential that
// authenticated the request.
func Auth(codec *token.Codec, ledger BlacklistChecker, users UserLoader, accessCookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := extractToken(c, accessCookieName)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing credentials"})
			}

			claims, err := codec.Verify(raw)
			if err != nil || claims.Type != model.TokenAccess {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			revoked, err := ledger.IsBlacklisted(ctx, raw)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token check failed"})
			}
			if revoked {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token has been revoked"})
			}

			user, err := users.GetByID(ctx, claims.UserID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			if !user.IsActive {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "account is inactive"})
			}

			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyEmail, claims.Subject)
			c.Set(ContextKeyRole, user.Role)
			c.Set(ContextKeyToken, raw)
			return next(c)
		}
	}
}

// extractToken pulls the access token from wherever the client type keeps
// it: bearer header for mobile, cookie for web.  A web client that sends a
// bearer header anyway is honored, cookie second.
func extractToken(c echo.Context, cookieName string) string {
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if ck, err := c.Cookie(cookieName); err == nil && ck != nil {
		return ck.Value
	}
	return ""
}

// UserID returns the authenticated user's id from the context; zero when
// the Auth middleware did not run.
func UserID(c echo.Context) uint64 {
	if v, ok := c.Get(ContextKeyUserID).(uint64); ok {
		return v
	}
	return 0
}

// AccessToken returns the raw token string that authenticated the request.
func AccessToken(c echo.Context) string {
	if v, ok := c.Get(ContextKeyToken).(string); ok {
		return v
	}
	return ""
}
