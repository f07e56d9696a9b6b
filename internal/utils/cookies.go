package utils

import (
	"net/http" // cookie primitives
	"time"     // cookie expiry

	"github.com/labstack/echo/v4" // echo response helpers

	"github.com/iliyamo/auth-service/internal/config"
)

// SetAuthCookies writes the access and refresh tokens as HTTP-only cookies
// on the response.  Web clients never see token strings in response bodies;
// the browser stores and replays them automatically.  Mobile clients skip
// this path entirely and receive tokens in JSON instead.
func SetAuthCookies(c echo.Context, cfg config.Config, access, refresh string, accessExp, refreshExp time.Time) {
	c.SetCookie(authCookie(cfg, cfg.AccessCookieName, access, accessExp))
	c.SetCookie(authCookie(cfg, cfg.RefreshCookieName, refresh, refreshExp))
}

// ClearAuthCookies expires both auth cookies so the browser drops them.
func ClearAuthCookies(c echo.Context, cfg config.Config) {
	past := time.Now().UTC().Add(-time.Hour)
	c.SetCookie(authCookie(cfg, cfg.AccessCookieName, "", past))
	c.SetCookie(authCookie(cfg, cfg.RefreshCookieName, "", past))
}

// ReadCookie returns the named cookie's value or "" when absent.
func ReadCookie(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil || ck == nil {
		return ""
	}
	return ck.Value
}

func authCookie(cfg config.Config, name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
