package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/auth-service/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/auth-service/internal/middleware" // import middleware for client type, token auth and role enforcement
	"github.com/iliyamo/auth-service/internal/model"      // role constants for the admin group
	"github.com/iliyamo/auth-service/internal/token"      // token codec consumed by the auth middleware
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// /healthz can be used by load balancers or monitoring systems to
	// verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// protected endpoints under /v1.  Every route runs the ClientType
// middleware first so handlers know whether to move tokens through
// cookies (web) or the request/response body (mobile).
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, s *handler.SettingsHandler,
	adm *handler.AdminHandler, codec *token.Codec, ledger middleware.BlacklistChecker,
	users middleware.UserLoader) {

	clientType := middleware.ClientType()

	// Operations that do not require an existing session.  Register, login
	// and refresh each issue or exchange tokens themselves; the password
	// reset pair works entirely through out-of-band secrets.
	g := e.Group("/v1/auth", clientType)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)

	// Routes that require a valid, non-revoked access token on an active
	// account.  The Auth middleware validates the token cryptographically,
	// checks the blacklist and loads the user before any handler runs.
	auth := e.Group("/v1", clientType)
	auth.Use(middleware.Auth(codec, ledger, users, a.Cfg.AccessCookieName))

	// Logout is deliberately protected: it revokes exactly the token that
	// authenticated the request, so the request must carry one.
	auth.POST("/logout", a.Logout)
	auth.POST("/change-password", a.ChangePassword)
	auth.POST("/verify-email", a.VerifyEmail)
	auth.GET("/me", a.Me)
	auth.GET("/settings", s.Get)
	auth.PUT("/settings", s.Update)
	auth.POST("/settings/reset", s.Reset)

	// Operator surface: same auth chain plus a role gate on users.role.
	admin := auth.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users/:id", adm.GetUser)
}
