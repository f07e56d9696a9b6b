package handler

import (
	"context"  // provides context with cancellation for service calls
	"errors"   // sentinel error matching
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for service calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/auth-service/internal/auth"       // auth service orchestration
	"github.com/iliyamo/auth-service/internal/config"     // app configuration
	"github.com/iliyamo/auth-service/internal/middleware" // request identity helpers
	"github.com/iliyamo/auth-service/internal/utils"      // cookie helpers
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg config.Config
	Svc *auth.Service
}

func NewAuthHandler(cfg config.Config, svc *auth.Service) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Svc: svc}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}
type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
type verifyEmailReq struct {
	Code string `json:"code"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// authResp is the mobile-shaped response: tokens travel in the body and
// the client stores them in secure storage.
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// webAuthResp is the web-shaped response: tokens were set as HTTP-only
// cookies, the body carries only the user.
type webAuthResp struct {
	User    userPart `json:"user"`
	Message string   `json:"message"`
}

// respondSession writes a session to the client in whichever shape its
// type calls for: cookies for web, tokens in the body for mobile.
func (h *AuthHandler) respondSession(c echo.Context, status int, s auth.Session) error {
	user := userPart{ID: s.UserID, Email: s.Email, Role: s.Role}
	if middleware.RequestClientType(c) == middleware.ClientWeb {
		utils.SetAuthCookies(c, h.Cfg,
			s.Pair.Access.Token, s.Pair.Refresh.Token,
			s.Pair.Access.ExpiresAt, s.Pair.Refresh.ExpiresAt)
		return c.JSON(status, webAuthResp{User: user, Message: "authenticated"})
	}
	return c.JSON(status, authResp{
		User:    user,
		Access:  tokenPart{Token: s.Pair.Access.Token, Expires: s.Pair.Access.ExpiresAt},
		Refresh: tokenPart{Token: s.Pair.Refresh.Token, Expires: s.Pair.Refresh.ExpiresAt},
	})
}

// Register: create user, default settings and verification code, return tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	s, err := h.Svc.Register(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}
	return h.respondSession(c, http.StatusCreated, s)
}

// Login: verify credentials and return a new pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	s, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		case errors.Is(err, auth.ErrAccountInactive):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "account is inactive"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	return h.respondSession(c, http.StatusOK, s)
}

// Refresh: rotate the presented refresh token for a new pair.  Web clients
// carry the token in a cookie, mobile clients in the body.
func (h *AuthHandler) Refresh(c echo.Context) error {
	raw := h.refreshTokenFrom(c)
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	s, err := h.Svc.Refresh(ctx, raw)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		case errors.Is(err, auth.ErrTokenRevoked):
			// Explicit blacklist hit, distinct from plain expiry: the token
			// was already rotated or killed, so this presentation is a
			// likely replay.
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "refresh token has been revoked"})
		case errors.Is(err, auth.ErrAccountInactive):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "account is inactive"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}
	return h.respondSession(c, http.StatusOK, s)
}

// Logout: revoke exactly the access token that authenticated this request
// (protected route).  A second logout with the same token reports that no
// active session remains.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw := middleware.AccessToken(c)
	uid := middleware.UserID(c)

	ctx, cancel := h.opCtx(c)
	defer cancel()

	err := h.Svc.Logout(ctx, raw, uid)
	if middleware.RequestClientType(c) == middleware.ClientWeb {
		utils.ClearAuthCookies(c, h.Cfg)
	}
	if err != nil {
		if errors.Is(err, auth.ErrNoActiveSession) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "no active session"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ForgotPassword: request a reset link.  The response is identical whether
// or not the email exists so the endpoint cannot be used to probe for
// accounts.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	if err := h.Svc.ForgotPassword(ctx, strings.ToLower(strings.TrimSpace(req.Email))); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "request failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "if the email exists, a password reset link has been sent",
	})
}

// ResetPassword: consume a reset token and set a new password.  Used or
// expired tokens are indistinguishable from unknown ones.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Token) == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token/new_password required"})
	}
	if len(req.NewPassword) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	if err := h.Svc.ResetPassword(ctx, strings.TrimSpace(req.Token), req.NewPassword); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired reset token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

// ChangePassword: verify the current password and set a new one
// (protected route).  All other sessions are revoked.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current_password/new_password required"})
	}
	if len(req.NewPassword) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	if err := h.Svc.ChangePassword(ctx, middleware.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "current password is incorrect"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "password change failed"})
	}
	if middleware.RequestClientType(c) == middleware.ClientWeb {
		utils.ClearAuthCookies(c, h.Cfg)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

// VerifyEmail: compare the submitted code against the stored one
// (protected route).
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	if err := h.Svc.VerifyEmail(ctx, middleware.UserID(c), strings.TrimSpace(req.Code)); err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCode):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid verification code"})
		case errors.Is(err, auth.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verification failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "email verified"})
}

// Me: simple protected endpoint.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get(middleware.ContextKeyUserID),
		"email":   c.Get(middleware.ContextKeyEmail),
		"role":    c.Get(middleware.ContextKeyRole),
	})
}

// refreshTokenFrom reads the refresh token from the cookie for web clients
// and from the JSON body for mobile clients.
func (h *AuthHandler) refreshTokenFrom(c echo.Context) string {
	if middleware.RequestClientType(c) == middleware.ClientWeb {
		if v := utils.ReadCookie(c, h.Cfg.RefreshCookieName); v != "" {
			return v
		}
	}
	var req refreshReq
	_ = c.Bind(&req)
	return strings.TrimSpace(req.RefreshToken)
}

// opCtx bounds every service call issued by a handler.
func (h *AuthHandler) opCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
