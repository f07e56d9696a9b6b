// Package auth orchestrates the token lifecycle: registration, login,
// refresh-token rotation, logout, password reset/change and email
// verification.  The service owns no state of its own: everything it
// touches lives behind the store interfaces below, which the repositories
// implement, and every dependency is handed in explicitly at construction.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/token"
	"github.com/iliyamo/auth-service/internal/utils"
)

// UserStore is the slice of the user repository the service depends on.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash, role string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
	SetVerificationCode(ctx context.Context, id uint64, code string) error
	MarkVerified(ctx context.Context, id uint64) error
}

// SettingsStore creates the default settings row at registration.
type SettingsStore interface {
	CreateDefault(ctx context.Context, userID uint64) error
}

// Ledger is the token ledger surface the service drives: recording issued
// tokens, membership checks and revocation.
type Ledger interface {
	RecordActive(ctx context.Context, tok string, userID uint64, typ model.TokenType, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, tok string) (bool, error)
	GetActive(ctx context.Context, tok string) (model.ActiveToken, error)
	Revoke(ctx context.Context, tok string, userID uint64, fallback model.TokenType, reason model.RevocationReason) error
	RevokeAllForUser(ctx context.Context, userID uint64, reason model.RevocationReason) error
}

// ResetTokenStore persists single-use password reset secrets.
type ResetTokenStore interface {
	Create(ctx context.Context, tok string, userID uint64, expiresAt time.Time) error
	GetLive(ctx context.Context, tok string) (model.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id uint64) error
}

// Hasher is the opaque one-way password function.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// Notifier delivers out-of-band messages.  Implementations are
// fire-and-forget: they log failures and never propagate them, so a broken
// mail path cannot fail registration or password reset.
type Notifier interface {
	SendVerificationCode(ctx context.Context, email, code string)
	SendResetLink(ctx context.Context, email, link string)
}

// BcryptHasher implements Hasher with the configured bcrypt cost.
type BcryptHasher struct{ Cost int }

func (h BcryptHasher) Hash(plain string) (string, error) { return utils.HashPassword(plain, h.Cost) }
func (h BcryptHasher) Verify(hash, plain string) bool    { return utils.VerifyPassword(hash, plain) }

// Deps bundles everything a Service needs.  Constructed once per process in
// main and injected; nothing in this package reaches for globals.
type Deps struct {
	Users    UserStore
	Settings SettingsStore
	Ledger   Ledger
	Resets   ResetTokenStore
	Hasher   Hasher
	Notifier Notifier
	Codec    *token.Codec

	BaseURL  string        // public base URL for reset links
	ResetTTL time.Duration // password reset token lifetime
}

// Service implements the authentication flows over the injected stores.
type Service struct {
	deps Deps
}

func New(deps Deps) *Service { return &Service{deps: deps} }

// Session is what a successful register/login/refresh hands back: the
// user's identity plus a freshly issued, ledger-recorded token pair.
type Session struct {
	UserID uint64
	Email  string
	Role   string
	Pair   token.Pair
}

// Register creates a new user with default settings, issues and records an
// access+refresh pair, stores an email verification code and asks the
// notifier to deliver it.
func (s *Service) Register(ctx context.Context, email, password string) (Session, error) {
	hash, err := s.deps.Hasher.Hash(password)
	if err != nil {
		return Session{}, err
	}
	uid, err := s.deps.Users.Create(ctx, email, hash, model.RoleUser)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, err
	}
	user, err := s.deps.Users.GetByID(ctx, uid)
	if err != nil {
		return Session{}, err
	}
	if err := s.deps.Settings.CreateDefault(ctx, uid); err != nil {
		return Session{}, err
	}

	code, err := token.NewVerificationCode()
	if err != nil {
		return Session{}, err
	}
	if err := s.deps.Users.SetVerificationCode(ctx, uid, code); err != nil {
		return Session{}, err
	}
	s.deps.Notifier.SendVerificationCode(ctx, user.Email, code)

	return s.issueSession(ctx, user)
}

// Login verifies credentials and issues a new pair.  Unknown email and
// wrong password are indistinguishable; inactive accounts are rejected
// even with a correct password.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.deps.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if !s.deps.Hasher.Verify(user.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return Session{}, ErrAccountInactive
	}
	return s.issueSession(ctx, user)
}

// Refresh exchanges a refresh token for a new pair and retires the
// presented token, enforcing single-use rotation.  The old token is
// revoked BEFORE the new pair is issued: of two concurrent refreshes with
// the same token, the first to blacklist it wins and the loser observes
// ErrTokenRevoked with nothing issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := s.deps.Codec.Verify(refreshToken)
	if err != nil || claims.Type != model.TokenRefresh {
		return Session{}, ErrInvalidToken
	}
	revoked, err := s.deps.Ledger.IsBlacklisted(ctx, refreshToken)
	if err != nil {
		return Session{}, err
	}
	if revoked {
		return Session{}, ErrTokenRevoked
	}
	user, err := s.deps.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrInvalidToken
		}
		return Session{}, err
	}
	if !user.IsActive {
		return Session{}, ErrAccountInactive
	}
	if err := s.deps.Ledger.Revoke(ctx, refreshToken, user.ID, model.TokenRefresh, model.ReasonTokenRefresh); err != nil {
		if errors.Is(err, repository.ErrAlreadyRevoked) {
			return Session{}, ErrTokenRevoked
		}
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

// Logout revokes the presented token with reason "logout".  The active set
// is consulted first to recover the token's declared type; a token that has
// already lapsed from the active set is still blacklisted, defaulting to
// the access type's replay window.  Logging out a token that was already
// revoked yields ErrNoActiveSession rather than an internal failure.
func (s *Service) Logout(ctx context.Context, tok string, userID uint64) error {
	typ := model.TokenAccess
	if at, err := s.deps.Ledger.GetActive(ctx, tok); err == nil {
		typ = at.Type
		userID = at.UserID
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if err := s.deps.Ledger.Revoke(ctx, tok, userID, typ, model.ReasonLogout); err != nil {
		if errors.Is(err, repository.ErrAlreadyRevoked) {
			return ErrNoActiveSession
		}
		return err
	}
	return nil
}

// ChangePassword verifies the current password, stores the new hash and
// revokes every outstanding token for the user; a password change logs
// the user out everywhere.
func (s *Service) ChangePassword(ctx context.Context, userID uint64, current, next string) error {
	user, err := s.deps.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if !s.deps.Hasher.Verify(user.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	hash, err := s.deps.Hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.deps.Users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	return s.deps.Ledger.RevokeAllForUser(ctx, userID, model.ReasonPasswordChange)
}

// ForgotPassword creates a reset token for the account and asks the
// notifier to deliver the reset link.  It deliberately reports success
// whether or not the email exists so the endpoint cannot be used to
// enumerate accounts; only store failures surface as errors.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.deps.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	tok, err := token.NewResetToken()
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(s.deps.ResetTTL)
	if err := s.deps.Resets.Create(ctx, tok, user.ID, expiresAt); err != nil {
		return err
	}
	link := fmt.Sprintf("%s/reset-password?token=%s", s.deps.BaseURL, tok)
	s.deps.Notifier.SendResetLink(ctx, user.Email, link)
	return nil
}

// ResetPassword consumes a live reset token, stores the new hash and
// revokes every outstanding token for the user.  The token is marked used
// before the password is touched so a concurrent second submission loses
// cleanly with ErrNotFound instead of applying the update twice.
func (s *Service) ResetPassword(ctx context.Context, tok, next string) error {
	prt, err := s.deps.Resets.GetLive(ctx, tok)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if err := s.deps.Resets.MarkUsed(ctx, prt.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	hash, err := s.deps.Hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.deps.Users.UpdatePassword(ctx, prt.UserID, hash); err != nil {
		return err
	}
	return s.deps.Ledger.RevokeAllForUser(ctx, prt.UserID, model.ReasonPasswordReset)
}

// VerifyEmail compares the submitted code against the stored one and marks
// the account verified on a match.  The code is not rotated on mismatch.
func (s *Service) VerifyEmail(ctx context.Context, userID uint64, code string) error {
	user, err := s.deps.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if user.VerificationCode == "" || user.VerificationCode != code {
		return ErrInvalidCode
	}
	return s.deps.Users.MarkVerified(ctx, userID)
}

// issueSession issues an access+refresh pair and records both in the
// ledger.  A duplicate token string coming back from the ledger means the
// codec's entropy failed us; it is logged as a critical anomaly and
// surfaced as a plain internal error, never as a user-facing condition.
func (s *Service) issueSession(ctx context.Context, user model.User) (Session, error) {
	pair, err := s.deps.Codec.IssuePair(user.Email, user.ID)
	if err != nil {
		return Session{}, err
	}
	for _, issued := range []token.Issued{pair.Access, pair.Refresh} {
		err := s.deps.Ledger.RecordActive(ctx, issued.Token, user.ID, issued.Type, issued.ExpiresAt)
		if errors.Is(err, repository.ErrTokenExists) {
			log.Printf("auth: CRITICAL token string collision for user %d (%s)", user.ID, issued.Type)
			return Session{}, err
		}
		if err != nil {
			return Session{}, err
		}
	}
	return Session{UserID: user.ID, Email: user.Email, Role: user.Role, Pair: pair}, nil
}
