package model

import "time"

// TokenType distinguishes short-lived access tokens from long-lived
// refresh tokens.  The value is embedded in the signed token itself and
// stored alongside every ledger row.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Valid reports whether t is one of the known token types.
func (t TokenType) Valid() bool {
	return t == TokenAccess || t == TokenRefresh
}

// RevocationReason records why a token was blacklisted before its natural
// expiry.  The set matches the CHECK constraint on blacklisted_tokens.reason.
type RevocationReason string

const (
	ReasonLogout          RevocationReason = "logout"
	ReasonPasswordChange  RevocationReason = "password_change"
	ReasonAccountDeletion RevocationReason = "account_deletion"
	ReasonTokenRefresh    RevocationReason = "token_refresh"
	ReasonPasswordReset   RevocationReason = "password_reset"
)

// ActiveToken models a row in the `active_tokens` table: a token that is
// currently valid and usable.  A token string appears in at most one of
// active_tokens / blacklisted_tokens at any time; rows leave this table on
// logout, rotation, or the expiry sweep.
//
// Fields:
//
//	ID        – primary key identifier.
//	Token     – the issued token string (unique).
//	UserID    – owner of the token.
//	Type      – access or refresh.
//	IssuedAt  – when the token was issued.
//	ExpiresAt – the token's natural expiry as embedded in its claims.
type ActiveToken struct {
	ID        uint64    // active_tokens.id
	Token     string    // active_tokens.token
	UserID    uint64    // active_tokens.user_id
	Type      TokenType // active_tokens.token_type
	IssuedAt  time.Time // active_tokens.issued_at
	ExpiresAt time.Time // active_tokens.expires_at
}

// BlacklistedToken models a row in the `blacklisted_tokens` table: a token
// explicitly invalidated before its natural expiry.  Rows are retained
// until that expiry passes so replayed tokens can be told apart from merely
// lapsed ones, then removed by the sweep.
//
// Fields:
//
//	ID            – primary key identifier.
//	Token         – the revoked token string (unique).
//	UserID        – owner of the token.
//	Type          – access or refresh.
//	BlacklistedAt – when the token was revoked.
//	ExpiresAt     – the token's natural expiry; end of the replay window.
//	Reason        – why the token was revoked.
type BlacklistedToken struct {
	ID            uint64           // blacklisted_tokens.id
	Token         string           // blacklisted_tokens.token
	UserID        uint64           // blacklisted_tokens.user_id
	Type          TokenType        // blacklisted_tokens.token_type
	BlacklistedAt time.Time        // blacklisted_tokens.blacklisted_at
	ExpiresAt     time.Time        // blacklisted_tokens.expires_at
	Reason        RevocationReason // blacklisted_tokens.reason
}

// PasswordResetToken models a row in the `password_reset_tokens` table.
// Each token is single-use: once Used is set it stays inert forever,
// regardless of expiry.
//
// Fields:
//
//	ID        – primary key identifier.
//	Token     – the opaque reset secret (unique).
//	UserID    – user the reset applies to.
//	ExpiresAt – expiry of the reset window.
//	Used      – whether the token has been consumed.
//	CreatedAt – timestamp of creation.
type PasswordResetToken struct {
	ID        uint64    // password_reset_tokens.id
	Token     string    // password_reset_tokens.token
	UserID    uint64    // password_reset_tokens.user_id
	ExpiresAt time.Time // password_reset_tokens.expires_at
	Used      bool      // password_reset_tokens.used
	CreatedAt time.Time // password_reset_tokens.created_at
}
