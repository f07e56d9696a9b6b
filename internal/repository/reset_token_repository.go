package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/auth-service/internal/model"
)

// ResetTokenRepo persists single-use password reset secrets
// ('password_reset_tokens' table).
type ResetTokenRepo struct{ DB *sql.DB }

func NewResetTokenRepo(db *sql.DB) *ResetTokenRepo { return &ResetTokenRepo{DB: db} }

// Create inserts a fresh reset token for a user.
func (r *ResetTokenRepo) Create(ctx context.Context, tok string, userID uint64, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (token, user_id, expires_at) VALUES (?,?,?)",
		tok, userID, expiresAt)
	return err
}

// GetLive returns the reset entry for a token only while it is still
// usable: unused and unexpired.  Used or expired tokens are
// indistinguishable from absent ones (sql.ErrNoRows); a consumed token
// is permanently inert.
func (r *ResetTokenRepo) GetLive(ctx context.Context, tok string) (model.PasswordResetToken, error) {
	var prt model.PasswordResetToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,token,user_id,expires_at,used,created_at FROM password_reset_tokens WHERE token=? AND used=0 AND expires_at > ? LIMIT 1",
		tok, time.Now().UTC()).Scan(&prt.ID, &prt.Token, &prt.UserID, &prt.ExpiresAt, &prt.Used, &prt.CreatedAt)
	if err != nil {
		return model.PasswordResetToken{}, err
	}
	return prt, nil
}

// MarkUsed consumes a reset token.  The used=0 guard makes consumption
// race-safe: of two concurrent resets with the same token, only one
// flips the flag and the other sees sql.ErrNoRows.
func (r *ResetTokenRepo) MarkUsed(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE password_reset_tokens SET used=1 WHERE id=? AND used=0", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
