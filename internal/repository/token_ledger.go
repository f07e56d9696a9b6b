package repository

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/auth-service/internal/model"
)

// TokenLedger is the single source of truth for "is this token currently
// usable" and "has this token been explicitly killed".  It owns the
// active_tokens and blacklisted_tokens tables; a token string lives in at
// most one of them at any moment.  Revocation is the only path from one
// table to the other and happens inside a transaction, so concurrent
// revocations of the same token are linearized by the unique key on
// blacklisted_tokens.token: exactly one inserter wins.
//
// An optional Redis client serves as a fast-path membership cache for the
// blacklist.  The cache is purely an optimization: a nil client or a cache
// failure falls back to the database on every check.
type TokenLedger struct {
	DB    *sql.DB
	Cache *redis.Client // nil disables the blacklist fast path

	// Fallback replay windows used when a token must be blacklisted after
	// its active row is already gone (rotated or swept).  The true original
	// expiry is unknown at that point, so the type's full TTL from now is
	// used instead, which can only over-extend the replay window, never
	// shorten it.
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewTokenLedger(db *sql.DB, cache *redis.Client, accessTTL, refreshTTL time.Duration) *TokenLedger {
	return &TokenLedger{DB: db, Cache: cache, AccessTTL: accessTTL, RefreshTTL: refreshTTL}
}

// RecordActive inserts a freshly issued token into the active set.  A
// duplicate token string means the codec produced a collision and is
// reported as ErrTokenExists; the caller logs it as a critical anomaly.
func (l *TokenLedger) RecordActive(ctx context.Context, tok string, userID uint64, typ model.TokenType, expiresAt time.Time) error {
	_, err := l.DB.ExecContext(ctx,
		"INSERT INTO active_tokens (token, user_id, token_type, expires_at) VALUES (?,?,?,?)",
		tok, userID, typ, expiresAt)
	if isDuplicate(err) {
		return ErrTokenExists
	}
	return err
}

// GetActive returns the active entry for a token, or sql.ErrNoRows when the
// token is not in the active set.  Absence is a valid input for revocation
// (the row may already have been consumed by rotation or the sweep), not an
// error condition in itself.
func (l *TokenLedger) GetActive(ctx context.Context, tok string) (model.ActiveToken, error) {
	var at model.ActiveToken
	err := l.DB.QueryRowContext(ctx,
		"SELECT id,token,user_id,token_type,issued_at,expires_at FROM active_tokens WHERE token=? LIMIT 1",
		tok).Scan(&at.ID, &at.Token, &at.UserID, &at.Type, &at.IssuedAt, &at.ExpiresAt)
	if err != nil {
		return model.ActiveToken{}, err
	}
	return at, nil
}

// IsBlacklisted reports whether a token has been explicitly revoked.  The
// Redis cache is consulted first; on a miss the database answers and a
// positive result is written back with a TTL matching the entry's natural
// expiry.  Cache errors are logged and ignored.
func (l *TokenLedger) IsBlacklisted(ctx context.Context, tok string) (bool, error) {
	key := blacklistKey(tok)
	if l.Cache != nil {
		if n, err := l.Cache.Exists(ctx, key).Result(); err == nil && n > 0 {
			return true, nil
		}
	}
	var expiresAt time.Time
	err := l.DB.QueryRowContext(ctx,
		"SELECT expires_at FROM blacklisted_tokens WHERE token=? LIMIT 1", tok).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	l.cacheBlacklisted(ctx, key, expiresAt)
	return true, nil
}

// Revoke atomically moves a token from the active set to the blacklist with
// the given reason.  When the active row still exists its true type and
// expiry are preserved on the blacklist entry; when it is already gone
// (rotated, swept, or never tracked) the token is blacklisted anyway using
// the fallback type's default TTL from now, so ad-hoc revocation never
// fails just because the active record was consumed first.
//
// ErrAlreadyRevoked means another operation blacklisted this token
// concurrently (or earlier); the rows are left exactly as that winner wrote
// them.
func (l *TokenLedger) Revoke(ctx context.Context, tok string, userID uint64, fallback model.TokenType, reason model.RevocationReason) error {
	expiresAt, err := l.revokeTx(ctx, tok, userID, fallback, reason)
	if err != nil {
		return err
	}
	// Cache only after the commit; the cache must never assert a
	// blacklisting the database did not record.
	l.cacheBlacklisted(ctx, blacklistKey(tok), expiresAt)
	return nil
}

// revokeTx runs the revocation transaction and returns the expiry written
// to the blacklist row.  The named error return matters: the deferred
// commit assigns into it, so a commit failure surfaces to the caller
// instead of being mistaken for a persisted revocation.
func (l *TokenLedger) revokeTx(ctx context.Context, tok string, userID uint64, fallback model.TokenType, reason model.RevocationReason) (expiresAt time.Time, err error) {
	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return time.Time{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	typ := fallback
	owner := userID
	expiresAt = time.Now().UTC().Add(l.ttlFor(fallback))

	var (
		rowUser uint64
		rowType model.TokenType
		rowExp  time.Time
	)
	err = tx.QueryRowContext(ctx,
		"SELECT user_id, token_type, expires_at FROM active_tokens WHERE token=? FOR UPDATE",
		tok).Scan(&rowUser, &rowType, &rowExp)
	switch {
	case err == nil:
		typ, owner, expiresAt = rowType, rowUser, rowExp
		if _, err = tx.ExecContext(ctx, "DELETE FROM active_tokens WHERE token=?", tok); err != nil {
			return time.Time{}, err
		}
	case errors.Is(err, sql.ErrNoRows):
		err = nil // absence is fine; fall back to declared type and default TTL
	default:
		return time.Time{}, err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO blacklisted_tokens (token, user_id, token_type, expires_at, reason) VALUES (?,?,?,?,?)",
		tok, owner, typ, expiresAt, reason)
	if isDuplicate(err) {
		err = ErrAlreadyRevoked
		return time.Time{}, err
	}
	if err != nil {
		return time.Time{}, err
	}
	return expiresAt, nil
}

// RevokeAllForUser moves every non-expired active token belonging to a user
// into the blacklist in a single transaction; used for logout-everywhere
// semantics on password change and reset.  Expired active rows are left for
// the sweep; the codec already rejects them, so they pose no replay risk.
func (l *TokenLedger) RevokeAllForUser(ctx context.Context, userID uint64, reason model.RevocationReason) (err error) {
	now := time.Now().UTC()
	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	// Set-based move: copy the surviving rows into the blacklist with their
	// original types and expiries, then drop all of the user's active rows.
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO blacklisted_tokens (token, user_id, token_type, expires_at, reason)
		 SELECT token, user_id, token_type, expires_at, ? FROM active_tokens
		 WHERE user_id=? AND expires_at > ?`,
		reason, userID, now); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		"DELETE FROM active_tokens WHERE user_id=?", userID); err != nil {
		return err
	}
	return nil
}

// SweepExpired removes all ledger entries whose natural expiry has passed:
// active rows simply lapse (the codec rejects their tokens anyway) and
// blacklisted rows are safe to forget once the original token could no
// longer pass verification.  Idempotent: a second pass with no new
// expirations deletes nothing.  Returns the number of rows removed.
func (l *TokenLedger) SweepExpired(ctx context.Context, now time.Time) (total int64, err error) {
	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	for _, table := range []string{"active_tokens", "blacklisted_tokens"} {
		res, execErr := tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE expires_at <= ?", now)
		if execErr != nil {
			err = execErr
			return 0, err
		}
		n, raErr := res.RowsAffected()
		if raErr != nil {
			err = raErr
			return 0, err
		}
		total += n
	}
	return total, err
}

func (l *TokenLedger) ttlFor(typ model.TokenType) time.Duration {
	if typ == model.TokenRefresh {
		return l.RefreshTTL
	}
	return l.AccessTTL
}

// cacheBlacklisted writes a blacklist marker with a TTL matching the
// entry's natural expiry.  Failures only cost a cache miss later.
func (l *TokenLedger) cacheBlacklisted(ctx context.Context, key string, expiresAt time.Time) {
	if l.Cache == nil {
		return
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if err := l.Cache.Set(ctx, key, 1, ttl).Err(); err != nil {
		log.Printf("token-ledger: blacklist cache set failed: %v", err)
	}
}

// blacklistKey hashes the token so full JWTs never appear as cache keys.
func blacklistKey(tok string) string {
	sum := sha1.Sum([]byte(tok))
	return fmt.Sprintf("bl:%x", sum[:])
}

// isDuplicate reports whether err is a MySQL duplicate-key violation (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
