// Package token signs and verifies the bearer tokens issued by the service.
// The codec is purely cryptographic: it decides whether a token string is
// well-formed, untampered and unexpired, and nothing else.  Whether a token
// is still usable (not rotated, not revoked) is the ledger's business.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens

	"github.com/iliyamo/auth-service/internal/model"
)

// ErrInvalid is returned by Verify for any token that fails structural or
// cryptographic validation: bad signature, malformed payload, unexpected
// signing method, unknown type, or expiry.  Callers never learn which.
var ErrInvalid = errors.New("invalid token")

// Claims is the fixed record embedded in every issued token.  There is no
// free-form payload; anything the service needs downstream must be a field
// here and is validated at the codec boundary.
type Claims struct {
	Subject   string          // the user's email
	UserID    uint64          // owning user id
	Type      model.TokenType // access or refresh
	ExpiresAt time.Time       // natural expiry (UTC)
}

// jwtClaims is the wire shape of Claims.  RegisteredClaims carries sub, exp,
// iat and a random jti so that two tokens issued for identical claims are
// never byte-equal.
type jwtClaims struct {
	jwt.RegisteredClaims
	UserID uint64 `json:"user_id"`
	Type   string `json:"type"`
}

// Issued bundles a signed token string with its expiry and type so callers
// can record it in the ledger without re-parsing.
type Issued struct {
	Token     string          // the serialized JWT string
	Type      model.TokenType // access or refresh
	ExpiresAt time.Time       // UTC expiration time
}

// Pair is the access+refresh pair handed to a client after registration,
// login, or refresh.
type Pair struct {
	Access  Issued
	Refresh Issued
}

// Codec issues and verifies HS256-signed tokens with configured lifetimes.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec builds a Codec from the signing secret and the configured
// access/refresh lifetimes (minutes and days respectively, matching the
// environment variables they come from).
func NewCodec(secret string, accessTTLMin, refreshTTLDays int) *Codec {
	return &Codec{
		secret:     []byte(secret),
		accessTTL:  time.Duration(accessTTLMin) * time.Minute,
		refreshTTL: time.Duration(refreshTTLDays) * 24 * time.Hour,
	}
}

// TTL returns the configured lifetime for a token type.  It is also the
// fallback replay window used when a token must be blacklisted after its
// active record is already gone.
func (c *Codec) TTL(t model.TokenType) time.Duration {
	if t == model.TokenRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue signs a token of the given type for the subject/user with the given
// ttl.  The jti claim is filled with random hex so identical claims never
// produce identical token strings.
func (c *Codec) Issue(subject string, userID uint64, typ model.TokenType, ttl time.Duration) (Issued, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	jti, err := randomHex(16)
	if err != nil {
		return Issued{}, err
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
		UserID: userID,
		Type:   string(typ),
	})
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return Issued{}, err
	}
	return Issued{Token: signed, Type: typ, ExpiresAt: exp}, nil
}

// IssuePair issues an access and a refresh token for the same subject using
// the codec's configured lifetimes.
func (c *Codec) IssuePair(subject string, userID uint64) (Pair, error) {
	access, err := c.Issue(subject, userID, model.TokenAccess, c.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := c.Issue(subject, userID, model.TokenRefresh, c.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// Verify parses and validates a token string and returns its claims.  Any
// failure (bad signature, wrong signing method, malformed structure,
// missing or unknown type, expiry) comes back as ErrInvalid.
func (c *Codec) Verify(tokenString string) (Claims, error) {
	var wire jwtClaims
	tok, err := jwt.ParseWithClaims(tokenString, &wire, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC before touching the key.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalid
	}
	typ := model.TokenType(wire.Type)
	if !typ.Valid() || wire.Subject == "" || wire.UserID == 0 || wire.ExpiresAt == nil {
		return Claims{}, ErrInvalid
	}
	return Claims{
		Subject:   wire.Subject,
		UserID:    wire.UserID,
		Type:      typ,
		ExpiresAt: wire.ExpiresAt.Time.UTC(),
	}, nil
}
