package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/auth-service/internal/model"
)

func newTestCodec() *Codec {
	return NewCodec("test-secret", 30, 60)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	c := newTestCodec()

	issued, err := c.Issue("a@x.com", 42, model.TokenAccess, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)

	claims, err := c.Verify(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, model.TokenAccess, claims.Type)
	assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestIssuePairTypesAndClaims(t *testing.T) {
	c := newTestCodec()

	pair, err := c.IssuePair("a@x.com", 7)
	require.NoError(t, err)
	assert.Equal(t, model.TokenAccess, pair.Access.Type)
	assert.Equal(t, model.TokenRefresh, pair.Refresh.Type)
	assert.NotEqual(t, pair.Access.Token, pair.Refresh.Token)

	for _, issued := range []Issued{pair.Access, pair.Refresh} {
		claims, err := c.Verify(issued.Token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.Subject)
		assert.Equal(t, uint64(7), claims.UserID)
		assert.Equal(t, issued.Type, claims.Type)
	}
	// The refresh token must outlive the access token.
	assert.True(t, pair.Refresh.ExpiresAt.After(pair.Access.ExpiresAt))
}

func TestIdenticalClaimsProduceDistinctTokens(t *testing.T) {
	c := newTestCodec()

	first, err := c.Issue("a@x.com", 1, model.TokenAccess, time.Minute)
	require.NoError(t, err)
	second, err := c.Issue("a@x.com", 1, model.TokenAccess, time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)
}

func TestVerifyRejectsExpired(t *testing.T) {
	c := newTestCodec()

	issued, err := c.Issue("a@x.com", 1, model.TokenAccess, -time.Minute)
	require.NoError(t, err)

	_, err = c.Verify(issued.Token)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsTampered(t *testing.T) {
	c := newTestCodec()

	issued, err := c.Issue("a@x.com", 1, model.TokenRefresh, time.Minute)
	require.NoError(t, err)

	tampered := issued.Token[:len(issued.Token)-2] + "xx"
	_, err = c.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	other := NewCodec("other-secret", 30, 60)
	issued, err := other.Issue("a@x.com", 1, model.TokenAccess, time.Minute)
	require.NoError(t, err)

	_, err = newTestCodec().Verify(issued.Token)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	c := newTestCodec()
	for _, s := range []string{"", "not-a-token", "a.b.c"} {
		_, err := c.Verify(s)
		assert.ErrorIs(t, err, ErrInvalid, "input %q", s)
	}
}

func TestTTLPerType(t *testing.T) {
	c := newTestCodec()
	assert.Equal(t, 30*time.Minute, c.TTL(model.TokenAccess))
	assert.Equal(t, 60*24*time.Hour, c.TTL(model.TokenRefresh))
}

func TestNewVerificationCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := NewVerificationCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}

func TestNewResetToken(t *testing.T) {
	first, err := NewResetToken()
	require.NoError(t, err)
	second, err := NewResetToken()
	require.NoError(t, err)
	assert.Len(t, first, 96) // 48 bytes hex-encoded
	assert.NotEqual(t, first, second)
}
