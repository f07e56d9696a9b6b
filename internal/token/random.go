package token

import (
	"crypto/rand"  // secure random number generation
	"encoding/hex" // hex encoding of random bytes
	"math/big"     // bounded random integers for verification codes
)

// NewResetToken returns a cryptographically secure random secret for the
// password reset flow.  48 random bytes encode to 96 hex characters, far
// beyond brute-force reach within the one-hour reset window.
func NewResetToken() (string, error) {
	return randomHex(48)
}

// NewVerificationCode returns a random 6-digit numeric code used for email
// verification.  The range is [100000, 999999] so the code always has six
// digits when rendered.
func NewVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return big.NewInt(0).Add(n, big.NewInt(100000)).String(), nil
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
