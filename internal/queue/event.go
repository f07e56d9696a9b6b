// Package queue defines message payloads exchanged over the message broker.
package queue

// Email kinds understood by the delivery worker.
const (
	EmailVerificationCode = "verification_code"
	EmailResetLink        = "reset_link"
)

// EmailEvent is published whenever the auth service needs an email
// delivered out-of-band: a verification code after registration or a
// password reset link.  It contains everything a downstream delivery
// worker needs without querying the primary database.
type EmailEvent struct {
	Kind        string `json:"kind"` // verification_code | reset_link
	To          string `json:"to"`
	Code        string `json:"code,omitempty"` // set for verification_code
	Link        string `json:"link,omitempty"` // set for reset_link
	RequestedAt string `json:"requested_at"`
}
