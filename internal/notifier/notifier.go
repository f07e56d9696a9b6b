// Package notifier delivers verification codes and password reset links.
// Delivery is fire-and-forget by contract: implementations log failures and
// never propagate them, so a broken mail path cannot fail registration or
// password reset.
package notifier

import (
	"context"
	"log"
)

// LogNotifier is the fallback used when no message broker is configured.
// It writes each would-be email to the process log and nothing else, which
// is enough for development and tests.
type LogNotifier struct{}

func (LogNotifier) SendVerificationCode(_ context.Context, email, code string) {
	log.Printf("notifier: verification code for %s: %s", email, code)
}

func (LogNotifier) SendResetLink(_ context.Context, email, link string) {
	log.Printf("notifier: password reset link for %s: %s", email, link)
}
