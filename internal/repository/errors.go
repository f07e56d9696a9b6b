// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// auth service to distinguish between different failure scenarios. For
// example, ErrTokenExists indicates that an issued token string collided
// with one already recorded as active, a fatal integrity anomaly given
// the codec's entropy, while ErrAlreadyRevoked signals that a token was
// blacklisted by a concurrent operation and the caller lost the race.
package repository

import "errors"

// ErrTokenExists is returned when recording an active token whose string
// is already present in the active set. Token strings carry enough
// randomness that this should never occur; callers treat it as a
// critical anomaly rather than a user-facing condition.
var ErrTokenExists = errors.New("token already recorded as active")

// ErrAlreadyRevoked is returned when revoking a token that is already in
// the blacklist. Exactly one of two concurrent revocations of the same
// token succeeds; the loser observes this error. Callers translate it
// into their own typed outcome (replay detection on refresh, "no active
// session" on logout).
var ErrAlreadyRevoked = errors.New("token already blacklisted")
