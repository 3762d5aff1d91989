// Package service implements the event lifecycle facade: the operations the
// HTTP layer calls, composed from the seat ledger, the lifecycle scheduler
// and the storage collaborators.  Every failure leaving this package is one
// of the typed errors below (or a repository not-found sentinel); nothing
// propagates as an opaque driver or transport error.
package service

import (
	"errors"
	"strings"
)

// ErrRegistrationNotOpen is returned when a seat operation is attempted
// while the event is not in registration_open.
var ErrRegistrationNotOpen = errors.New("registration is not open for this event")

// ErrNoSeats is returned when no seats remain.  Never retried internally:
// a full event is an answer, not a transient condition.
var ErrNoSeats = errors.New("no seats remaining")

// ErrAlreadyRegistered is returned on a duplicate registration attempt.
// Registering twice is a no-op error, not a second seat.
var ErrAlreadyRegistered = errors.New("user is already registered for this event")

// ErrNotRegistered is returned when unregistering a user who holds no seat.
var ErrNotRegistered = errors.New("user is not registered for this event")

// ErrAlreadyFinalized is returned when cancelling an event that is already
// completed or cancelled.
var ErrAlreadyFinalized = errors.New("event is already completed or cancelled")

// ErrConcurrencyConflict is returned after the bounded internal retry on
// conditional seat updates is exhausted.  Callers may retry the whole
// operation; it is the only error kind that is ever retried at all.
var ErrConcurrencyConflict = errors.New("conflicting concurrent updates, please retry")

// ValidationError collects the field problems found in an event payload.
// It mirrors the upstream input-validation contract: a payload that fails
// here never reaches the store.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid event: " + strings.Join(e.Problems, "; ")
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
