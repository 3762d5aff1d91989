package service

import (
	"context"
	"errors"

	"github.com/clubsync/club-events/internal/model"
	"github.com/clubsync/club-events/internal/repository"
)

// SeatLedger enforces the capacity invariant: at all times
// 0 <= seats_remaining <= seats_available and seats_remaining equals
// capacity minus the number of registrants.
//
// Preconditions are checked against a fresh read, then the decrement (or
// increment) is attempted as a conditional update keyed on the value that
// was read.  When the store reports a version conflict the whole
// read-check-write loop restarts, bounded by retryMax; only then does the
// caller see ErrConcurrencyConflict.  Precondition failures are surfaced
// immediately and never retried, so a full event answers ErrNoSeats on the
// first pass rather than burning retries on an outcome that will not change.
type SeatLedger struct {
	store    EventStore
	retryMax int

	// allowLateRelease permits unregistration while the event is in
	// registration_closed.  The historical policy is to refuse, freezing
	// the headcount once capacity planning has closed; the flag exists
	// because that is a product decision, not a structural one.
	allowLateRelease bool
}

// NewSeatLedger constructs a SeatLedger.  retryMax values below 1 are
// raised to 1 so at least one conditional attempt is always made.
func NewSeatLedger(store EventStore, retryMax int, allowLateRelease bool) *SeatLedger {
	if retryMax < 1 {
		retryMax = 1
	}
	return &SeatLedger{store: store, retryMax: retryMax, allowLateRelease: allowLateRelease}
}

// Reserve claims one seat on the event for the user.  On success it returns
// the event as it stood after the decrement.
func (l *SeatLedger) Reserve(ctx context.Context, eventUUID string, userID uint64) (*model.Event, error) {
	for attempt := 0; attempt < l.retryMax; attempt++ {
		e, err := l.store.GetByUUID(ctx, eventUUID)
		if err != nil {
			return nil, err
		}
		if !e.RegistrationOpen() {
			return nil, ErrRegistrationNotOpen
		}
		if e.Full() {
			return nil, ErrNoSeats
		}
		registered, err := l.store.IsRegistered(ctx, e.ID, userID)
		if err != nil {
			return nil, err
		}
		if registered {
			return nil, ErrAlreadyRegistered
		}

		err = l.store.Reserve(ctx, e.ID, userID, e.SeatsRemaining)
		switch {
		case err == nil:
			e.SeatsRemaining--
			e.RegisteredCount++
			return e, nil
		case errors.Is(err, repository.ErrVersionConflict):
			continue
		case errors.Is(err, repository.ErrDuplicateRegistration):
			return nil, ErrAlreadyRegistered
		default:
			return nil, err
		}
	}
	return nil, ErrConcurrencyConflict
}

// Release returns the user's seat on the event.  On success it returns the
// event as it stood after the increment.
func (l *SeatLedger) Release(ctx context.Context, eventUUID string, userID uint64) (*model.Event, error) {
	for attempt := 0; attempt < l.retryMax; attempt++ {
		e, err := l.store.GetByUUID(ctx, eventUUID)
		if err != nil {
			return nil, err
		}
		if !l.releasable(e.Status) {
			return nil, ErrRegistrationNotOpen
		}
		registered, err := l.store.IsRegistered(ctx, e.ID, userID)
		if err != nil {
			return nil, err
		}
		if !registered {
			return nil, ErrNotRegistered
		}

		err = l.store.Release(ctx, e.ID, userID, e.SeatsRemaining)
		switch {
		case err == nil:
			e.SeatsRemaining++
			e.RegisteredCount--
			return e, nil
		case errors.Is(err, repository.ErrVersionConflict):
			continue
		case errors.Is(err, repository.ErrNotRegistered):
			return nil, ErrNotRegistered
		default:
			return nil, err
		}
	}
	return nil, ErrConcurrencyConflict
}

func (l *SeatLedger) releasable(s model.EventStatus) bool {
	if s == model.StatusRegistrationOpen {
		return true
	}
	return l.allowLateRelease && s == model.StatusRegistrationClosed
}
