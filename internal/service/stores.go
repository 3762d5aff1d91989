package service

import (
	"context"

	"github.com/clubsync/club-events/internal/model"
)

// EventStore is the storage collaborator for events.  The SQL
// implementation lives in internal/repository; tests substitute an
// in-memory store honoring the same contract.
//
// Reserve and Release are the atomic conditional-update primitive the seat
// ledger builds on: both succeed only if the stored counter still equals
// expectedRemaining, returning repository.ErrVersionConflict otherwise, and
// Reserve additionally refuses unless the stored status is still
// registration_open.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	GetByUUID(ctx context.Context, uuid string) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	Update(ctx context.Context, e *model.Event) error
	UpdateStatus(ctx context.Context, uuid string, from, to model.EventStatus) error
	Delete(ctx context.Context, uuid string) error

	Reserve(ctx context.Context, eventID, userID uint64, expectedRemaining int) error
	Release(ctx context.Context, eventID, userID uint64, expectedRemaining int) error
	IsRegistered(ctx context.Context, eventID, userID uint64) (bool, error)
	Registrants(ctx context.Context, eventID uint64) ([]model.User, error)
}

// ClubDirectory resolves owning clubs.
type ClubDirectory interface {
	GetByUUID(ctx context.Context, uuid string) (*model.Club, error)
}

// UserDirectory resolves registrants and their memberships.
type UserDirectory interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	JoinedEventUUIDs(ctx context.Context, userID uint64) ([]string, error)
}

// Reconciler is the on-demand slice of the lifecycle scheduler: classify a
// single event against the clock and persist the status if it changed.
type Reconciler interface {
	ReconcileOne(ctx context.Context, uuid string) (*model.Event, error)
}

// Publisher emits lifecycle messages to the broker.  Publication failures
// are logged by the implementation, never surfaced to the caller: a
// confirmed seat is confirmed whether or not the broker heard about it.
type Publisher interface {
	RegistrationConfirmed(ctx context.Context, e *model.Event, userID uint64)
	RegistrationReleased(ctx context.Context, e *model.Event, userID uint64)
	EventCancelled(ctx context.Context, e *model.Event)
}
