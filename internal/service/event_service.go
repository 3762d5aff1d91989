package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/clubsync/club-events/internal/lifecycle"
	"github.com/clubsync/club-events/internal/model"
	"github.com/clubsync/club-events/internal/repository"
)

// EventService is the public facade over the lifecycle engine.  Handlers
// call these operations and map the typed errors to HTTP responses; the
// service itself never renders anything.
type EventService struct {
	store      EventStore
	clubs      ClubDirectory
	users      UserDirectory
	ledger     *SeatLedger
	reconciler Reconciler
	publisher  Publisher // may be nil
	retryMax   int
}

// NewEventService wires the facade.  publisher may be nil to disable
// broker notifications (tests, or running without RabbitMQ).
func NewEventService(store EventStore, clubs ClubDirectory, users UserDirectory,
	ledger *SeatLedger, reconciler Reconciler, publisher Publisher, retryMax int) *EventService {
	if retryMax < 1 {
		retryMax = 1
	}
	return &EventService{
		store:      store,
		clubs:      clubs,
		users:      users,
		ledger:     ledger,
		reconciler: reconciler,
		publisher:  publisher,
		retryMax:   retryMax,
	}
}

// Create validates the payload, persists the event under the given club
// with a full seat ledger, and immediately reconciles its status so that a
// registration window already open (or already past) at creation time is
// reflected before the caller sees the record.
func (s *EventService) Create(ctx context.Context, clubUUID string, in EventInput) (*model.Event, error) {
	in.normalize()
	if ve := in.validate(); ve != nil {
		return nil, ve
	}
	club, err := s.clubs.GetByUUID(ctx, clubUUID)
	if err != nil {
		return nil, err
	}

	e := &model.Event{
		UUID:              uuid.NewString(),
		ClubID:            club.ID,
		ClubUUID:          club.UUID,
		Name:              in.Name,
		Description:       in.Description,
		Poster:            in.Poster,
		Location:          in.Location,
		Category:          in.Category,
		RegistrationStart: in.RegistrationStart,
		RegistrationEnd:   in.RegistrationEnd,
		EventStart:        in.EventStart,
		EventEnd:          in.EventEnd,
		SeatsAvailable:    in.SeatsAvailable,
		SeatsRemaining:    in.SeatsAvailable,
		Status:            model.StatusUpcoming,
	}
	if err := s.store.Create(ctx, e); err != nil {
		return nil, err
	}
	return s.reconciler.ReconcileOne(ctx, e.UUID)
}

// Update edits an event's descriptive fields, time windows and capacity.
// Shrinking capacity below the current registrant count is refused with a
// ValidationError and nothing is persisted.  The remaining seat counter is
// recomputed from the new capacity, and the status is reconciled against
// the possibly-moved windows before returning.
func (s *EventService) Update(ctx context.Context, eventUUID string, in EventInput) (*model.Event, error) {
	in.normalize()
	if ve := in.validate(); ve != nil {
		return nil, ve
	}
	e, err := s.store.GetByUUID(ctx, eventUUID)
	if err != nil {
		return nil, err
	}
	if in.SeatsAvailable < e.RegisteredCount {
		return nil, &ValidationError{Problems: []string{
			"cannot reduce seats below the number of registered users",
		}}
	}

	e.Name = in.Name
	e.Description = in.Description
	e.Poster = in.Poster
	e.Location = in.Location
	e.Category = in.Category
	e.RegistrationStart = in.RegistrationStart
	e.RegistrationEnd = in.RegistrationEnd
	e.EventStart = in.EventStart
	e.EventEnd = in.EventEnd
	e.SeatsAvailable = in.SeatsAvailable

	if err := s.store.Update(ctx, e); err != nil {
		if errors.Is(err, repository.ErrCapacityShrink) {
			return nil, &ValidationError{Problems: []string{
				"cannot reduce seats below the number of registered users",
			}}
		}
		return nil, err
	}
	return s.reconciler.ReconcileOne(ctx, e.UUID)
}

// Register claims a seat for the user.  The membership link and the seat
// counter are written in one atomic step by the ledger, so the caller never
// observes a half-registered state.
func (s *EventService) Register(ctx context.Context, eventUUID string, userID uint64) (*model.Event, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	e, err := s.ledger.Reserve(ctx, eventUUID, userID)
	if err != nil {
		return nil, err
	}
	if s.publisher != nil {
		s.publisher.RegistrationConfirmed(ctx, e, userID)
	}
	return e, nil
}

// Unregister returns the user's seat, subject to the ledger's release policy.
func (s *EventService) Unregister(ctx context.Context, eventUUID string, userID uint64) (*model.Event, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	e, err := s.ledger.Release(ctx, eventUUID, userID)
	if err != nil {
		return nil, err
	}
	if s.publisher != nil {
		s.publisher.RegistrationReleased(ctx, e, userID)
	}
	return e, nil
}

// Cancel marks the event cancelled.  This is the administrative override:
// it bypasses the classifier and the status sticks, because cancelled is
// absorbing and the sweep skips cancelled events entirely.  Cancelling an
// event that is already completed or cancelled is a state conflict.
func (s *EventService) Cancel(ctx context.Context, eventUUID string) (*model.Event, error) {
	for attempt := 0; attempt < s.retryMax; attempt++ {
		e, err := s.store.GetByUUID(ctx, eventUUID)
		if err != nil {
			return nil, err
		}
		if e.Status.Terminal() {
			return nil, ErrAlreadyFinalized
		}
		err = s.store.UpdateStatus(ctx, e.UUID, e.Status, model.StatusCancelled)
		if errors.Is(err, lifecycle.ErrStatusConflict) {
			// A sweep moved the status under us; re-read and try again.
			continue
		}
		if err != nil {
			return nil, err
		}
		e.Status = model.StatusCancelled
		if s.publisher != nil {
			s.publisher.EventCancelled(ctx, e)
		}
		return e, nil
	}
	return nil, ErrConcurrencyConflict
}

// Delete removes the event and cascades over every registrant's membership
// and the owning club's event list (both derived from the rows removed).
func (s *EventService) Delete(ctx context.Context, eventUUID string) error {
	return s.store.Delete(ctx, eventUUID)
}

// Get returns the event and its registrants.
func (s *EventService) Get(ctx context.Context, eventUUID string) (*model.Event, []model.User, error) {
	e, err := s.store.GetByUUID(ctx, eventUUID)
	if err != nil {
		return nil, nil, err
	}
	regs, err := s.store.Registrants(ctx, e.ID)
	if err != nil {
		return nil, nil, err
	}
	return e, regs, nil
}

// List returns all events sorted by start time.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.store.List(ctx)
}

// JoinedEvents returns the external identifiers of the events the user is
// registered on, soonest start first.
func (s *EventService) JoinedEvents(ctx context.Context, userID uint64) ([]string, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.users.JoinedEventUUIDs(ctx, userID)
}
