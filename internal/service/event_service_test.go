package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubsync/club-events/internal/lifecycle"
	"github.com/clubsync/club-events/internal/model"
)

// testEngine bundles a fully wired facade over in-memory collaborators with
// a settable clock.
type testEngine struct {
	svc   *EventService
	store *fakeStore
	sched *lifecycle.Scheduler
	now   time.Time
}

func newTestEngine(t *testing.T, now time.Time) *testEngine {
	t.Helper()
	eng := &testEngine{store: newFakeStore(), now: now}
	clock := func() time.Time { return eng.now }
	eng.sched = lifecycle.New(eng.store, nil, time.Hour, clock)

	clubs := &fakeClubs{clubs: map[string]*model.Club{
		"club-1": {ID: 1, UUID: "club-1", Name: "Robotics Club"},
	}}
	users := &fakeUsers{users: map[uint64]*model.User{
		10: {ID: 10, DisplayName: "Ada"},
		11: {ID: 11, DisplayName: "Brendan"},
		12: {ID: 12, DisplayName: "Chris"},
	}}
	ledger := NewSeatLedger(eng.store, 3, false)
	eng.svc = NewEventService(eng.store, clubs, users, ledger, eng.sched, nil, 3)
	return eng
}

var baseT = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func sampleInput(seats int) EventInput {
	return EventInput{
		Name:              "Spring Hackathon",
		Description:       "48 hours of building things.",
		Poster:            "https://example.com/poster.png",
		Location:          "Main Campus, Hall B",
		Category:          "hackathon",
		RegistrationStart: baseT,
		RegistrationEnd:   baseT.Add(24 * time.Hour),
		EventStart:        baseT.Add(48 * time.Hour),
		EventEnd:          baseT.Add(72 * time.Hour),
		SeatsAvailable:    seats,
	}
}

func TestCreateReconcilesInitialStatus(t *testing.T) {
	ctx := context.Background()

	// Created before the registration window: upcoming.
	eng := newTestEngine(t, baseT.Add(-time.Hour))
	e, err := eng.svc.Create(ctx, "club-1", sampleInput(2))
	require.NoError(t, err)
	assert.Equal(t, model.StatusUpcoming, e.Status)
	assert.Equal(t, 2, e.SeatsRemaining)
	assert.NotEmpty(t, e.UUID)

	// Created while the window is already open: the caller sees
	// registration_open immediately, not a stale upcoming.
	eng = newTestEngine(t, baseT.Add(12*time.Hour))
	e, err = eng.svc.Create(ctx, "club-1", sampleInput(2))
	require.NoError(t, err)
	assert.Equal(t, model.StatusRegistrationOpen, e.Status)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, baseT)

	in := sampleInput(2)
	in.RegistrationEnd = in.EventStart.Add(time.Hour) // overlaps the event window
	_, err := eng.svc.Create(ctx, "club-1", in)
	assert.True(t, IsValidation(err), "got %v", err)

	in = sampleInput(0)
	_, err = eng.svc.Create(ctx, "club-1", in)
	assert.True(t, IsValidation(err))

	_, err = eng.svc.Create(ctx, "missing-club", sampleInput(2))
	assert.Error(t, err)
}

// The worked end-to-end scenario: window T..T+1d / T+2d..T+3d, two seats.
func TestRegistrationScenario(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, baseT.Add(12*time.Hour))

	e, err := eng.svc.Create(ctx, "club-1", sampleInput(2))
	require.NoError(t, err)
	require.Equal(t, model.StatusRegistrationOpen, e.Status)

	e, err = eng.svc.Register(ctx, e.UUID, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, e.SeatsRemaining)

	e, err = eng.svc.Register(ctx, e.UUID, 11)
	require.NoError(t, err)
	assert.Equal(t, 0, e.SeatsRemaining)

	_, err = eng.svc.Register(ctx, e.UUID, 12)
	assert.ErrorIs(t, err, ErrNoSeats)

	e, err = eng.svc.Unregister(ctx, e.UUID, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, e.SeatsRemaining)
	registered, err := eng.store.IsRegistered(ctx, e.ID, 10)
	require.NoError(t, err)
	assert.False(t, registered)
}

func TestRegisterWhileOngoingIsAStateConflict(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, baseT.Add(12*time.Hour))
	e, err := eng.svc.Create(ctx, "club-1", sampleInput(2))
	require.NoError(t, err)

	// Move the clock into the event window and let a sweep catch up.
	eng.now = baseT.Add(49 * time.Hour)
	_, err = eng.sched.Sweep(ctx)
	require.NoError(t, err)

	got, err := eng.store.GetByUUID(ctx, e.UUID)
	require.NoError(t, err)
	require.Equal(t, model.StatusOngoing, got.Status)

	_, err = eng.svc.Register(ctx, e.UUID, 10)
	assert.ErrorIs(t, err, ErrRegistrationNotOpen)
}

func TestUpdateCannotShrinkBelowRegistrants(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, baseT.Add(12*time.Hour))
	e, err := eng.svc.Create(ctx, "club-1", sampleInput(3))
	require.NoError(t, err)

	_, err = eng.svc.Register(ctx, e.UUID, 10)
	require.NoError(t, err)
	_, err = eng.svc.Register(ctx, e.UUID, 11)
	require.NoError(t, err)

	in := sampleInput(1) // below the two registrants
	_, err = eng.svc.Update(ctx, e.UUID, in)
	assert.True(t, IsValidation(err), "got %v", err)

	// Nothing was mutated by the rejected edit.
	got, err := eng.store.GetByUUID(ctx, e.UUID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.SeatsAvailable)
	assert.Equal(t, 1, got.SeatsRemaining)
	assert.Equal(t, 2, got.RegisteredCount)

	// Growing capacity recomputes the counter from the registrant count.
	in = sampleInput(10)
	got, err = eng.svc.Update(ctx, e.UUID, in)
	require.NoError(t, err)
	assert.Equal(t, 10, got.SeatsAvailable)
	assert.Equal(t, 8, got.SeatsRemaining)
}

func TestCancelIsAbsorbing(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, baseT.Add(12*time.Hour))
	e, err := eng.svc.Create(ctx, "club-1", sampleInput(2))
	require.NoError(t, err)

	e, err = eng.svc.Cancel(ctx, e.UUID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, e.Status)

	// A sweep far past the event window must leave cancelled untouched.
	eng.now = baseT.Add(100 * time.Hour)
	n, err := eng.sched.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	got, err := eng.store.GetByUUID(ctx, e.UUID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)

	// Cancelling again is a state conflict.
	_, err = eng.svc.Cancel(ctx, e.UUID)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
}

func TestCancelCompletedIsAConflict(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, baseT.Add(12*time.Hour))
	e, err := eng.svc.Create(ctx, "club-1", sampleInput(2))
	require.NoError(t, err)

	eng.now = baseT.Add(100 * time.Hour)
	_, err = eng.sched.Sweep(ctx)
	require.NoError(t, err)

	_, err = eng.svc.Cancel(ctx, e.UUID)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, baseT.Add(12*time.Hour))
	e, err := eng.svc.Create(ctx, "club-1", sampleInput(2))
	require.NoError(t, err)
	_, err = eng.svc.Register(ctx, e.UUID, 10)
	require.NoError(t, err)

	require.NoError(t, eng.svc.Delete(ctx, e.UUID))

	_, _, err = eng.svc.Get(ctx, e.UUID)
	assert.Error(t, err)
	_, ok := eng.store.regs[e.ID]
	assert.False(t, ok, "registrations must be removed with the event")
}

func TestUnregisterTwiceIsNotRegistered(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, baseT.Add(12*time.Hour))
	e, err := eng.svc.Create(ctx, "club-1", sampleInput(2))
	require.NoError(t, err)
	_, err = eng.svc.Register(ctx, e.UUID, 10)
	require.NoError(t, err)
	_, err = eng.svc.Unregister(ctx, e.UUID, 10)
	require.NoError(t, err)
	_, err = eng.svc.Unregister(ctx, e.UUID, 10)
	assert.ErrorIs(t, err, ErrNotRegistered)
}
