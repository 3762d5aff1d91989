package service

import (
	"context"
	"sync"
	"time"

	"github.com/clubsync/club-events/internal/lifecycle"
	"github.com/clubsync/club-events/internal/model"
	"github.com/clubsync/club-events/internal/repository"
)

// fakeStore is an in-memory EventStore (and lifecycle.Store) honoring the
// same atomicity contract as the SQL repository: seat operations are
// conditional on the counter value the caller observed, and every mutation
// happens under one lock so concurrent callers see a serialized ledger.
type fakeStore struct {
	mu     sync.Mutex
	nextID uint64
	events map[string]*model.Event         // keyed by uuid
	regs   map[uint64]map[uint64]time.Time // eventID -> userID -> registered at
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events: map[string]*model.Event{},
		regs:   map[uint64]map[uint64]time.Time{},
	}
}

func (f *fakeStore) byID(id uint64) *model.Event {
	for _, e := range f.events {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (f *fakeStore) snapshot(e *model.Event) *model.Event {
	cp := *e
	cp.RegisteredCount = len(f.regs[e.ID])
	return &cp
}

func (f *fakeStore) Create(ctx context.Context, e *model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e.ID = f.nextID
	cp := *e
	f.events[e.UUID] = &cp
	f.regs[e.ID] = map[uint64]time.Time{}
	return nil
}

func (f *fakeStore) GetByUUID(ctx context.Context, uuid string) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[uuid]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	return f.snapshot(e), nil
}

func (f *fakeStore) List(ctx context.Context) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Event
	for _, e := range f.events {
		out = append(out, *f.snapshot(e))
	}
	return out, nil
}

func (f *fakeStore) ListActive(ctx context.Context) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Event
	for _, e := range f.events {
		if e.Status != model.StatusCancelled {
			out = append(out, *f.snapshot(e))
		}
	}
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, e *model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur := f.byID(e.ID)
	if cur == nil {
		return repository.ErrEventNotFound
	}
	count := len(f.regs[e.ID])
	if e.SeatsAvailable < count {
		return repository.ErrCapacityShrink
	}
	remaining := e.SeatsAvailable - count
	cp := *e
	cp.Status = cur.Status // status changes only via UpdateStatus
	cp.SeatsRemaining = remaining
	f.events[e.UUID] = &cp
	e.SeatsRemaining = remaining
	e.RegisteredCount = count
	return nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, uuid string, from, to model.EventStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[uuid]
	if !ok || e.Status != from || e.Status == model.StatusCancelled {
		return lifecycle.ErrStatusConflict
	}
	e.Status = to
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, uuid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[uuid]
	if !ok {
		return repository.ErrEventNotFound
	}
	delete(f.regs, e.ID)
	delete(f.events, uuid)
	return nil
}

func (f *fakeStore) Reserve(ctx context.Context, eventID, userID uint64, expectedRemaining int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := f.byID(eventID)
	if e == nil {
		return repository.ErrEventNotFound
	}
	if e.SeatsRemaining != expectedRemaining || e.SeatsRemaining <= 0 ||
		e.Status != model.StatusRegistrationOpen {
		return repository.ErrVersionConflict
	}
	if _, dup := f.regs[eventID][userID]; dup {
		return repository.ErrDuplicateRegistration
	}
	e.SeatsRemaining--
	f.regs[eventID][userID] = time.Now()
	return nil
}

func (f *fakeStore) Release(ctx context.Context, eventID, userID uint64, expectedRemaining int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := f.byID(eventID)
	if e == nil {
		return repository.ErrEventNotFound
	}
	if _, ok := f.regs[eventID][userID]; !ok {
		return repository.ErrNotRegistered
	}
	if e.SeatsRemaining != expectedRemaining || e.SeatsRemaining >= e.SeatsAvailable {
		return repository.ErrVersionConflict
	}
	delete(f.regs[eventID], userID)
	e.SeatsRemaining++
	return nil
}

func (f *fakeStore) IsRegistered(ctx context.Context, eventID, userID uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.regs[eventID][userID]
	return ok, nil
}

func (f *fakeStore) Registrants(ctx context.Context, eventID uint64) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for uid := range f.regs[eventID] {
		out = append(out, model.User{ID: uid})
	}
	return out, nil
}

// fakeClubs and fakeUsers are trivial directories.
type fakeClubs struct{ clubs map[string]*model.Club }

func (f *fakeClubs) GetByUUID(ctx context.Context, uuid string) (*model.Club, error) {
	c, ok := f.clubs[uuid]
	if !ok {
		return nil, repository.ErrClubNotFound
	}
	return c, nil
}

type fakeUsers struct {
	users  map[uint64]*model.User
	joined map[uint64][]string
}

func (f *fakeUsers) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) JoinedEventUUIDs(ctx context.Context, userID uint64) ([]string, error) {
	return f.joined[userID], nil
}
