package lifecycle

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/clubsync/club-events/internal/model"
)

// Store is the slice of the event store the scheduler needs.  UpdateStatus
// is conditional on the status the sweep read: when another writer (an
// administrative cancel, or a competing sweep) got there first the update
// affects no rows and the store returns its conflict sentinel, which the
// sweep treats as "already handled" and moves on.
type Store interface {
	ListActive(ctx context.Context) ([]model.Event, error)
	GetByUUID(ctx context.Context, uuid string) (*model.Event, error)
	UpdateStatus(ctx context.Context, uuid string, from, to model.EventStatus) error
}

// Notifier receives status transitions the scheduler persisted.  A nil
// notifier disables publication.
type Notifier interface {
	StatusChanged(ctx context.Context, e *model.Event, from, to model.EventStatus)
}

// ErrStatusConflict must be returned by Store.UpdateStatus when the
// conditional update matched no row.  Defined here so in-memory stores used
// in tests and the SQL repository agree on the sentinel.
var ErrStatusConflict = errors.New("event status changed concurrently")

// Scheduler drives re-evaluation of all non-cancelled events.  It owns a
// single background goroutine started by Start and halted by Stop.  The
// clock is injectable so tests can move time without sleeping.
//
// Sweeps are idempotent and per-event independent, so a partially failed
// sweep is safe to retry from scratch on the next tick.  A tick that fires
// while the previous sweep is still running is skipped rather than run
// concurrently; that is a deliberate policy to bound the number of live
// sweeps at one, trading at most one interval of extra staleness.
type Scheduler struct {
	store    Store
	notifier Notifier
	interval time.Duration
	now      func() time.Time

	sweeping int32
	stop     chan struct{}
	done     chan struct{}
	started  bool
}

// New constructs a Scheduler.  interval must be positive; notifier and
// clock may be nil (the clock defaults to time.Now in UTC).
func New(store Store, notifier Notifier, interval time.Duration, clock func() time.Time) *Scheduler {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Scheduler{
		store:    store,
		notifier: notifier,
		interval: interval,
		now:      clock,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start performs the startup reconciliation synchronously, so that by the
// time it returns every stored status reflects the current instant (an
// event that ended while the process was down is already completed), then
// launches the periodic sweep goroutine.  Start may be called once.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.started {
		return errors.New("scheduler already started")
	}
	s.started = true

	n, err := s.Sweep(ctx)
	if err != nil {
		return err
	}
	log.Printf("scheduler: startup reconciliation done, %d event(s) updated", n)

	go s.run(ctx)
	return nil
}

// Stop halts the periodic sweep and waits for any in-flight sweep to
// finish.  Safe to call once after Start.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !atomic.CompareAndSwapInt32(&s.sweeping, 0, 1) {
				log.Printf("scheduler: previous sweep still running, skipping tick")
				continue
			}
			if n, err := s.Sweep(ctx); err != nil {
				log.Printf("scheduler: sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("scheduler: sweep updated %d event(s)", n)
			}
			atomic.StoreInt32(&s.sweeping, 0)
		}
	}
}

// Sweep classifies every non-cancelled event at a single instant and
// persists the statuses that differ.  It returns the number of events
// updated.  Losing a conditional update to a concurrent writer is not an
// error; the next sweep re-evaluates from the stored state.
func (s *Scheduler) Sweep(ctx context.Context) (int, error) {
	events, err := s.store.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	now := s.now()
	updated := 0
	for i := range events {
		e := &events[i]
		next := Classify(e, now)
		if next == e.Status {
			continue
		}
		if err := s.store.UpdateStatus(ctx, e.UUID, e.Status, next); err != nil {
			if errors.Is(err, ErrStatusConflict) {
				continue
			}
			return updated, err
		}
		updated++
		if s.notifier != nil {
			s.notifier.StatusChanged(ctx, e, e.Status, next)
		}
		e.Status = next
	}
	return updated, nil
}

// ReconcileOne is the on-demand path run after creating or editing a single
// event, whose new timestamps can place it in any status immediately.  It
// classifies just that event and persists on change, returning the record
// with the status that now holds.  Registration traffic never calls this:
// seat changes cannot move an event between temporal states.
func (s *Scheduler) ReconcileOne(ctx context.Context, uuid string) (*model.Event, error) {
	e, err := s.store.GetByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	next := Classify(e, s.now())
	if next == e.Status {
		return e, nil
	}
	if err := s.store.UpdateStatus(ctx, e.UUID, e.Status, next); err != nil {
		if errors.Is(err, ErrStatusConflict) {
			// Someone else moved the status first; report what is stored now.
			return s.store.GetByUUID(ctx, uuid)
		}
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.StatusChanged(ctx, e, e.Status, next)
	}
	e.Status = next
	return e, nil
}
