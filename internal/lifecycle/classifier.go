// Package lifecycle contains the time-driven part of the event engine: a
// pure classifier that maps an event's timestamps to the status that should
// hold at a given instant, and a scheduler that keeps stored statuses in
// step with wall-clock time.
package lifecycle

import (
	"time"

	"github.com/clubsync/club-events/internal/model"
)

// Classify returns the status the event should carry at instant now.  It is
// pure and total: it performs no I/O and resolves exactly one status for any
// well-formed timestamp tuple.
//
// Terminal statuses are absorbing.  A cancelled event stays cancelled no
// matter how its timestamps compare to now, and completed never reverts
// because the event window only moves forward.
//
// The remaining predicates are evaluated in the order the scheduler has
// always used, which fixes the boundary behavior: instants on a shared
// boundary belong to the later window.  now equal to EventStart is ongoing
// (even when RegistrationEnd coincides with it), now equal to EventEnd is
// still ongoing, and now equal to RegistrationEnd is still registration_open.
func Classify(e *model.Event, now time.Time) model.EventStatus {
	if e.Status.Terminal() {
		return e.Status
	}
	switch {
	case now.After(e.EventEnd):
		return model.StatusCompleted
	case !now.Before(e.EventStart):
		return model.StatusOngoing
	case !now.Before(e.RegistrationStart) && !now.After(e.RegistrationEnd):
		return model.StatusRegistrationOpen
	case now.Before(e.RegistrationStart):
		return model.StatusUpcoming
	default:
		return model.StatusRegistrationClosed
	}
}
