package model

import "time"

// EventStatus enumerates the lifecycle states of an event.  Four of the
// six states are derived from the event's timestamps; "cancelled" is only
// ever set by an administrative action and "completed" is reached when the
// event window has passed.  Both of those are absorbing: once stored they
// are never overwritten by time-driven reclassification.
type EventStatus string

const (
	StatusUpcoming           EventStatus = "upcoming"
	StatusRegistrationOpen   EventStatus = "registration_open"
	StatusRegistrationClosed EventStatus = "registration_closed"
	StatusOngoing            EventStatus = "ongoing"
	StatusCompleted          EventStatus = "completed"
	StatusCancelled          EventStatus = "cancelled"
)

// Terminal reports whether the status is absorbing.  Terminal events are
// skipped by the lifecycle sweep and refuse further registration activity.
func (s EventStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid reports whether s is one of the six known statuses.
func (s EventStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusRegistrationOpen, StatusRegistrationClosed,
		StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Categories an event may carry.  Mirrors the events.category enum column.
var EventCategories = []string{
	"bootcamp", "workshop", "meeting", "hackathon", "seminar", "conference", "networking",
}

// Event represents a club-hosted event with a registration window, an
// event window and a fixed seat capacity.  The registration window must
// fully precede the event window:
//
//	RegistrationStart < RegistrationEnd <= EventStart < EventEnd
//
// That ordering is checked at creation/update time, so the classifier and
// the seat ledger may assume it holds.
//
// Fields:
//
//	ID                – events.id, the storage key.  Never leaves the
//	                    repository layer; all public lookups go through UUID.
//	UUID              – stable external identifier exposed over HTTP.
//	ClubID            – clubs.id of the owning club.  Events belong to
//	                    exactly one club for their whole life.
//	SeatsAvailable    – capacity ceiling, fixed except through an explicit
//	                    capacity edit.
//	SeatsRemaining    – derived counter; always equals
//	                    SeatsAvailable minus the number of registrants.
//	RegisteredCount   – number of rows in event_registrations, populated
//	                    on reads that join the registration table.
type Event struct {
	ID                uint64      `json:"-"`
	UUID              string      `json:"uuid"`
	ClubID            uint64      `json:"-"`
	ClubUUID          string      `json:"club_uuid,omitempty"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	Poster            string      `json:"poster"`
	Location          string      `json:"location"`
	Category          string      `json:"category"`
	RegistrationStart time.Time   `json:"registration_start"`
	RegistrationEnd   time.Time   `json:"registration_end"`
	EventStart        time.Time   `json:"event_start"`
	EventEnd          time.Time   `json:"event_end"`
	SeatsAvailable    int         `json:"seats_available"`
	SeatsRemaining    int         `json:"seats_remaining"`
	RegisteredCount   int         `json:"registered_count"`
	Status            EventStatus `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// Full reports whether no seats remain.
func (e *Event) Full() bool { return e.SeatsRemaining <= 0 }

// RegistrationOpen reports whether the stored status currently admits
// registrations.  Callers that need the time-derived answer must classify
// first; this only inspects the persisted state.
func (e *Event) RegistrationOpen() bool { return e.Status == StatusRegistrationOpen }
