// Package queue defines the lifecycle messages exchanged over the message
// broker and the background consumer that records them.
package queue

// LifecycleMessage is published to the event.lifecycle queue whenever the
// engine changes observable state: a sweep or reconciliation moved an
// event's status, an administrator cancelled it, or a seat changed hands.
// It carries enough context for downstream consumers to log or notify
// without querying the primary database.
type LifecycleMessage struct {
	Kind           string `json:"kind"` // status_changed | registration_confirmed | registration_released | event_cancelled
	EventUUID      string `json:"event_uuid"`
	EventName      string `json:"event_name"`
	ClubUUID       string `json:"club_uuid,omitempty"`
	UserID         uint64 `json:"user_id,omitempty"`
	FromStatus     string `json:"from_status,omitempty"`
	ToStatus       string `json:"to_status,omitempty"`
	SeatsRemaining int    `json:"seats_remaining"`
	OccurredAt     string `json:"occurred_at"`
}

// Message kinds.
const (
	KindStatusChanged         = "status_changed"
	KindRegistrationConfirmed = "registration_confirmed"
	KindRegistrationReleased  = "registration_released"
	KindEventCancelled        = "event_cancelled"
)
