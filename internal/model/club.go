package model

import "time"

// Club is the owning aggregate for events.  This service only reads clubs
// to resolve ownership when creating an event; club administration lives
// in a separate subsystem.  A club's created events are the events rows
// whose club_id points at it, so no separate link table is maintained.
type Club struct {
	ID        uint64    `json:"-"`
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
