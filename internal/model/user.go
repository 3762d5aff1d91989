package model

import "time"

// User is a registrant.  Accounts, credentials and profiles are owned by
// a separate subsystem; this service reads users to validate registrations
// and to list an event's registrants.  A user's joined events are the
// event_registrations rows carrying their id, so membership is always
// consistent with the seat counter they were debited against.
type User struct {
	ID          uint64    `json:"-"`
	UUID        string    `json:"uuid"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}
