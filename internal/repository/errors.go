// Package repository implements the storage collaborators over MySQL.  The
// sentinel errors defined here let higher layers distinguish failure
// scenarios with errors.Is instead of inspecting driver errors.  The
// service layer maps them into its public taxonomy; handlers never see
// driver-level errors.
package repository

import "errors"

// ErrEventNotFound is returned when no event row matches the given UUID.
var ErrEventNotFound = errors.New("event not found")

// ErrClubNotFound is returned when no club row matches the given UUID.
var ErrClubNotFound = errors.New("club not found")

// ErrUserNotFound is returned when no user row matches the given id.
var ErrUserNotFound = errors.New("user not found")

// ErrVersionConflict is returned when a conditional update on the seat
// counter matched no row, meaning another writer changed the counter (or
// the status) between the caller's read and its write.  Callers re-read
// and retry a bounded number of times.
var ErrVersionConflict = errors.New("seat counter changed concurrently")

// ErrDuplicateRegistration is returned when inserting a registration row
// trips the (event_id, user_id) unique key.
var ErrDuplicateRegistration = errors.New("user already registered")

// ErrNotRegistered is returned when releasing a seat for a user who holds
// no registration row on the event.
var ErrNotRegistered = errors.New("user not registered")

// ErrCapacityShrink is returned when an edit would reduce capacity below
// the number of registered users.
var ErrCapacityShrink = errors.New("capacity below registered count")
