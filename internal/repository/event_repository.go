package repository

import (
	"context"
	"database/sql"
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"

	"github.com/clubsync/club-events/internal/lifecycle"
	"github.com/clubsync/club-events/internal/model"
)

// EventRepo provides data access to the events and event_registrations
// tables.  Seat accounting methods run inside a transaction and use a
// conditional update on seats_remaining so that the read-check-write
// sequence performed by the seat ledger is atomic per event: two callers
// racing on the same event cannot both decrement from the same observed
// counter value.  Operations on different events never contend.
//
// All timestamps are stored as UTC DATETIMEs; the DSN configures the
// driver accordingly.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle for callers that need to begin their
// own transactions.
func (r *EventRepo) DB() *sql.DB { return r.db }

const eventColumns = `e.id, e.uuid, e.club_id, c.uuid, e.name, e.description, e.poster, e.location,
	e.category, e.registration_start, e.registration_end, e.event_start, e.event_end,
	e.seats_available, e.seats_remaining,
	(SELECT COUNT(*) FROM event_registrations er WHERE er.event_id = e.id),
	e.status, e.created_at, e.updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	var status string
	err := row.Scan(
		&e.ID, &e.UUID, &e.ClubID, &e.ClubUUID, &e.Name, &e.Description, &e.Poster, &e.Location,
		&e.Category, &e.RegistrationStart, &e.RegistrationEnd, &e.EventStart, &e.EventEnd,
		&e.SeatsAvailable, &e.SeatsRemaining, &e.RegisteredCount,
		&status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Status = model.EventStatus(status)
	return &e, nil
}

// Create inserts a new event row.  The caller supplies the UUID, the
// initial status and SeatsRemaining (equal to SeatsAvailable on creation).
// The generated storage key is written back onto the record.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO events
		(uuid, club_id, name, description, poster, location, category,
		 registration_start, registration_end, event_start, event_end,
		 seats_available, seats_remaining, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		e.UUID, e.ClubID, e.Name, e.Description, e.Poster, e.Location, e.Category,
		e.RegistrationStart, e.RegistrationEnd, e.EventStart, e.EventEnd,
		e.SeatsAvailable, e.SeatsRemaining, string(e.Status),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// GetByUUID loads a single event by its external identifier.
func (r *EventRepo) GetByUUID(ctx context.Context, uuid string) (*model.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events e JOIN clubs c ON c.id = e.club_id WHERE e.uuid = ?`
	e, err := scanEvent(r.db.QueryRowContext(ctx, q, uuid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return e, err
}

// List returns all events ordered by their start time, soonest first.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events e JOIN clubs c ON c.id = e.club_id ORDER BY e.event_start ASC`
	return r.queryEvents(ctx, q)
}

// ListActive returns every event the lifecycle sweep must look at, i.e.
// everything not cancelled.  Completed events are included; the classifier
// treats them as absorbing, so re-reading them is a cheap no-op.
func (r *EventRepo) ListActive(ctx context.Context) ([]model.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events e JOIN clubs c ON c.id = e.club_id WHERE e.status <> 'cancelled'`
	return r.queryEvents(ctx, q)
}

func (r *EventRepo) queryEvents(ctx context.Context, q string, args ...any) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Update persists an edit to the event's descriptive fields, time windows
// and capacity.  seats_remaining is recomputed from the registration count
// inside the same transaction, and the update is refused with
// ErrCapacityShrink when the new capacity falls below that count, so a
// registration racing with the edit can never drive the counter negative.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_registrations WHERE event_id = ? FOR UPDATE`, e.ID,
	).Scan(&count); err != nil {
		return err
	}
	if e.SeatsAvailable < count {
		return ErrCapacityShrink
	}

	const q = `UPDATE events SET
		name = ?, description = ?, poster = ?, location = ?, category = ?,
		registration_start = ?, registration_end = ?, event_start = ?, event_end = ?,
		seats_available = ?, seats_remaining = ?, updated_at = UTC_TIMESTAMP()
		WHERE id = ?`
	remaining := e.SeatsAvailable - count
	res, err := tx.ExecContext(ctx, q,
		e.Name, e.Description, e.Poster, e.Location, e.Category,
		e.RegistrationStart, e.RegistrationEnd, e.EventStart, e.EventEnd,
		e.SeatsAvailable, remaining, e.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	e.SeatsRemaining = remaining
	e.RegisteredCount = count
	return nil
}

// UpdateStatus transitions the event from one status to another.  The
// update is conditional on the status the caller read, so a writer that
// lost the race (e.g. a sweep overlapping a cancel) gets
// lifecycle.ErrStatusConflict instead of silently clobbering the newer
// state.  Cancelled rows are additionally guarded in the WHERE clause: no
// transition out of cancelled is ever applied here.
func (r *EventRepo) UpdateStatus(ctx context.Context, uuid string, from, to model.EventStatus) error {
	const q = `UPDATE events SET status = ?, updated_at = UTC_TIMESTAMP()
		WHERE uuid = ? AND status = ? AND status <> 'cancelled'`
	res, err := r.db.ExecContext(ctx, q, string(to), uuid, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return lifecycle.ErrStatusConflict
	}
	return nil
}

// Delete removes the event and cascades over its registrations, so every
// registrant's joined-events view drops the event in the same transaction.
// The club side needs no separate write: ownership is the row itself.
func (r *EventRepo) Delete(ctx context.Context, uuid string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var id uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM events WHERE uuid = ? FOR UPDATE`, uuid).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEventNotFound
	}
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM event_registrations WHERE event_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Reserve atomically claims one seat for the user.  The decrement is
// conditional on the counter value the caller observed and on the status
// still being registration_open, and the registration insert rides in the
// same transaction.  When the condition no longer holds it returns
// ErrVersionConflict and the caller re-reads and retries; a racing
// duplicate insert surfaces as ErrDuplicateRegistration via the unique key.
func (r *EventRepo) Reserve(ctx context.Context, eventID, userID uint64, expectedRemaining int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const dec = `UPDATE events SET seats_remaining = seats_remaining - 1, updated_at = UTC_TIMESTAMP()
		WHERE id = ? AND seats_remaining = ? AND seats_remaining > 0 AND status = 'registration_open'`
	res, err := tx.ExecContext(ctx, dec, eventID, expectedRemaining)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO event_registrations (event_id, user_id) VALUES (?, ?)`, eventID, userID,
	); err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateRegistration
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Release atomically returns the user's seat.  The registration row is
// deleted first (no row means the user was never registered, or a
// concurrent release won) and the counter increment is conditional on the
// observed value, mirroring Reserve.
func (r *EventRepo) Release(ctx context.Context, eventID, userID uint64, expectedRemaining int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM event_registrations WHERE event_id = ? AND user_id = ?`, eventID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotRegistered
	}
	const inc = `UPDATE events SET seats_remaining = seats_remaining + 1, updated_at = UTC_TIMESTAMP()
		WHERE id = ? AND seats_remaining = ? AND seats_remaining < seats_available`
	res, err = tx.ExecContext(ctx, inc, eventID, expectedRemaining)
	if err != nil {
		return err
	}
	n, err = res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// IsRegistered reports whether the user holds a registration row on the event.
func (r *EventRepo) IsRegistered(ctx context.Context, eventID, userID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM event_registrations WHERE event_id = ? AND user_id = ?`, eventID, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Registrants returns the users registered on the event, oldest first.
func (r *EventRepo) Registrants(ctx context.Context, eventID uint64) ([]model.User, error) {
	const q = `SELECT u.id, u.uuid, u.display_name, u.email, u.created_at
		FROM event_registrations er
		JOIN users u ON u.id = er.user_id
		WHERE er.event_id = ?
		ORDER BY er.registered_at ASC`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.UUID, &u.DisplayName, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// isDuplicateKey reports whether err is a MySQL 1062 duplicate-entry error.
func isDuplicateKey(err error) bool {
	var me *mysqldriver.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
