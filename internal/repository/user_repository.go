package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/clubsync/club-events/internal/model"
)

// UserRepo resolves registrants.  Account management lives elsewhere; this
// service only needs to confirm a registrant exists and to list the events
// a user has joined.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// GetByID loads a user by storage key (the subject carried in the access token).
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, uuid, display_name, email, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.UUID, &u.DisplayName, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// JoinedEventUUIDs lists the external identifiers of the events the user
// is registered on, soonest start first.
func (r *UserRepo) JoinedEventUUIDs(ctx context.Context, userID uint64) ([]string, error) {
	const q = `SELECT e.uuid FROM event_registrations er
		JOIN events e ON e.id = er.event_id
		WHERE er.user_id = ?
		ORDER BY e.event_start ASC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var uuid string
		if err := rows.Scan(&uuid); err != nil {
			return nil, err
		}
		out = append(out, uuid)
	}
	return out, rows.Err()
}
