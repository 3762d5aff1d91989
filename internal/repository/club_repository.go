package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/clubsync/club-events/internal/model"
)

// ClubRepo resolves clubs by their external identifier.  The event engine
// only ever reads clubs; creating and administering them belongs to the
// club subsystem.
type ClubRepo struct {
	db *sql.DB
}

// NewClubRepo returns a new ClubRepo bound to the given database.
func NewClubRepo(db *sql.DB) *ClubRepo { return &ClubRepo{db: db} }

// GetByUUID loads a club by its external identifier.
func (r *ClubRepo) GetByUUID(ctx context.Context, uuid string) (*model.Club, error) {
	var c model.Club
	err := r.db.QueryRowContext(ctx,
		`SELECT id, uuid, name, created_at FROM clubs WHERE uuid = ?`, uuid,
	).Scan(&c.ID, &c.UUID, &c.Name, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClubNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
