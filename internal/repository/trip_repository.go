package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/covoiturage-api/internal/model"
)

// TripRepo manages persistence for carpool trips.  Every mutation carries
// the owning user id in its WHERE clause so a caller can never touch a
// trip that is not theirs; zero affected rows surfaces as ErrTripNotFound
// without distinguishing "absent" from "not yours".
type TripRepo struct{ DB *sql.DB }

func NewTripRepo(db *sql.DB) *TripRepo { return &TripRepo{DB: db} }

// Create inserts a new trip and assigns the generated ID (and DB-default
// created_at) back to the struct.
func (r *TripRepo) Create(ctx context.Context, t *model.Trip) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO trajets (user_id, depart, destination, heure, places) VALUES (?,?,?,?,?)",
		t.UserID, t.Depart, t.Destination, t.Heure, t.Places)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at FROM trajets WHERE id=?", t.ID).Scan(&t.CreatedAt)
}

// ListByOwner returns all trips owned by userID, most recent departure
// first.  Ordering is on the combined date+time string, which sorts
// chronologically while the format stays uniform.
func (r *TripRepo) ListByOwner(ctx context.Context, userID uint64) ([]model.Trip, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,depart,destination,heure,places,created_at FROM trajets WHERE user_id=? ORDER BY heure DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]model.Trip, 0)
	for rows.Next() {
		var t model.Trip
		if err := rows.Scan(&t.ID, &t.UserID, &t.Depart, &t.Destination, &t.Heure, &t.Places, &t.CreatedAt); err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// Update rewrites a trip's fields when it exists and belongs to userID.
func (r *TripRepo) Update(ctx context.Context, id, userID uint64, depart, destination, heure string, places int) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE trajets SET depart=?, destination=?, heure=?, places=? WHERE id=? AND user_id=?",
		depart, destination, heure, places, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTripNotFound
	}
	return nil
}

// Delete removes a trip when it exists and belongs to userID.
func (r *TripRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM trajets WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTripNotFound
	}
	return nil
}
