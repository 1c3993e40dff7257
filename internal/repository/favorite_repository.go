package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/covoiturage-api/internal/model"
)

// FavoriteRepo manages the favoris join table.  The (user_id, trajet_id)
// pair carries a UNIQUE index, which turns the toggle into a single
// conditional write instead of a racy check-then-act sequence.
type FavoriteRepo struct{ DB *sql.DB }

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{DB: db} }

// Toggle flips the favorite state for (userID, tripID) and reports the
// resulting state: true when the trip is now starred, false when the star
// was removed.  A concurrent double-toggle resolves to one insert and one
// delete thanks to the unique index.
func (r *FavoriteRepo) Toggle(ctx context.Context, userID, tripID uint64) (bool, error) {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO favoris (user_id, trajet_id) VALUES (?,?)", userID, tripID)
	if err == nil {
		return true, nil
	}
	if !isDuplicate(err) {
		return false, err
	}
	_, err = r.DB.ExecContext(ctx,
		"DELETE FROM favoris WHERE user_id=? AND trajet_id=?", userID, tripID)
	return false, err
}

// ListByUser returns the trips the user starred, most recently starred
// first.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Trip, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT t.id, t.user_id, t.depart, t.destination, t.heure, t.places, t.created_at
		 FROM trajets t
		 INNER JOIN favoris f ON f.trajet_id = t.id
		 WHERE f.user_id = ?
		 ORDER BY f.created_at DESC`, userID)
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
