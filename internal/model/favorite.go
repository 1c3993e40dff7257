package model

import "time"

// Favorite is a row of the `favoris` join table linking a user to a trip
// they starred.  The (user_id, trajet_id) pair carries a UNIQUE index so
// the toggle endpoint can rely on an atomic insert instead of a
// check-then-act sequence.
type Favorite struct {
	ID        uint64    // favoris.id
	UserID    uint64    // favoris.user_id
	TripID    uint64    // favoris.trajet_id
	CreatedAt time.Time // favoris.created_at
}
