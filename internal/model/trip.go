package model

import "time"

// Trip represents a published carpool trip as stored in the `trajets`
// table.  Heure keeps the combined "YYYY-MM-DD HH:MM" departure string the
// mobile apps submit; ordering on it is lexicographic, which matches
// chronological order as long as the format is uniform.
//
// Fields:
//  ID          – primary key identifier of the trip.
//  UserID      – owner of the trip; mutations are scoped to this user.
//  Depart      – departure point, defaults to "Position actuelle".
//  Destination – arrival point.
//  Heure       – combined departure date and time string.
//  Places      – number of available seats.
//  CreatedAt   – timestamp of creation.
type Trip struct {
	ID          uint64    `json:"id"`          // trajets.id
	UserID      uint64    `json:"user_id"`     // trajets.user_id
	Depart      string    `json:"depart"`      // trajets.depart
	Destination string    `json:"destination"` // trajets.destination
	Heure       string    `json:"heure"`       // trajets.heure
	Places      int       `json:"places"`      // trajets.places
	CreatedAt   time.Time `json:"created_at"`  // trajets.created_at
}
