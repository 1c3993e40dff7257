package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Only the password hash is persisted; the plain password never
// leaves the registration/login handlers.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Nom          – family name.
//  Prenom       – given name.
//  Email        – unique email address.
//  Telephone    – optional phone number (nullable column).
//  Residence    – optional home locality (nullable column).
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Nom          string    // users.nom
	Prenom       string    // users.prenom
	Email        string    // users.email
	Telephone    *string   // users.telephone (nullable)
	Residence    *string   // users.residence (nullable)
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// PublicUser is the sanitized projection of a User returned by the API.
// The password hash is deliberately absent.
type PublicUser struct {
	ID        uint64  `json:"id"`
	Email     string  `json:"email"`
	Nom       string  `json:"nom"`
	Prenom    string  `json:"prenom"`
	Telephone *string `json:"telephone"`
	Residence *string `json:"residence"`
}

// Public converts a stored user into its API-safe projection.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Nom:       u.Nom,
		Prenom:    u.Prenom,
		Telephone: u.Telephone,
		Residence: u.Residence,
	}
}
