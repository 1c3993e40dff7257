package model

import "time"

// PasswordReset models an entry in the `password_resets` table.  At most
// one active token exists per email: requesting a new reset deletes any
// prior row first.  A token is consumed (deleted) when the reset
// completes, and ignored once ExpiresAt has passed.
//
// Fields:
//  ID        – primary key identifier.
//  Email     – account the reset was requested for.
//  Token     – cryptographically random 32-byte hex token.
//  ExpiresAt – expiration timestamp (one hour after issuance).
type PasswordReset struct {
	ID        uint64    // password_resets.id
	Email     string    // password_resets.email
	Token     string    // password_resets.token
	ExpiresAt time.Time // password_resets.expires_at
}
