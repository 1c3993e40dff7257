// Package session maps opaque bearer tokens to user identities.  The store
// is the only authority consulted by the authentication gate: a token is
// valid exactly as long as it exists here, and logout removes it.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a token is unknown or has expired.  The
// gate treats both the same way, so the two cases are never told apart.
var ErrNotFound = errors.New("session not found")

// Store is the session table abstraction.  Implementations must expire
// entries on their own after ttl; nothing sweeps them from the outside.
type Store interface {
	// Put registers token → userID for ttl.
	Put(ctx context.Context, token string, userID uint64, ttl time.Duration) error
	// Get resolves token to a user id, or ErrNotFound.
	Get(ctx context.Context, token string) (uint64, error)
	// Delete forgets the token.  Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
