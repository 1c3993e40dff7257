package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"  // secure random number generation
	"encoding/hex" // hex encoding functions
	"time"         // time utilities for generating expirations
)

// SessionToken is an opaque bearer credential handed to a client at login.
// The raw string is the only thing the client ever sees; the server keeps
// the token → user id mapping in the session store with a TTL.
type SessionToken struct {
	Raw string    // raw token string returned to the client
	Exp time.Time // UTC expiration time
}

// ResetToken is a single-use password reset credential.  It is stored
// as-is in the password_resets table and consumed on first successful use.
type ResetToken struct {
	Raw string    // raw token embedded in the reset link
	Exp time.Time // UTC expiration time
}

// NewSessionToken returns a cryptographically secure opaque token and its
// expiration.  The ttlHours parameter controls how long the session lives
// in the store before Redis evicts it.
func NewSessionToken(ttlHours int) (SessionToken, error) {
	raw, err := randomHex(32) // 32 bytes -> 64 hex chars
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlHours) * time.Hour),
	}, nil
}

// NewResetToken returns a password reset token valid for one hour.
func NewResetToken() (ResetToken, error) {
	raw, err := randomHex(32)
	if err != nil {
		return ResetToken{}, err
	}
	return ResetToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Hour),
	}, nil
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.  If the random number generator
// fails, an error is returned.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
