// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values let handlers map failure scenarios
// onto HTTP statuses without inspecting driver-specific error strings.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when an insert hits the unique index on
// users.email.  Handlers translate it into an HTTP 400 with the
// "déjà utilisé" message the mobile apps expect.
var ErrEmailExists = errors.New("email already exists")

// ErrTripNotFound is returned when a trip mutation matches zero rows,
// covering both "does not exist" and "owned by someone else".  Handlers
// translate it into an HTTP 404.
var ErrTripNotFound = errors.New("trip not found")

// ErrTokenInvalid is returned for password reset tokens that are unknown
// or past their expiry.  Handlers translate it into an HTTP 400.
var ErrTokenInvalid = errors.New("token invalid or expired")

// isDuplicate reports whether err is a unique-constraint violation.  MySQL
// surfaces error 1062; the sqlite driver used in tests reports a UNIQUE
// constraint failure.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique")
}
