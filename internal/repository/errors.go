package repository

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	// User errors
	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when a user's email is already registered
	ErrDuplicateEmail = errors.New("email is already registered")

	// Event errors
	// ErrEventNotFound is returned when an event is not found
	ErrEventNotFound = errors.New("event not found")

	// RSVP errors
	// ErrRSVPNotFound is returned when an RSVP is not found
	ErrRSVPNotFound = errors.New("rsvp not found")
	// ErrConflict is returned when a write loses a race at the (user, event)
	// uniqueness constraint; the row exists by the time the caller sees this,
	// so a single retry resolves it as an update.
	ErrConflict = errors.New("rsvp already exists for this user and event")
)

func isUniqueConstraintErr(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func isForeignKeyErr(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
