package services

import "errors"

var (
	// ErrInvalidResponse is returned when a response is not Yes, No or Maybe
	ErrInvalidResponse = errors.New("response must be Yes, No or Maybe")
	// ErrInvalidGuestCount is returned when a guest count is negative
	ErrInvalidGuestCount = errors.New("guest count cannot be negative")
	// ErrDateInPast is returned when an event date is not in the future
	ErrDateInPast = errors.New("event date must be in the future")
	// ErrInvalidCategory is returned when an event category is unknown
	ErrInvalidCategory = errors.New("unknown event category")
	// ErrInvalidMaxAttendees is returned when an attendee cap is below one
	ErrInvalidMaxAttendees = errors.New("maximum attendees must be at least 1")
	// ErrNotOwner is returned when a caller targets a record it does not own
	ErrNotOwner = errors.New("not authorized to modify this record")
)
