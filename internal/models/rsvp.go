package models

import (
	"time"

	"github.com/google/uuid"
)

// Response is the closed set of attendance answers an RSVP can carry.
type Response string

const (
	ResponseYes   Response = "Yes"
	ResponseNo    Response = "No"
	ResponseMaybe Response = "Maybe"
)

// Valid reports whether r is a member of the response enumeration.
func (r Response) Valid() bool {
	switch r {
	case ResponseYes, ResponseNo, ResponseMaybe:
		return true
	}
	return false
}

// RSVP is a user's recorded attendance intention for one event. At most one
// row exists per (user, event) pair; repeat submissions mutate the same row.
type RSVP struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	EventID    uuid.UUID `json:"event_id" db:"event_id"`
	Response   Response  `json:"response" db:"response"`
	GuestCount int       `json:"guest_count" db:"guest_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`

	// Resolved for display, not stored on the rsvps table.
	UserName   string `json:"user_name,omitempty" db:"-"`
	UserEmail  string `json:"user_email,omitempty" db:"-"`
	EventTitle string `json:"event_title,omitempty" db:"-"`
}

type RSVPRequest struct {
	EventID    string   `json:"event_id" binding:"required"`
	Response   Response `json:"response" binding:"required"`
	GuestCount int      `json:"guest_count"`
}
