package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CategorySocial      = "Social"
	CategoryBusiness    = "Business"
	CategoryEducational = "Educational"
	CategorySports      = "Sports"
	CategoryOther       = "Other"
)

// ValidCategory reports whether c is one of the known event categories.
func ValidCategory(c string) bool {
	switch c {
	case CategorySocial, CategoryBusiness, CategoryEducational, CategorySports, CategoryOther:
		return true
	}
	return false
}

type Event struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	Date         time.Time `json:"date" db:"event_date"`
	Location     string    `json:"location" db:"location"`
	CreatorID    uuid.UUID `json:"creator_id" db:"creator_id"`
	MaxAttendees *int      `json:"max_attendees,omitempty" db:"max_attendees"`
	Category     string    `json:"category" db:"category"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// Resolved for display, not stored on the events table.
	CreatorName string `json:"creator_name,omitempty" db:"-"`
}

type EventRequest struct {
	Title        string    `json:"title" binding:"required,max=100"`
	Description  string    `json:"description" binding:"required,max=500"`
	Date         time.Time `json:"date" binding:"required"`
	Location     string    `json:"location" binding:"required"`
	MaxAttendees *int      `json:"max_attendees,omitempty"`
	Category     string    `json:"category"`
}

// EventPage is the pagination envelope returned by the event listing.
type EventPage struct {
	Events      []*Event `json:"events"`
	TotalPages  int      `json:"total_pages"`
	CurrentPage int      `json:"current_page"`
	Total       int      `json:"total"`
}
