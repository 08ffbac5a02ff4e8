package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventpulse/eventpulse/internal/models"
	"github.com/eventpulse/eventpulse/internal/repository"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// EventService handles event CRUD. The RSVP core only needs it for the
// existence gate and the cascade delete; the rest is the record-management
// surface around it.
type EventService struct {
	events repository.EventRepository
	rsvps  repository.RSVPRepository
	log    *zap.Logger
}

// NewEventService creates a new event service
func NewEventService(events repository.EventRepository, rsvps repository.RSVPRepository, log *zap.Logger) *EventService {
	return &EventService{
		events: events,
		rsvps:  rsvps,
		log:    log,
	}
}

func validateEventRequest(req *models.EventRequest, now time.Time) error {
	if !req.Date.After(now) {
		return ErrDateInPast
	}
	if req.Category != "" && !models.ValidCategory(req.Category) {
		return ErrInvalidCategory
	}
	if req.MaxAttendees != nil && *req.MaxAttendees < 1 {
		return ErrInvalidMaxAttendees
	}
	return nil
}

// Create validates and stores a new event for the given creator.
func (s *EventService) Create(ctx context.Context, creatorID uuid.UUID, req *models.EventRequest) (*models.Event, error) {
	if err := validateEventRequest(req, time.Now()); err != nil {
		return nil, err
	}

	event := &models.Event{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Location:     req.Location,
		CreatorID:    creatorID,
		MaxAttendees: req.MaxAttendees,
		Category:     req.Category,
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	s.log.Info("Event created",
		zap.String("event_id", event.ID.String()),
		zap.String("creator_id", creatorID.String()))

	return s.events.GetByID(ctx, event.ID)
}

// Exists reports whether the event currently exists. Uncached by design.
func (s *EventService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.events.Exists(ctx, id)
}

// Get returns one event together with its RSVP list.
func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*models.Event, []*models.RSVP, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rsvps, err := s.rsvps.ListByEvent(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return event, rsvps, nil
}

// List returns a page of upcoming events, soonest first.
func (s *EventService) List(ctx context.Context, page, limit int) (*models.EventPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	now := time.Now()
	events, err := s.events.ListUpcoming(ctx, now, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	total, err := s.events.CountUpcoming(ctx, now)
	if err != nil {
		return nil, err
	}

	totalPages := (total + limit - 1) / limit

	return &models.EventPage{
		Events:      events,
		TotalPages:  totalPages,
		CurrentPage: page,
		Total:       total,
	}, nil
}

// Update revalidates and overwrites an event. Only its creator may update it.
func (s *EventService) Update(ctx context.Context, id, requestingUserID uuid.UUID, req *models.EventRequest) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.CreatorID != requestingUserID {
		return nil, ErrNotOwner
	}

	if err := validateEventRequest(req, time.Now()); err != nil {
		return nil, err
	}

	return s.events.Update(ctx, id, req)
}

// Delete removes an event and cascades away every RSVP referencing it. Only
// the creator may delete it.
func (s *EventService) Delete(ctx context.Context, id, requestingUserID uuid.UUID) error {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event.CreatorID != requestingUserID {
		return ErrNotOwner
	}

	removed, err := s.rsvps.CountByEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("counting rsvps for event: %w", err)
	}

	// The schema cascades rsvps away with the event row; a failed delete
	// leaves both intact.
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("Event deleted",
		zap.String("event_id", id.String()),
		zap.Int64("rsvps_removed", removed))

	return nil
}
