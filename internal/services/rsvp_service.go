package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventpulse/eventpulse/internal/broadcast"
	"github.com/eventpulse/eventpulse/internal/models"
	"github.com/eventpulse/eventpulse/internal/repository"
)

// RSVPService reconciles RSVP submissions: it validates input, gates on
// event existence, applies the atomic upsert and fans the result out to
// viewers of the event. The hub is handed in explicitly; the service never
// reaches into ambient state.
type RSVPService struct {
	rsvps  repository.RSVPRepository
	events repository.EventRepository
	hub    *broadcast.Hub
	log    *zap.Logger
}

// NewRSVPService creates a new RSVP service
func NewRSVPService(rsvps repository.RSVPRepository, events repository.EventRepository, hub *broadcast.Hub, log *zap.Logger) *RSVPService {
	return &RSVPService{
		rsvps:  rsvps,
		events: events,
		hub:    hub,
		log:    log,
	}
}

// Submit records user's response to an event, creating an RSVP on the first
// submission for the (user, event) pair and overwriting the same record on
// every subsequent one. On success the reconciled record is published to the
// event's topic; the publish outcome never affects the result, which is
// decided solely by the store commit.
func (s *RSVPService) Submit(ctx context.Context, user *models.User, eventID uuid.UUID, response models.Response, guestCount int) (*models.RSVP, error) {
	if !response.Valid() {
		s.log.Debug("Rejected rsvp with invalid response",
			zap.String("user_id", user.ID.String()),
			zap.String("response", string(response)))
		return nil, ErrInvalidResponse
	}
	if guestCount < 0 {
		s.log.Debug("Rejected rsvp with negative guest count",
			zap.String("user_id", user.ID.String()),
			zap.Int("guest_count", guestCount))
		return nil, ErrInvalidGuestCount
	}

	exists, err := s.events.Exists(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("checking event existence: %w", err)
	}
	if !exists {
		return nil, repository.ErrEventNotFound
	}

	rsvp, err := s.rsvps.Upsert(ctx, user.ID, eventID, response, guestCount)
	if errors.Is(err, repository.ErrConflict) {
		// Lost a same-pair race: the row exists now, so one retry is
		// guaranteed to resolve as an update.
		s.log.Warn("Rsvp upsert hit uniqueness conflict, retrying as update",
			zap.String("user_id", user.ID.String()),
			zap.String("event_id", eventID.String()))
		rsvp, err = s.rsvps.Upsert(ctx, user.ID, eventID, response, guestCount)
	}
	if err != nil {
		return nil, err
	}

	s.publish(eventID, rsvp, user)

	return rsvp, nil
}

// publish fans the reconciled record out to current viewers of the event.
// Fire-and-forget: the write has already succeeded, so failures are logged
// and discarded.
func (s *RSVPService) publish(eventID uuid.UUID, rsvp *models.RSVP, user *models.User) {
	delivered, err := s.hub.Publish(eventID.String(), broadcast.Message{
		EventID:  eventID.String(),
		RSVP:     rsvp,
		UserID:   user.ID.String(),
		UserName: user.Name,
	})
	if err != nil {
		s.log.Warn("Failed to publish rsvp update",
			zap.String("event_id", eventID.String()),
			zap.Error(err))
		return
	}

	s.log.Debug("Published rsvp update",
		zap.String("event_id", eventID.String()),
		zap.String("rsvp_id", rsvp.ID.String()),
		zap.Int("delivered", delivered))
}

// ListForUser returns the user's RSVPs, most recent first.
func (s *RSVPService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.RSVP, error) {
	return s.rsvps.ListByUser(ctx, userID)
}

// ListForEvent returns an event's RSVPs grouped by response value, most
// recent first within each group.
func (s *RSVPService) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]*models.RSVP, error) {
	return s.rsvps.ListByEvent(ctx, eventID)
}

// Delete removes an RSVP. Only its owner may delete it; absence and
// ownership mismatch are reported distinctly.
func (s *RSVPService) Delete(ctx context.Context, id, requestingUserID uuid.UUID) error {
	rsvp, err := s.rsvps.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rsvp.UserID != requestingUserID {
		return ErrNotOwner
	}

	return s.rsvps.Delete(ctx, id)
}
