package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventpulse/eventpulse/internal/auth"
	"github.com/eventpulse/eventpulse/internal/models"
	"github.com/eventpulse/eventpulse/internal/services"
)

type RSVPHandler struct {
	rsvps *services.RSVPService
	log   *zap.Logger
}

func NewRSVPHandler(rsvps *services.RSVPService, log *zap.Logger) *RSVPHandler {
	return &RSVPHandler{
		rsvps: rsvps,
		log:   log,
	}
}

// Submit creates or updates the caller's RSVP for an event.
func (h *RSVPHandler) Submit(c *gin.Context) {
	caller, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req models.RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	rsvp, err := h.rsvps.Submit(c.Request.Context(), caller, eventID, req.Response, req.GuestCount)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, rsvp)
}

// Mine returns the caller's RSVPs, most recent first.
func (h *RSVPHandler) Mine(c *gin.Context) {
	caller, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	rsvps, err := h.rsvps.ListForUser(c.Request.Context(), caller.ID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rsvps": rsvps})
}

// ForEvent returns an event's RSVPs in canonical order.
func (h *RSVPHandler) ForEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	rsvps, err := h.rsvps.ListForEvent(c.Request.Context(), eventID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rsvps": rsvps})
}

// Delete removes the caller's own RSVP.
func (h *RSVPHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rsvp id"})
		return
	}

	caller, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if err := h.rsvps.Delete(c.Request.Context(), id, caller.ID); err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "RSVP deleted successfully"})
}
