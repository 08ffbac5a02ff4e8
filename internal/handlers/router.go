package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eventpulse/eventpulse/internal/auth"
	"github.com/eventpulse/eventpulse/internal/broadcast"
	"github.com/eventpulse/eventpulse/internal/repository"
	"github.com/eventpulse/eventpulse/internal/services"
)

// NewRouter wires the API routes onto a gin engine.
func NewRouter(
	identity *auth.Identity,
	users *services.UserService,
	events *services.EventService,
	rsvps *services.RSVPService,
	hub *broadcast.Hub,
	db interface{ Ping() error },
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	userHandler := NewUserHandler(users, logger)
	eventHandler := NewEventHandler(events, logger)
	rsvpHandler := NewRSVPHandler(rsvps, logger)
	streamHandler := NewStreamHandler(hub, events, logger)

	requireAuth := identity.Middleware()

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			dbState := "connected"
			if err := db.Ping(); err != nil {
				dbState = "unavailable"
			}
			c.JSON(http.StatusOK, gin.H{
				"status":    "OK",
				"database":  dbState,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		usersGroup := api.Group("/users")
		{
			usersGroup.POST("", userHandler.Register)
			usersGroup.GET("/:id", requireAuth, userHandler.Get)
			usersGroup.PUT("/:id", requireAuth, userHandler.Update)
		}

		eventsGroup := api.Group("/events")
		{
			eventsGroup.GET("", eventHandler.List)
			eventsGroup.POST("", requireAuth, eventHandler.Create)
			eventsGroup.GET("/:id", eventHandler.Get)
			eventsGroup.PUT("/:id", requireAuth, eventHandler.Update)
			eventsGroup.DELETE("/:id", requireAuth, eventHandler.Delete)
			eventsGroup.GET("/:id/live", requireAuth, streamHandler.Live)
		}

		rsvpsGroup := api.Group("/rsvps")
		{
			rsvpsGroup.POST("", requireAuth, rsvpHandler.Submit)
			rsvpsGroup.GET("/mine", requireAuth, rsvpHandler.Mine)
			rsvpsGroup.GET("/event/:eventId", rsvpHandler.ForEvent)
			rsvpsGroup.DELETE("/:id", requireAuth, rsvpHandler.Delete)
		}
	}

	return r
}

// writeError maps service and repository errors onto HTTP statuses. Anything
// unrecognized is a 500 with the detail kept in the log, not the body.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrRSVPNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidResponse),
		errors.Is(err, services.ErrInvalidGuestCount),
		errors.Is(err, services.ErrDateInPast),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidMaxAttendees),
		errors.Is(err, repository.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
