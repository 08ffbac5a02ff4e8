package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventpulse/eventpulse/internal/models"
)

// EventRepository defines the interface for event data access
// with CRUD methods and the uncached existence check.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	// Exists is a direct read against the events table. It is deliberately
	// uncached: events can be deleted concurrently with RSVP submission and
	// the gate must observe the current state.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, req *models.EventRequest) (*models.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListUpcoming(ctx context.Context, from time.Time, offset, limit int) ([]*models.Event, error)
	CountUpcoming(ctx context.Context, from time.Time) (int, error)
}

type eventRepository struct {
	db  *sql.DB
	log *zap.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB, log *zap.Logger) EventRepository {
	return &eventRepository{
		db:  db,
		log: log,
	}
}

// Create inserts a new event into the database
func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (id, title, description, event_date, location, creator_id, max_attendees, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Category == "" {
		event.Category = models.CategorySocial
	}

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Date,
		event.Location,
		event.CreatorID,
		event.MaxAttendees,
		event.Category,
		event.CreatedAt,
		event.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create event", zap.String("event_id", event.ID.String()), zap.Error(err))
		return err
	}

	return nil
}

// GetByID retrieves an event by its ID, with the creator's name resolved
func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	query := `
		SELECT e.id, e.title, e.description, e.event_date, e.location, e.creator_id,
		       e.max_attendees, e.category, e.created_at, e.updated_at, u.name
		FROM events e
		JOIN users u ON e.creator_id = u.id
		WHERE e.id = ?
	`

	var event models.Event
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.Location,
		&event.CreatorID,
		&event.MaxAttendees,
		&event.Category,
		&event.CreatedAt,
		&event.UpdatedAt,
		&event.CreatorName,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		r.log.Error("Failed to get event by ID", zap.String("event_id", id.String()), zap.Error(err))
		return nil, err
	}

	return &event, nil
}

// Exists reports whether an event with the given ID currently exists
func (r *eventRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM events WHERE id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		r.log.Error("Failed to check event existence", zap.String("event_id", id.String()), zap.Error(err))
		return false, err
	}

	return exists, nil
}

// Update modifies an existing event
func (r *eventRepository) Update(ctx context.Context, id uuid.UUID, req *models.EventRequest) (*models.Event, error) {
	query := `
		UPDATE events
		SET title = ?, description = ?, event_date = ?, location = ?, max_attendees = ?, category = ?, updated_at = ?
		WHERE id = ?
	`

	category := req.Category
	if category == "" {
		category = models.CategorySocial
	}

	res, err := r.db.ExecContext(ctx, query,
		req.Title,
		req.Description,
		req.Date,
		req.Location,
		req.MaxAttendees,
		category,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		r.log.Error("Failed to update event", zap.String("event_id", id.String()), zap.Error(err))
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrEventNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes an event from the database
func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM events WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete event", zap.String("event_id", id.String()), zap.Error(err))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Error("Failed to get rows affected for event delete", zap.Error(err))
		return err
	}

	if rowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

// ListUpcoming lists events dated at or after from, soonest first, with pagination
func (r *eventRepository) ListUpcoming(ctx context.Context, from time.Time, offset, limit int) ([]*models.Event, error) {
	query := `
		SELECT e.id, e.title, e.description, e.event_date, e.location, e.creator_id,
		       e.max_attendees, e.category, e.created_at, e.updated_at, u.name
		FROM events e
		JOIN users u ON e.creator_id = u.id
		WHERE e.event_date >= ?
		ORDER BY e.event_date ASC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, from, limit, offset)
	if err != nil {
		r.log.Error("Failed to list upcoming events", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Date,
			&event.Location,
			&event.CreatorID,
			&event.MaxAttendees,
			&event.Category,
			&event.CreatedAt,
			&event.UpdatedAt,
			&event.CreatorName,
		); err != nil {
			r.log.Error("Failed to scan event", zap.Error(err))
			return nil, err
		}
		events = append(events, &event)
	}

	return events, rows.Err()
}

// CountUpcoming counts events dated at or after from
func (r *eventRepository) CountUpcoming(ctx context.Context, from time.Time) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE event_date >= ?`, from,
	).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count upcoming events", zap.Error(err))
		return 0, err
	}
	return total, nil
}
