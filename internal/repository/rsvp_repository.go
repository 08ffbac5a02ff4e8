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

// RSVPRepository defines the interface for RSVP data access. The store
// guarantees at most one row per (user_id, event_id) via a UNIQUE
// constraint; Upsert is atomic against that constraint.
type RSVPRepository interface {
	Upsert(ctx context.Context, userID, eventID uuid.UUID, response models.Response, guestCount int) (*models.RSVP, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.RSVP, error)
	GetByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*models.RSVP, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.RSVP, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.RSVP, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
}

type rsvpRepository struct {
	db  *sql.DB
	log *zap.Logger
}

// NewRSVPRepository creates a new RSVP repository
func NewRSVPRepository(db *sql.DB, log *zap.Logger) RSVPRepository {
	return &rsvpRepository{
		db:  db,
		log: log,
	}
}

const rsvpSelect = `
	SELECT r.id, r.user_id, r.event_id, r.response, r.guest_count, r.created_at, r.updated_at,
	       u.name, u.email, e.title
	FROM rsvps r
	JOIN users u ON r.user_id = u.id
	JOIN events e ON r.event_id = e.id
`

// Upsert inserts a new RSVP for (userID, eventID) or, if one already exists,
// overwrites its response and guest count and refreshes updated_at. The id
// and created_at of an existing row are preserved. The whole operation is a
// single statement resolved at the UNIQUE(user_id, event_id) constraint.
func (r *rsvpRepository) Upsert(ctx context.Context, userID, eventID uuid.UUID, response models.Response, guestCount int) (*models.RSVP, error) {
	query := `
		INSERT INTO rsvps (id, user_id, event_id, response, guest_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, event_id) DO UPDATE SET
			response = excluded.response,
			guest_count = excluded.guest_count,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		uuid.New(),
		userID,
		eventID,
		response,
		guestCount,
		now,
		now,
	)

	if err != nil {
		switch {
		case isForeignKeyErr(err):
			// The referenced event (or user) vanished between the existence
			// check and the write. Never create an orphaned RSVP.
			return nil, ErrEventNotFound
		case isUniqueConstraintErr(err):
			return nil, ErrConflict
		}
		r.log.Error("Failed to upsert rsvp",
			zap.String("user_id", userID.String()),
			zap.String("event_id", eventID.String()),
			zap.Error(err))
		return nil, err
	}

	return r.GetByUserAndEvent(ctx, userID, eventID)
}

// GetByID retrieves an RSVP by its ID, with user and event fields resolved
func (r *rsvpRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RSVP, error) {
	row := r.db.QueryRowContext(ctx, rsvpSelect+` WHERE r.id = ?`, id)
	return r.scanRow(row, id.String())
}

// GetByUserAndEvent retrieves the single RSVP for a (user, event) pair
func (r *rsvpRepository) GetByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*models.RSVP, error) {
	row := r.db.QueryRowContext(ctx, rsvpSelect+` WHERE r.user_id = ? AND r.event_id = ?`, userID, eventID)
	return r.scanRow(row, userID.String()+"/"+eventID.String())
}

func (r *rsvpRepository) scanRow(row *sql.Row, key string) (*models.RSVP, error) {
	var rsvp models.RSVP
	err := row.Scan(
		&rsvp.ID,
		&rsvp.UserID,
		&rsvp.EventID,
		&rsvp.Response,
		&rsvp.GuestCount,
		&rsvp.CreatedAt,
		&rsvp.UpdatedAt,
		&rsvp.UserName,
		&rsvp.UserEmail,
		&rsvp.EventTitle,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRSVPNotFound
		}
		r.log.Error("Failed to get rsvp", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	return &rsvp, nil
}

// ListByUser lists a user's RSVPs, most recently created first
func (r *rsvpRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.RSVP, error) {
	query := rsvpSelect + `
		WHERE r.user_id = ?
		ORDER BY r.created_at DESC
	`
	return r.list(ctx, query, userID)
}

// ListByEvent lists an event's RSVPs grouped by response value, most
// recently created first within each group.
func (r *rsvpRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.RSVP, error) {
	query := rsvpSelect + `
		WHERE r.event_id = ?
		ORDER BY r.response ASC, r.created_at DESC
	`
	return r.list(ctx, query, eventID)
}

func (r *rsvpRepository) list(ctx context.Context, query string, arg uuid.UUID) ([]*models.RSVP, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		r.log.Error("Failed to list rsvps", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var rsvps []*models.RSVP
	for rows.Next() {
		var rsvp models.RSVP
		if err := rows.Scan(
			&rsvp.ID,
			&rsvp.UserID,
			&rsvp.EventID,
			&rsvp.Response,
			&rsvp.GuestCount,
			&rsvp.CreatedAt,
			&rsvp.UpdatedAt,
			&rsvp.UserName,
			&rsvp.UserEmail,
			&rsvp.EventTitle,
		); err != nil {
			r.log.Error("Failed to scan rsvp", zap.Error(err))
			return nil, err
		}
		rsvps = append(rsvps, &rsvp)
	}

	return rsvps, rows.Err()
}

// Delete removes an RSVP by its ID
func (r *rsvpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rsvps WHERE id = ?`, id)
	if err != nil {
		r.log.Error("Failed to delete rsvp", zap.String("rsvp_id", id.String()), zap.Error(err))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRSVPNotFound
	}

	return nil
}

// CountByEvent returns how many RSVPs reference an event.
func (r *rsvpRepository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rsvps WHERE event_id = ?`, eventID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count rsvps for event", zap.String("event_id", eventID.String()), zap.Error(err))
		return 0, err
	}

	return count, nil
}
