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

// UserRepository defines the interface for user profile data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, req *models.UserRequest) (*models.User, error)
}

type userRepository struct {
	db  *sql.DB
	log *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log,
	}
}

// Create inserts a new user profile
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueConstraintErr(err) {
			return ErrDuplicateEmail
		}
		r.log.Error("Failed to create user", zap.String("user_id", user.ID.String()), zap.Error(err))
		return err
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, name, email, created_at, updated_at
		FROM users
		WHERE id = ?
	`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		r.log.Error("Failed to get user by ID", zap.String("user_id", id.String()), zap.Error(err))
		return nil, err
	}

	return &user, nil
}

// Update modifies an existing user profile
func (r *userRepository) Update(ctx context.Context, id uuid.UUID, req *models.UserRequest) (*models.User, error) {
	query := `
		UPDATE users
		SET name = ?, email = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := r.db.ExecContext(ctx, query, req.Name, req.Email, time.Now().UTC(), id)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return nil, ErrDuplicateEmail
		}
		r.log.Error("Failed to update user", zap.String("user_id", id.String()), zap.Error(err))
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrUserNotFound
	}

	return r.GetByID(ctx, id)
}
