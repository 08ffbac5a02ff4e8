package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventpulse/eventpulse/internal/models"
	"github.com/eventpulse/eventpulse/internal/repository"
)

// UserService handles user profile records. Credentials and session
// issuance live outside this service.
type UserService struct {
	users repository.UserRepository
	log   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{
		users: users,
		log:   log,
	}
}

// Register creates a new user profile.
func (s *UserService) Register(ctx context.Context, req *models.UserRequest) (*models.User, error) {
	user := &models.User{
		ID:    uuid.New(),
		Name:  req.Name,
		Email: req.Email,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User registered", zap.String("user_id", user.ID.String()))

	return user, nil
}

// Get returns a user profile by ID.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Update modifies a profile. Users may only update their own.
func (s *UserService) Update(ctx context.Context, id, requestingUserID uuid.UUID, req *models.UserRequest) (*models.User, error) {
	if id != requestingUserID {
		return nil, ErrNotOwner
	}

	return s.users.Update(ctx, id, req)
}
