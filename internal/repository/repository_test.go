package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventpulse/eventpulse/internal/database"
	"github.com/eventpulse/eventpulse/internal/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
	return db.DB()
}

func createTestUser(t *testing.T, users UserRepository, name, email string) *models.User {
	t.Helper()
	user := &models.User{ID: uuid.New(), Name: name, Email: email}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create test user %s: %v", email, err)
	}
	return user
}

func createTestEvent(t *testing.T, events EventRepository, creator *models.User, title string) *models.Event {
	t.Helper()
	event := &models.Event{
		ID:          uuid.New(),
		Title:       title,
		Description: "test event",
		Date:        time.Now().Add(24 * time.Hour),
		Location:    "Test Location",
		CreatorID:   creator.ID,
	}
	if err := events.Create(context.Background(), event); err != nil {
		t.Fatalf("Failed to create test event %s: %v", title, err)
	}
	return event
}

func testRepos(t *testing.T) (UserRepository, EventRepository, RSVPRepository) {
	t.Helper()
	db := setupTestDB(t)
	log := zap.NewNop()
	return NewUserRepository(db, log), NewEventRepository(db, log), NewRSVPRepository(db, log)
}
