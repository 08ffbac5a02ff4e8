package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventpulse/eventpulse/internal/models"
	"github.com/eventpulse/eventpulse/internal/repository"
)

func TestCreateEventValidation(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user := env.user(t, "Host", "host@example.com")

	cases := []struct {
		name string
		req  models.EventRequest
		want error
	}{
		{
			name: "past date",
			req: models.EventRequest{
				Title: "Yesterday", Description: "d", Location: "l",
				Date: time.Now().Add(-time.Hour),
			},
			want: ErrDateInPast,
		},
		{
			name: "unknown category",
			req: models.EventRequest{
				Title: "Categorized", Description: "d", Location: "l",
				Date: time.Now().Add(time.Hour), Category: "Quantum",
			},
			want: ErrInvalidCategory,
		},
		{
			name: "zero attendee cap",
			req: models.EventRequest{
				Title: "Capped", Description: "d", Location: "l",
				Date: time.Now().Add(time.Hour), MaxAttendees: intPtr(0),
			},
			want: ErrInvalidMaxAttendees,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.events.Create(ctx, user.ID, &tc.req)
			if !errors.Is(err, tc.want) {
				t.Errorf("Create() got err = %v, want %v", err, tc.want)
			}
		})
	}
}

func intPtr(n int) *int { return &n }

func TestUpdateEventOwnership(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Owner", "owner@example.com")
	other := env.user(t, "Other", "other@example.com")
	event := env.event(t, owner, "Mine")

	req := &models.EventRequest{
		Title: "Still Mine", Description: "d", Location: "l",
		Date: time.Now().Add(2 * time.Hour),
	}

	if _, err := env.events.Update(ctx, event.ID, other.ID, req); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Update() by non-creator got err = %v, want ErrNotOwner", err)
	}

	updated, err := env.events.Update(ctx, event.ID, owner.ID, req)
	if err != nil {
		t.Fatalf("Update() by creator error = %v", err)
	}
	if updated.Title != "Still Mine" {
		t.Errorf("Update() title = %q", updated.Title)
	}
}

func TestDeleteEventCascadesRSVPs(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Owner", "owner@example.com")
	event := env.event(t, owner, "Doomed")

	for i := 0; i < 3; i++ {
		guest := env.user(t, "Guest", fmt.Sprintf("guest%d@example.com", i))
		if _, err := env.rsvps.Submit(ctx, guest, event.ID, models.ResponseYes, 0); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	other := env.user(t, "Other", "other@example.com")
	if err := env.events.Delete(ctx, event.ID, other.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Delete() by non-creator got err = %v, want ErrNotOwner", err)
	}

	if err := env.events.Delete(ctx, event.ID, owner.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	left, err := env.rsvps.ListForEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("ListForEvent() error = %v", err)
	}
	if len(left) != 0 {
		t.Errorf("%d rsvps still reference the deleted event, want 0", len(left))
	}

	if _, _, err := env.events.Get(ctx, event.ID); !errors.Is(err, repository.ErrEventNotFound) {
		t.Errorf("Get() after delete got err = %v, want ErrEventNotFound", err)
	}
}

// brokenDeleteEventRepo fails every event delete, standing in for a storage
// fault mid-removal.
type brokenDeleteEventRepo struct {
	repository.EventRepository
}

func (r *brokenDeleteEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return errors.New("disk I/O error")
}

func TestDeleteEventFailureKeepsRSVPs(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	owner := env.user(t, "Owner", "owner@example.com")
	event := env.event(t, owner, "Sticky Event")

	for i := 0; i < 3; i++ {
		guest := env.user(t, "Guest", fmt.Sprintf("guest%d@example.com", i))
		if _, err := env.rsvps.Submit(ctx, guest, event.ID, models.ResponseYes, 0); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	broken := NewEventService(&brokenDeleteEventRepo{env.eventRepo}, env.rsvpRepo, zap.NewNop())
	if err := broken.Delete(ctx, event.ID, owner.ID); err == nil {
		t.Fatal("Delete() error = nil, want storage failure surfaced")
	}

	// A failed delete must not have taken the rsvps with it.
	left, err := env.rsvps.ListForEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("ListForEvent() error = %v", err)
	}
	if len(left) != 3 {
		t.Errorf("failed delete left %d rsvps, want 3", len(left))
	}
	if _, _, err := env.events.Get(ctx, event.ID); err != nil {
		t.Errorf("Get() after failed delete error = %v, want event intact", err)
	}
}

func TestListEventsPaginationEnvelope(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	host := env.user(t, "Host", "host@example.com")
	for i := 0; i < 5; i++ {
		env.event(t, host, fmt.Sprintf("Event %d", i))
	}

	page, err := env.events.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Total != 5 || page.TotalPages != 3 || page.CurrentPage != 2 {
		t.Errorf("List() envelope = total %d pages %d current %d, want 5/3/2",
			page.Total, page.TotalPages, page.CurrentPage)
	}
	if len(page.Events) != 2 {
		t.Errorf("List() page size = %d, want 2", len(page.Events))
	}

	// Out-of-range inputs fall back to defaults.
	page, err = env.events.List(ctx, 0, -1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.CurrentPage != 1 {
		t.Errorf("List() current page = %d, want 1", page.CurrentPage)
	}
}

func TestUserProfileUpdateOwnership(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.user(t, "Alice", "alice@example.com")
	bob := env.user(t, "Bob", "bob@example.com")

	req := &models.UserRequest{Name: "Alicia", Email: "alice@example.com"}

	if _, err := env.users.Update(ctx, alice.ID, bob.ID, req); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Update() of another user's profile got err = %v, want ErrNotOwner", err)
	}

	updated, err := env.users.Update(ctx, alice.ID, alice.ID, req)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "Alicia" {
		t.Errorf("Update() name = %q, want Alicia", updated.Name)
	}
}
