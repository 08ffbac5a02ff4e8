package broadcast

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/eventpulse/eventpulse/internal/models"
)

func testMessage(topic string, n int) Message {
	return Message{
		EventID: topic,
		RSVP:    &models.RSVP{Response: models.ResponseYes, GuestCount: n},
	}
}

func receive(t *testing.T, sub *Subscriber) Message {
	t.Helper()
	select {
	case msg, ok := <-sub.C():
		if !ok {
			t.Fatalf("subscriber channel closed unexpectedly")
		}
		return msg
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for broadcast message")
		return Message{}
	}
}

func TestPublishReachesTopicSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	a := hub.Subscribe("event-1")
	b := hub.Subscribe("event-1")
	other := hub.Subscribe("event-2")

	delivered, err := hub.Publish("event-1", testMessage("event-1", 1))
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if delivered != 2 {
		t.Errorf("Publish() delivered = %d, want 2", delivered)
	}

	for _, sub := range []*Subscriber{a, b} {
		msg := receive(t, sub)
		if msg.EventID != "event-1" {
			t.Errorf("message event id = %q, want event-1", msg.EventID)
		}
	}

	select {
	case msg := <-other.C():
		t.Errorf("subscriber of another topic received %+v", msg)
	default:
	}
}

func TestPublishPreservesOrderPerSubscriber(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	sub := hub.Subscribe("event-1")

	for i := 0; i < 10; i++ {
		if _, err := hub.Publish("event-1", testMessage("event-1", i)); err != nil {
			t.Fatalf("Publish(%d) error = %v", i, err)
		}
	}

	for i := 0; i < 10; i++ {
		msg := receive(t, sub)
		if msg.RSVP.GuestCount != i {
			t.Fatalf("message %d arrived out of order (got %d)", i, msg.RSVP.GuestCount)
		}
	}
}

func TestPublishWithoutSubscribersIsNotAnError(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	delivered, err := hub.Publish("nobody-home", testMessage("nobody-home", 0))
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if delivered != 0 {
		t.Errorf("Publish() delivered = %d, want 0", delivered)
	}
}

func TestSlowSubscriberLosesMessagesNotOrdering(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	sub := hub.Subscribe("event-1")

	// Fill the buffer and then some; the overflow is dropped, never blocked on.
	for i := 0; i < subscriberBuffer+5; i++ {
		if _, err := hub.Publish("event-1", testMessage("event-1", i)); err != nil {
			t.Fatalf("Publish(%d) error = %v", i, err)
		}
	}

	for i := 0; i < subscriberBuffer; i++ {
		msg := receive(t, sub)
		if msg.RSVP.GuestCount != i {
			t.Fatalf("retained message %d out of order (got %d)", i, msg.RSVP.GuestCount)
		}
	}

	select {
	case msg := <-sub.C():
		t.Errorf("expected overflow to be dropped, received %+v", msg)
	default:
	}
}

func TestUnsubscribeRemovesFromRegistry(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	sub := hub.Subscribe("event-1")
	if got := hub.Subscribers("event-1"); got != 1 {
		t.Fatalf("Subscribers() = %d, want 1", got)
	}

	sub.Close()
	if got := hub.Subscribers("event-1"); got != 0 {
		t.Errorf("Subscribers() after Close = %d, want 0", got)
	}

	if _, ok := <-sub.C(); ok {
		t.Errorf("subscriber channel still open after Close")
	}

	// Closing twice is harmless.
	sub.Close()
}

func TestHubClose(t *testing.T) {
	hub := NewHub(zap.NewNop())

	sub := hub.Subscribe("event-1")
	hub.Close()

	if _, ok := <-sub.C(); ok {
		t.Errorf("subscriber channel still open after hub shutdown")
	}

	if _, err := hub.Publish("event-1", testMessage("event-1", 0)); !errors.Is(err, ErrClosed) {
		t.Errorf("Publish() on closed hub got err = %v, want ErrClosed", err)
	}

	late := hub.Subscribe("event-1")
	if _, ok := <-late.C(); ok {
		t.Errorf("subscription on a closed hub should be dead on arrival")
	}
}

func TestConcurrentSubscribeAndPublish(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			topic := fmt.Sprintf("event-%d", i%4)
			sub := hub.Subscribe(topic)
			sub.Close()
		}
	}()

	for i := 0; i < 100; i++ {
		if _, err := hub.Publish(fmt.Sprintf("event-%d", i%4), testMessage("x", i)); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}
	<-done
}
