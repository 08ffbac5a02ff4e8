// Package broadcast provides the in-process publish/subscribe channel that
// fans reconciled RSVPs out to everyone currently viewing an event. Topics
// are event IDs. Delivery is best-effort and at-most-once per subscriber:
// the channel is a notification layer, the store holds the authoritative
// state, and any subscriber can recover it with a direct read.
package broadcast

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/eventpulse/eventpulse/internal/models"
)

// ErrClosed is returned by Publish after the hub has been shut down.
var ErrClosed = errors.New("broadcast hub is closed")

const subscriberBuffer = 32

// Message is what a successful RSVP write fans out to viewers of the event.
type Message struct {
	EventID  string       `json:"event_id"`
	RSVP     *models.RSVP `json:"rsvp"`
	UserID   string       `json:"user_id"`
	UserName string       `json:"user_name"`
}

// Subscriber is a handle on one topic subscription. Messages arrive on C()
// in publish order; a subscriber that cannot keep up loses messages rather
// than blocking publishers.
type Subscriber struct {
	topic string
	ch    chan Message
	hub   *Hub
	once  sync.Once
}

// C returns the receive channel. It is closed when the subscriber is
// unsubscribed or the hub shuts down.
func (s *Subscriber) C() <-chan Message { return s.ch }

// Topic returns the event ID this subscriber is attached to.
func (s *Subscriber) Topic() string { return s.topic }

// Close detaches the subscriber from its topic and closes C().
func (s *Subscriber) Close() { s.hub.unsubscribe(s) }

// Hub is the process-wide subscriber registry. It is created at server
// startup, passed explicitly to whoever publishes or subscribes, and closed
// at shutdown. Nothing survives a restart.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscriber]struct{}
	closed bool
	log    *zap.Logger
}

// NewHub creates and returns a new hub.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		topics: make(map[string]map[*Subscriber]struct{}),
		log:    log,
	}
}

// Subscribe registers a new subscriber on the given topic. On a closed hub
// the returned subscriber's channel is already closed.
func (h *Hub) Subscribe(topic string) *Subscriber {
	sub := &Subscriber{topic: topic, ch: make(chan Message, subscriberBuffer), hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.once.Do(func() { close(sub.ch) })
		return sub
	}

	subs := h.topics[topic]
	if subs == nil {
		subs = make(map[*Subscriber]struct{})
		h.topics[topic] = subs
	}
	subs[sub] = struct{}{}

	return sub
}

func (h *Hub) unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.topics[sub.topic]; ok {
		if _, member := subs[sub]; member {
			delete(subs, sub)
			if len(subs) == 0 {
				delete(h.topics, sub.topic)
			}
		}
	}
	sub.once.Do(func() { close(sub.ch) })
}

// Publish delivers msg to every current subscriber of the topic and returns
// how many received it. Sends never block: a subscriber whose buffer is full
// is skipped. Publishing to a topic nobody watches is not an error.
func (h *Hub) Publish(topic string, msg Message) (int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return 0, ErrClosed
	}

	delivered := 0
	for sub := range h.topics[topic] {
		select {
		case sub.ch <- msg:
			delivered++
		default:
			h.log.Warn("Dropping broadcast message for slow subscriber",
				zap.String("topic", topic))
		}
	}

	return delivered, nil
}

// Subscribers returns the current subscriber count for a topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Close tears down the registry and closes every subscriber channel.
// Subsequent publishes fail with ErrClosed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for _, subs := range h.topics {
		for sub := range subs {
			sub.once.Do(func() { close(sub.ch) })
		}
	}
	h.topics = make(map[string]map[*Subscriber]struct{})
}
