// Package notification provides the notification manager for broadcasting queue events.
package notification

import (
	"sync"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/playq/internal/app/playback"
)

// Notification is a queue event stamped with a sequence number.
type Notification struct {
	SequenceNo uint64
	Event      playback.Event
}

// Stream represents a notification stream for a subscriber.
type Stream interface {
	Send(Notification) error
}

// StreamFunc adapts a function to a Stream.
type StreamFunc func(Notification) error

// Send calls f(n).
func (f StreamFunc) Send(n Notification) error {
	return f(n)
}

// subscription represents a subscriber's subscription.
type subscription struct {
	id     string
	stream Stream
}

// Manager manages notification subscriptions and broadcasting.
// Broadcasts are delivered synchronously in subscription order.
type Manager struct {
	mu            sync.RWMutex
	subscriptions []*subscription
	sequenceNo    uint64
}

// NewManager creates a new notification manager.
func NewManager() *Manager {
	return &Manager{}
}

// Subscribe adds a new subscription and returns the subscription ID.
func (m *Manager) Subscribe(stream Stream) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.subscriptions = append(m.subscriptions, &subscription{
		id:     id,
		stream: stream,
	})
	return id
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscriptions {
		if sub.id == subscriptionID {
			m.subscriptions = append(m.subscriptions[:i], m.subscriptions[i+1:]...)
			return
		}
	}
}

// Broadcast sends an event to all subscribers.
// A failing subscriber is logged and does not stop delivery to the others.
func (m *Manager) Broadcast(e playback.Event) {
	m.mu.Lock()
	m.sequenceNo++
	n := Notification{SequenceNo: m.sequenceNo, Event: e}
	// Copy subscriptions to avoid holding lock during sends
	subs := append([]*subscription(nil), m.subscriptions...)
	m.mu.Unlock()

	for _, sub := range subs {
		if err := sub.stream.Send(n); err != nil {
			zlog.Warn().Err(err).Str("subscription", sub.id).Msgf("failed to deliver %s notification", e.Type)
		}
	}
}

// SubscriberCount returns the number of active subscriptions.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}
