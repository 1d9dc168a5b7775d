package notification

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/osa030/playq/internal/app/playback"
)

func TestManager_Broadcast(t *testing.T) {
	m := NewManager()

	var first, second []Notification
	id1 := m.Subscribe(StreamFunc(func(n Notification) error {
		first = append(first, n)
		return errors.New("subscriber gone")
	}))
	m.Subscribe(StreamFunc(func(n Notification) error {
		second = append(second, n)
		return nil
	}))
	assert.Equal(t, 2, m.SubscriberCount())

	m.Broadcast(playback.Event{Type: playback.EventEnqueued, Size: 1})
	m.Unsubscribe(id1)
	m.Broadcast(playback.Event{Type: playback.EventAdvanced, Size: 1})

	assert.Equal(t, 1, m.SubscriberCount())
	assert.Len(t, first, 1)
	if assert.Len(t, second, 2, "a failing subscriber must not block others") {
		assert.Equal(t, uint64(1), second[0].SequenceNo)
		assert.Equal(t, uint64(2), second[1].SequenceNo)
		assert.Equal(t, playback.EventAdvanced, second[1].Event.Type)
	}
}

func TestManager_UnsubscribeUnknown(t *testing.T) {
	m := NewManager()
	m.Subscribe(StreamFunc(func(Notification) error { return nil }))
	m.Unsubscribe("missing")
	assert.Equal(t, 1, m.SubscriberCount())
}

func TestManager_QueueEvents(t *testing.T) {
	m := NewManager()
	var types []playback.EventType
	m.Subscribe(StreamFunc(func(n Notification) error {
		types = append(types, n.Event.Type)
		return nil
	}))

	q := playback.NewQueue(nil, playback.Config{OnEvent: m.Broadcast})
	_, _ = q.ToggleRepeat()
	_ = q.Clear()

	assert.Equal(t, []playback.EventType{playback.EventRepeatChanged, playback.EventCleared}, types)
}
