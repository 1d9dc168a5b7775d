package playback

import "github.com/osa030/playq/internal/domain/track"

// EventType represents a queue event type.
type EventType int

const (
	EventEnqueued       EventType = iota // One or more tracks added
	EventAdvanced                        // Moved to the next track
	EventRetreated                       // Moved to the previous track
	EventRemoved                         // Current track removed
	EventShuffleChanged                  // Shuffle toggled
	EventRepeatChanged                   // Repeat toggled
	EventPlayingChanged                  // Play/pause toggled
	EventQueueEmpty                      // Last track consumed
	EventCleared                         // Queue reset
	EventRestored                        // State rebuilt from a snapshot
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventEnqueued:
		return "enqueued"
	case EventAdvanced:
		return "advanced"
	case EventRetreated:
		return "retreated"
	case EventRemoved:
		return "removed"
	case EventShuffleChanged:
		return "shuffle_changed"
	case EventRepeatChanged:
		return "repeat_changed"
	case EventPlayingChanged:
		return "playing_changed"
	case EventQueueEmpty:
		return "queue_empty"
	case EventCleared:
		return "cleared"
	case EventRestored:
		return "restored"
	default:
		return "unknown"
	}
}

// Event describes a completed queue mutation.
type Event struct {
	Type  EventType
	Track *track.Track // Track concerned (nil for some events)
	State State        // Queue state after the mutation
	Mode  Mode         // Mode after the mutation
	Size  int          // Queue size after the mutation
}
