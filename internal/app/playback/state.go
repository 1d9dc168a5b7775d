// Package playback provides the playback queue engine: a circular, navigable queue of
// tracks with shuffle and repeat modes and durable session snapshots.
package playback

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// State represents the queue state.
type State int

const (
	StateEmpty   State = iota // No tracks queued
	StatePlaying              // At least one track queued
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// Mode is the shuffle/repeat tuple of a playing queue.
type Mode struct {
	Shuffle bool
	Repeat  bool
}

// String returns e.g. "shuffle=ON repeat=OFF".
func (m Mode) String() string {
	return fmt.Sprintf("shuffle=%s repeat=%s", onOff(m.Shuffle), onOff(m.Repeat))
}

// Policy selects what advancing does to the track being left.
type Policy int

const (
	// PolicyRotate keeps every track; the ring is revisited indefinitely and Prev is allowed.
	PolicyRotate Policy = iota
	// PolicyConsume removes the track being left, so each track plays once and Prev is rejected.
	PolicyConsume
)

// String returns the string representation of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyRotate:
		return "rotate"
	case PolicyConsume:
		return "consume"
	default:
		return "unknown"
	}
}

// ConsumesOnAdvance reports whether Next removes the track it leaves.
func (p Policy) ConsumesOnAdvance() bool {
	return p == PolicyConsume
}

// ParsePolicy parses "rotate" or "consume".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rotate":
		return PolicyRotate, nil
	case "consume":
		return PolicyConsume, nil
	default:
		return PolicyRotate, errors.Newf("unknown advance policy: %q", s)
	}
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
