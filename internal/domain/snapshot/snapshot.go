// Package snapshot provides the durable session record of the playback queue.
package snapshot

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/osa030/playq/internal/domain/track"
)

// ErrCorrupt is returned when a stored record cannot be decoded or lacks required fields.
var ErrCorrupt = errors.New("corrupt snapshot")

// requiredKeys must be present in every stored record.
var requiredKeys = []string{"tracks", "current_index", "shuffled", "repeat"}

var validate = validator.New()

// Snapshot is the full state of a queue at a save point.
// A nil *Snapshot means "no saved session".
type Snapshot struct {
	Tracks       []track.Track `json:"tracks" validate:"dive"` // Ring order, front to rear
	CurrentIndex *int          `json:"current_index"`          // Index of current track (nil if none)
	Shuffled     bool          `json:"shuffled"`
	Repeat       bool          `json:"repeat"`
	Playing      bool          `json:"playing"`

	// OriginalOrder lists indexes into Tracks in insertion order.
	// Absent when the ring order already is the insertion order.
	OriginalOrder []int `json:"original_order,omitempty"`
}

// Index returns a pointer to i, for building snapshots.
func Index(i int) *int {
	return &i
}

// Marshal encodes a snapshot. A nil snapshot encodes as JSON null.
func Marshal(s *Snapshot) ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode snapshot")
	}
	return data, nil
}

// Unmarshal decodes a stored record.
// It returns (nil, nil) for an explicit null marker and ErrCorrupt for anything that
// cannot be trusted to rebuild a queue.
func Unmarshal(data []byte) (*Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.Wrap(ErrCorrupt, "empty record")
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to decode snapshot"), ErrCorrupt)
	}
	for _, key := range requiredKeys {
		if _, ok := fields[key]; !ok {
			return nil, errors.Wrapf(ErrCorrupt, "missing field %q", key)
		}
	}

	var s Snapshot
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to decode snapshot"), ErrCorrupt)
	}
	if s.Tracks == nil {
		return nil, errors.Wrap(ErrCorrupt, "tracks is null")
	}
	if err := validate.Struct(s); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "snapshot validation failed"), ErrCorrupt)
	}
	if s.OriginalOrder != nil && !isPermutation(s.OriginalOrder, len(s.Tracks)) {
		// Unusable order hint; fall back to ring order.
		s.OriginalOrder = nil
	}
	return &s, nil
}

func isPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, i := range order {
		if i < 0 || i >= n || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}
