package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/playq/internal/app/playback"
	"github.com/osa030/playq/internal/infra/config"
	"github.com/osa030/playq/internal/infra/snapshotstore"
)

func TestQueueOutcome(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wasEmpty bool
		expected string
		handled  bool
	}{
		{name: "no error", err: nil},
		{name: "already empty", err: playback.ErrQueueEmpty, wasEmpty: true, expected: "Queue is empty.", handled: true},
		{name: "drained", err: playback.ErrQueueEmpty, expected: "Queue is now empty.", handled: true},
		{name: "no current track", err: playback.ErrNoTrack, expected: playback.NothingPlaying, handled: true},
		{name: "rear reached", err: playback.ErrNoNext, expected: "No next track.", handled: true},
		{name: "front reached", err: playback.ErrNoPrevious, expected: "No previous track.", handled: true},
		{name: "prev under consume", err: playback.ErrPrevUnsupported, expected: "Previous track is not available when tracks are consumed on advance.", handled: true},
		{name: "other error", err: errors.New("disk on fire")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, handled := queueOutcome(tt.err, tt.wasEmpty)
			assert.Equal(t, tt.handled, handled)
			assert.Equal(t, tt.expected, msg)
		})
	}
}

func TestRun_RemoveWithoutCurrentTrack(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.json")

	// Restored index points past the end, so nothing is current
	state := `{"tracks": [{"id": "1", "title": "Song", "artist": "Band", "album": "LP", "duration": 200}],
	  "current_index": 5, "shuffled": false, "repeat": false, "playing": false}`
	require.NoError(t, os.WriteFile(statePath, []byte(state), 0o644))

	cfg := config.Default()
	cfg.Library.Path = filepath.Join(dir, "library.json")
	cfg.Snapshot.Settings = map[string]any{"path": statePath}

	require.NoError(t, run(cfg, removeCmd.FullCommand()))

	snap, err := snapshotstore.NewFileStore(afero.NewOsFs(), statePath).Load()
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Len(t, snap.Tracks, 1, "the queue is left untouched")
}
