// Package playlist provides the Playlist domain entity.
package playlist

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/osa030/playq/internal/domain/track"
)

// ErrDuplicateTrack is returned when a track is already in the playlist.
var ErrDuplicateTrack = errors.New("track already exists in playlist")

// Playlist represents a named, ordered list of tracks.
type Playlist struct {
	ID     string        // Playlist ID
	Name   string        // Playlist name
	Tracks []track.Track // Tracks in the playlist
}

// Add appends a track unless the playlist already holds the same track.
func (p *Playlist) Add(t track.Track) error {
	if p.Contains(t) {
		return errors.Wrapf(ErrDuplicateTrack, "%s in %s", t.Title, p.Name)
	}
	p.Tracks = append(p.Tracks, t)
	return nil
}

// Remove removes the first matching track and reports whether one was removed.
func (p *Playlist) Remove(t track.Track) bool {
	_, idx, found := lo.FindIndexOf(p.Tracks, func(item track.Track) bool {
		return track.Same(item, t)
	})
	if !found {
		return false
	}
	p.Tracks = append(p.Tracks[:idx], p.Tracks[idx+1:]...)
	return true
}

// Contains reports whether the playlist holds the same track.
func (p *Playlist) Contains(t track.Track) bool {
	return lo.ContainsBy(p.Tracks, func(item track.Track) bool {
		return track.Same(item, t)
	})
}

// TrackIDs returns all track IDs in the playlist.
func (p *Playlist) TrackIDs() []string {
	ids := make([]string, len(p.Tracks))
	for i, t := range p.Tracks {
		ids[i] = t.ID
	}
	return ids
}

// TotalDuration returns the total duration of all tracks in seconds.
func (p *Playlist) TotalDuration() int64 {
	var total int64
	for _, t := range p.Tracks {
		total += int64(t.Duration)
	}
	return total
}
