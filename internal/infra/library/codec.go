package library

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/osa030/playq/internal/domain/track"
)

// rawDuration holds a duration as written in the file ("mm:ss", seconds, or a number).
// It is parsed per record so one bad value rejects one track, not the file.
type rawDuration string

// UnmarshalJSON accepts both strings and bare numbers.
func (d *rawDuration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*d = rawDuration(s)
		return nil
	}
	*d = rawDuration(strings.TrimSpace(string(b)))
	return nil
}

// UnmarshalYAML accepts any scalar.
func (d *rawDuration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Newf("line %d: duration must be a scalar", value.Line)
	}
	*d = rawDuration(value.Value)
	return nil
}

// UnmarshalCSV keeps the cell verbatim.
func (d *rawDuration) UnmarshalCSV(s string) error {
	*d = rawDuration(s)
	return nil
}

// record is one track as stored in a library file.
type record struct {
	ID             string      `json:"id,omitempty" yaml:"id,omitempty" csv:"id"`
	Title          string      `json:"title" yaml:"title" csv:"title"`
	Artist         string      `json:"artist" yaml:"artist" csv:"artist"`
	FeaturedArtist string      `json:"featured_artist,omitempty" yaml:"featured_artist,omitempty" csv:"featured_artist"`
	Album          string      `json:"album" yaml:"album" csv:"album"`
	Duration       rawDuration `json:"duration" yaml:"duration" csv:"duration"`
	Playlists      string      `json:"-" yaml:"-" csv:"playlists"` // CSV only, ";" separated
}

func toRecord(t track.Track) record {
	return record{
		ID:             t.ID,
		Title:          t.Title,
		Artist:         t.Artist,
		FeaturedArtist: t.FeaturedArtist,
		Album:          t.Album,
		Duration:       rawDuration(track.FormatDuration(t.Duration)),
	}
}

// playlistRecord references library tracks by ID.
type playlistRecord struct {
	ID     string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name   string   `json:"name" yaml:"name"`
	Tracks []string `json:"tracks" yaml:"tracks"`
}

// document is the JSON and YAML file layout.
type document struct {
	Tracks    []record         `json:"tracks" yaml:"tracks"`
	Playlists []playlistRecord `json:"playlists,omitempty" yaml:"playlists,omitempty"`
}
