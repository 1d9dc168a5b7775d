// Package track provides the Track domain entity.
package track

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrInvalidDuration is returned when a duration is neither "mm:ss" nor raw seconds.
var ErrInvalidDuration = errors.New("invalid duration: must be mm:ss or raw seconds")

var validate = validator.New()

// Track represents a playable item in the library.
// Values are copied in and out of the queue, so a Track is never mutated once enqueued.
type Track struct {
	ID             string `json:"id" yaml:"id"`                                               // Stable identity (may be empty)
	Title          string `json:"title" yaml:"title" validate:"required"`                     // Track title
	Artist         string `json:"artist" yaml:"artist"`                                       // Main artist
	FeaturedArtist string `json:"featured_artist,omitempty" yaml:"featured_artist,omitempty"` // Optional featured artist
	Album          string `json:"album" yaml:"album"`                                         // Album name
	Duration       int    `json:"duration" yaml:"duration" validate:"gte=0"`                  // Duration in seconds
}

// New creates a track from user-entered fields.
// The duration accepts "mm:ss" or raw seconds; a fresh UUID is assigned as the identity.
func New(title, artist, album, duration, featured string) (Track, error) {
	secs, err := ParseDuration(duration)
	if err != nil {
		return Track{}, err
	}

	t := Track{
		ID:             uuid.NewString(),
		Title:          strings.TrimSpace(title),
		Artist:         strings.TrimSpace(artist),
		FeaturedArtist: strings.TrimSpace(featured),
		Album:          strings.TrimSpace(album),
		Duration:       secs,
	}
	if err := t.Validate(); err != nil {
		return Track{}, err
	}
	return t, nil
}

// Validate checks that the track can enter the queue.
func (t Track) Validate() error {
	if err := validate.Struct(t); err != nil {
		return errors.Wrap(err, "invalid track")
	}
	return nil
}

// Length returns the duration as a time.Duration.
func (t Track) Length() time.Duration {
	return time.Duration(t.Duration) * time.Second
}

// String formats the track as "Title (ft. X) by Artist (mm:ss)".
func (t Track) String() string {
	feat := ""
	if t.FeaturedArtist != "" {
		feat = " (ft. " + t.FeaturedArtist + ")"
	}
	return fmt.Sprintf("%s%s by %s (%s)", t.Title, feat, t.Artist, FormatDuration(t.Duration))
}

// Same reports whether two records describe the same track.
// Records match on identity when both carry one, or on title and artist ignoring case.
func Same(a, b Track) bool {
	if a.ID != "" && a.ID == b.ID {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(a.Title), strings.TrimSpace(b.Title)) &&
		strings.EqualFold(strings.TrimSpace(a.Artist), strings.TrimSpace(b.Artist))
}

// ParseDuration converts "mm:ss" or a raw seconds string into seconds.
func ParseDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidDuration
	}

	mins, secs, found := strings.Cut(s, ":")
	if !found {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, errors.Wrapf(ErrInvalidDuration, "%q", s)
		}
		return n, nil
	}

	m, err := strconv.Atoi(mins)
	if err != nil || m < 0 || m > (math.MaxInt-59)/60 {
		return 0, errors.Wrapf(ErrInvalidDuration, "%q", s)
	}
	sec, err := strconv.Atoi(secs)
	if err != nil || sec < 0 || sec >= 60 {
		return 0, errors.Wrapf(ErrInvalidDuration, "%q", s)
	}
	return m*60 + sec, nil
}

// FormatDuration formats seconds as "mm:ss".
func FormatDuration(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// HumanDuration formats a total such as "1 hr 2 mins 3 secs".
func HumanDuration(total int) string {
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	parts := make([]string, 0, 3)
	if hours > 0 {
		parts = append(parts, plural(hours, "hr"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "min"))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, plural(seconds, "sec"))
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
