// Package ordering sorts tracks before they are listed or queued.
package ordering

import (
	"cmp"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/osa030/playq/internal/domain/track"
)

// Key is a sort key.
type Key string

const (
	KeyTitle    Key = "title"
	KeyArtist   Key = "artist"
	KeyAlbum    Key = "album"
	KeyDuration Key = "duration"
)

// DefaultKeys is the order used when no keys are given.
var DefaultKeys = []Key{KeyTitle, KeyArtist, KeyAlbum, KeyDuration}

// ErrUnknownKey is returned by ParseKeys for an unsupported key.
var ErrUnknownKey = errors.New("unknown sort key")

// ParseKeys converts key names from configuration. An empty list yields DefaultKeys.
func ParseKeys(names []string) ([]Key, error) {
	if len(names) == 0 {
		return slices.Clone(DefaultKeys), nil
	}

	keys := make([]Key, 0, len(names))
	for _, name := range names {
		k := Key(strings.ToLower(strings.TrimSpace(name)))
		switch k {
		case KeyTitle, KeyArtist, KeyAlbum, KeyDuration:
			keys = append(keys, k)
		default:
			return nil, errors.Wrapf(ErrUnknownKey, "%q", name)
		}
	}
	return keys, nil
}

// Sort returns a sorted copy of tracks. The sort is stable; string keys compare
// case-insensitively and later keys break ties of earlier ones.
func Sort(tracks []track.Track, keys ...Key) []track.Track {
	if len(keys) == 0 {
		keys = DefaultKeys
	}

	sorted := slices.Clone(tracks)
	slices.SortStableFunc(sorted, func(a, b track.Track) int {
		for _, k := range keys {
			if c := compare(a, b, k); c != 0 {
				return c
			}
		}
		return 0
	})
	return sorted
}

func compare(a, b track.Track, k Key) int {
	switch k {
	case KeyTitle:
		return compareFold(a.Title, b.Title)
	case KeyArtist:
		return compareFold(a.Artist, b.Artist)
	case KeyAlbum:
		return compareFold(a.Album, b.Album)
	case KeyDuration:
		return cmp.Compare(a.Duration, b.Duration)
	default:
		return 0
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
