package filter

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"

	"github.com/osa030/playq/internal/domain/track"
)

// ArtistBlockConfig represents the configuration for ArtistBlockFilter.
type ArtistBlockConfig struct {
	Artists []string `yaml:"artists" mapstructure:"artists"`
}

// ArtistBlockFilter skips tracks by blocked artists, featured or main.
type ArtistBlockFilter struct {
	blocked []string
}

// NewArtistBlockFilter creates a new ArtistBlockFilter for the given artists.
func NewArtistBlockFilter(artists ...string) *ArtistBlockFilter {
	return &ArtistBlockFilter{blocked: normalizeArtists(artists)}
}

func (f *ArtistBlockFilter) Name() string {
	return "artist_block_filter"
}

func (f *ArtistBlockFilter) Description() string {
	return "Skips tracks whose main or featured artist is blocked"
}

func (f *ArtistBlockFilter) ReturnCodes() []string {
	return []string{"artist_blocked"}
}

func (f *ArtistBlockFilter) ValidateConfig(settings map[string]any) error {
	var config ArtistBlockConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	f.blocked = normalizeArtists(config.Artists)
	return nil
}

func (f *ArtistBlockFilter) AppliesTo(source Source) bool {
	// Blocks apply to all tracks regardless of source
	return true
}

func (f *ArtistBlockFilter) Check(t track.Track, queued []track.Track) Result {
	if len(f.blocked) == 0 {
		return Accept()
	}

	artists := []string{t.Artist, t.FeaturedArtist}
	blocked := lo.SomeBy(artists, func(a string) bool {
		return lo.Contains(f.blocked, strings.ToLower(strings.TrimSpace(a)))
	})
	if blocked {
		return Reject("artist_blocked")
	}
	return Accept()
}

func normalizeArtists(artists []string) []string {
	return lo.Uniq(lo.FilterMap(artists, func(a string, _ int) (string, bool) {
		a = strings.ToLower(strings.TrimSpace(a))
		return a, a != ""
	}))
}

func init() {
	Register("artist_block_filter", func() Filter {
		return NewArtistBlockFilter()
	})
}
