// Package library loads the local track library and its playlists.
//
// Libraries are read from JSON, YAML or CSV files, chosen by extension. Records with
// an unreadable duration, a missing title or a duplicate of an earlier track are
// skipped and reported in Library.Rejected rather than failing the whole load.
package library

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/osa030/playq/internal/domain/playlist"
	"github.com/osa030/playq/internal/domain/track"
)

// Errors
var (
	ErrUnsupportedFormat = errors.New("unsupported library format")
	ErrDuplicateTrack    = errors.New("track already exists in library")
	ErrPlaylistNotFound  = errors.New("playlist not found")
)

// Rejection records a library entry that was skipped.
type Rejection struct {
	Index  int    // zero-based record index in the file
	Title  string // title as written
	Reason error
}

// Library is the loaded track collection.
type Library struct {
	Tracks    []track.Track
	Playlists []playlist.Playlist
	Rejected  []Rejection
}

// Load reads the library at path. A missing file yields an empty library.
func Load(fs afero.Fs, path string) (*Library, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		zlog.Debug().Str("path", path).Msg("library file not found, starting empty")
		return &Library{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read library")
	}

	var doc document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".csv":
		doc, err = decodeCSV(data)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse library %s", path)
	}

	lib := build(doc)
	for _, r := range lib.Rejected {
		zlog.Warn().Int("index", r.Index).Str("title", r.Title).Err(r.Reason).Msg("skipped library entry")
	}
	return lib, nil
}

func decodeCSV(data []byte) (document, error) {
	var records []record
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return document{}, err
	}

	// Playlists are listed per row; keep them in order of first mention.
	var playlists []playlistRecord
	index := make(map[string]int)
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
		for _, name := range strings.Split(records[i].Playlists, ";") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			key := strings.ToLower(name)
			if _, ok := index[key]; !ok {
				index[key] = len(playlists)
				playlists = append(playlists, playlistRecord{Name: name})
			}
			p := &playlists[index[key]]
			p.Tracks = append(p.Tracks, records[i].ID)
		}
	}
	return document{Tracks: records, Playlists: playlists}, nil
}

func build(doc document) *Library {
	lib := &Library{}
	byID := make(map[string]track.Track)

	for i, r := range doc.Tracks {
		t, err := r.track()
		if err == nil {
			if existing, found := lo.Find(lib.Tracks, func(e track.Track) bool {
				return track.Same(e, t)
			}); found {
				// Playlists naming the duplicate get the kept track
				if r.ID != "" {
					byID[r.ID] = existing
				}
				err = errors.Wrapf(ErrDuplicateTrack, "same as %q by %s", existing.Title, existing.Artist)
			}
		}
		if err != nil {
			lib.Rejected = append(lib.Rejected, Rejection{Index: i, Title: r.Title, Reason: err})
			continue
		}
		lib.Tracks = append(lib.Tracks, t)
		byID[t.ID] = t
	}

	for _, pr := range doc.Playlists {
		p := playlist.Playlist{ID: pr.ID, Name: strings.TrimSpace(pr.Name)}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		for _, id := range pr.Tracks {
			t, ok := byID[id]
			if !ok {
				zlog.Warn().Str("playlist", p.Name).Str("track_id", id).Msg("playlist references unknown track")
				continue
			}
			// Repeated references collapse to one entry
			_ = p.Add(t)
		}
		lib.Playlists = append(lib.Playlists, p)
	}
	return lib
}

func (r record) track() (track.Track, error) {
	secs, err := track.ParseDuration(string(r.Duration))
	if err != nil {
		return track.Track{}, err
	}
	t := track.Track{
		ID:             strings.TrimSpace(r.ID),
		Title:          strings.TrimSpace(r.Title),
		Artist:         strings.TrimSpace(r.Artist),
		FeaturedArtist: strings.TrimSpace(r.FeaturedArtist),
		Album:          strings.TrimSpace(r.Album),
		Duration:       secs,
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := t.Validate(); err != nil {
		return track.Track{}, err
	}
	return t, nil
}

// Add appends a track unless the library already holds the same track.
func (l *Library) Add(t track.Track) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if lo.ContainsBy(l.Tracks, func(e track.Track) bool { return track.Same(e, t) }) {
		return errors.Wrapf(ErrDuplicateTrack, "%s by %s", t.Title, t.Artist)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	l.Tracks = append(l.Tracks, t)
	return nil
}

// Playlist looks up a playlist by name, ignoring case and surrounding spaces.
func (l *Library) Playlist(name string) (playlist.Playlist, error) {
	p, found := lo.Find(l.Playlists, func(p playlist.Playlist) bool {
		return strings.EqualFold(p.Name, strings.TrimSpace(name))
	})
	if !found {
		return playlist.Playlist{}, errors.Wrapf(ErrPlaylistNotFound, "%q", name)
	}
	return p, nil
}

// PlaylistNames returns the playlist names in file order.
func (l *Library) PlaylistNames() []string {
	return lo.Map(l.Playlists, func(p playlist.Playlist, _ int) string {
		return p.Name
	})
}

// TotalDuration returns the summed duration of all tracks in seconds.
func (l *Library) TotalDuration() int {
	return lo.SumBy(l.Tracks, func(t track.Track) int {
		return t.Duration
	})
}

// Save writes the library to path in the format chosen by its extension.
// CSV files carry playlist membership in the "playlists" column.
func (l *Library) Save(fs afero.Fs, path string) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = json.MarshalIndent(l.document(), "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(l.document())
	case ".csv":
		data, err = gocsv.MarshalBytes(l.csvRecords())
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}
	if err != nil {
		return errors.Wrap(err, "failed to encode library")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create library directory")
		}
	}
	tmpPath := path + ".tmp"
	if err := afero.WriteFile(fs, tmpPath, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write library")
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		return errors.Wrap(err, "failed to replace library")
	}
	return nil
}

func (l *Library) document() document {
	return document{
		Tracks: lo.Map(l.Tracks, func(t track.Track, _ int) record {
			return toRecord(t)
		}),
		Playlists: lo.Map(l.Playlists, func(p playlist.Playlist, _ int) playlistRecord {
			return playlistRecord{ID: p.ID, Name: p.Name, Tracks: p.TrackIDs()}
		}),
	}
}

func (l *Library) csvRecords() []record {
	return lo.Map(l.Tracks, func(t track.Track, _ int) record {
		r := toRecord(t)
		names := lo.FilterMap(l.Playlists, func(p playlist.Playlist, _ int) (string, bool) {
			return p.Name, p.Contains(t)
		})
		r.Playlists = strings.Join(names, ";")
		return r
	})
}
