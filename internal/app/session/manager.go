// Package session provides the session manager.
package session

import (
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/osa030/playq/internal/app/filter"
	"github.com/osa030/playq/internal/app/notification"
	"github.com/osa030/playq/internal/app/ordering"
	"github.com/osa030/playq/internal/app/pagination"
	"github.com/osa030/playq/internal/app/playback"
	"github.com/osa030/playq/internal/domain/playlist"
	"github.com/osa030/playq/internal/domain/track"
	"github.com/osa030/playq/internal/infra/config"
	"github.com/osa030/playq/internal/infra/library"
)

// Manager manages the listening session: the library, the import filters and the
// persisted queue.
type Manager struct {
	mu sync.Mutex

	// Configuration
	config   *config.Config
	sortKeys []ordering.Key

	// Components
	fs           afero.Fs
	library      *library.Library
	queue        *playback.Queue
	filterChain  *filter.Chain
	notification *notification.Manager
}

// LoadResult reports the outcome of a bulk load.
type LoadResult struct {
	Source   filter.Source
	Added    int
	Rejected []filter.Rejection
}

// Status is a snapshot of the session for display.
type Status struct {
	Current       string
	CurrentIndex  int // 1-based; 0 when nothing is current
	State         playback.State
	Shuffle       string
	Repeat        string
	Playing       string
	Size          int
	TotalDuration int
}

// NewManager creates a new session manager.
// The library is read from fs and the saved queue is restored from store.
func NewManager(cfg *config.Config, fs afero.Fs, store playback.Store) (*Manager, error) {
	policy, err := playback.ParsePolicy(cfg.Player.Policy)
	if err != nil {
		return nil, err
	}

	sortKeys, err := ordering.ParseKeys(cfg.Library.SortKeys)
	if err != nil {
		return nil, err
	}

	lib, err := library.Load(fs, cfg.Library.Path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load library")
	}

	m := &Manager{
		config:       cfg,
		sortKeys:     sortKeys,
		fs:           fs,
		library:      lib,
		filterChain:  filter.NewChain(),
		notification: notification.NewManager(),
	}

	m.notification.Subscribe(notification.StreamFunc(logEvent))

	var rng *rand.Rand
	if seed := cfg.Player.Seed; seed != 0 {
		rng = rand.New(rand.NewPCG(seed, seed))
	}

	m.queue, err = playback.Open(store, playback.Config{
		Policy:  policy,
		Rand:    rng,
		OnEvent: m.notification.Broadcast,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to restore queue")
	}

	// Setup filters
	if err := m.setupFilters(); err != nil {
		return nil, err
	}

	zlog.Debug().Msgf("session ready: policy=%s tracks=%d playlists=%d queued=%d",
		policy, len(lib.Tracks), len(lib.Playlists), m.queue.Size())
	return m, nil
}

// setupFilters initializes the filter chain from the enabled filters.
func (m *Manager) setupFilters() error {
	registered := filter.GetRegistered()

	for _, name := range m.config.EnabledFilters() {
		factory, ok := registered[name]
		if !ok {
			return errors.Newf("unknown filter: %s", name)
		}
		f := factory()
		if err := f.ValidateConfig(m.config.GetFilterSettings(name)); err != nil {
			return errors.Wrapf(err, "invalid settings for %s", name)
		}
		m.filterChain.Add(f)
		zlog.Debug().Msgf("filter enabled: %s", name)
	}
	return nil
}

func logEvent(n notification.Notification) error {
	e := n.Event
	ev := zlog.Debug().
		Uint64("seq", n.SequenceNo).
		Str("event", e.Type.String()).
		Str("state", e.State.String()).
		Str("mode", e.Mode.String()).
		Int("size", e.Size)
	if e.Track != nil {
		ev = ev.Str("track", e.Track.String())
	}
	ev.Msg("queue event")
	return nil
}

// LoadTracks orders the library, or one playlist when playlistName is set, runs it
// through the filter chain and appends the accepted tracks to the queue.
func (m *Manager) LoadTracks(playlistName string, sorted bool) (*LoadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := &LoadResult{Source: filter.SourceLibrary}
	tracks := m.library.Tracks
	if playlistName != "" {
		p, err := m.library.Playlist(playlistName)
		if err != nil {
			return nil, err
		}
		result.Source = filter.SourcePlaylist
		tracks = p.Tracks
	}

	if sorted {
		tracks = ordering.Sort(tracks, m.sortKeys...)
	}

	accepted, rejected := m.filterChain.Apply(tracks, m.queue.Tracks(), result.Source)
	result.Rejected = rejected
	for _, r := range rejected {
		zlog.Debug().Msgf("track rejected: title=%s filter=%s code=%s", r.Track.Title, r.Filter, r.Code)
	}

	if err := m.queue.EnqueueAll(accepted); err != nil {
		// A persistence failure leaves the tracks queued
		if errors.Is(err, playback.ErrPersist) {
			result.Added = len(accepted)
		}
		return result, err
	}
	result.Added = len(accepted)

	if err := m.autoPlay(); err != nil {
		return result, err
	}
	return result, nil
}

// AddTrack runs a hand-entered track through the filter chain and queues it.
// With save set the track is also added to the library file.
func (m *Manager) AddTrack(t track.Track, save bool) (filter.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := m.filterChain.Execute(t, m.queue.Tracks(), filter.SourceManual)
	if !result.Accepted {
		zlog.Debug().Msgf("track rejected: title=%s code=%s", t.Title, result.Code)
		return result, nil
	}

	if save {
		if err := m.library.Add(t); err != nil {
			return result, err
		}
		if err := m.library.Save(m.fs, m.config.Library.Path); err != nil {
			return result, errors.Wrap(err, "failed to save library")
		}
	}

	if err := m.queue.Enqueue(t); err != nil {
		return result, err
	}
	return result, m.autoPlay()
}

// autoPlay turns the playing flag on when configured and a track is current.
func (m *Manager) autoPlay() error {
	if !m.config.Player.AutoPlay || m.queue.IsPlaying() || m.queue.IsEmpty() {
		return nil
	}
	_, err := m.queue.TogglePlaying()
	return err
}

// Next advances the queue.
func (m *Manager) Next() (track.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Next()
}

// Prev steps back one track.
func (m *Manager) Prev() (track.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Prev()
}

// RemoveCurrent removes the current track.
func (m *Manager) RemoveCurrent() (track.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.RemoveCurrent()
}

// ToggleShuffle flips shuffle and returns the new setting.
func (m *Manager) ToggleShuffle() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.ToggleShuffle()
}

// ToggleRepeat flips repeat and returns the new setting.
func (m *Manager) ToggleRepeat() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.ToggleRepeat()
}

// TogglePlaying flips the play/pause flag and returns the new setting.
func (m *Manager) TogglePlaying() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.TogglePlaying()
}

// Clear empties the queue and forgets the saved session.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Clear()
}

// GetStatus returns the current session status.
func (m *Manager) GetStatus() *Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Status{
		Current:       m.queue.Status(),
		State:         m.queue.State(),
		Shuffle:       m.queue.ShuffleStatus(),
		Repeat:        m.queue.RepeatStatus(),
		Playing:       m.queue.PlayingStatus(),
		Size:          m.queue.Size(),
		TotalDuration: m.queue.TotalDuration(),
	}
	if idx, ok := m.queue.CurrentIndex(); ok {
		s.CurrentIndex = idx + 1
	}
	return s
}

// QueuePage returns one page of the queue listing and the total page count.
func (m *Manager) QueuePage(page int) ([]playback.Entry, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return pagination.Page(m.queue.Entries(), page, m.config.Library.PageSize)
}

// LibraryPage returns one page of the ordered library and the total page count.
func (m *Manager) LibraryPage(page int) ([]track.Track, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return pagination.Page(ordering.Sort(m.library.Tracks, m.sortKeys...), page, m.config.Library.PageSize)
}

// PlaylistNames returns the library's playlist names.
func (m *Manager) PlaylistNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.library.PlaylistNames()
}

// Playlists returns the library's playlists.
func (m *Manager) Playlists() []playlist.Playlist {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.library.Playlists)
}

// LibraryDuration returns the summed duration of the library in seconds.
func (m *Manager) LibraryDuration() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.library.TotalDuration()
}

// GetNotificationManager returns the notification manager.
func (m *Manager) GetNotificationManager() *notification.Manager {
	return m.notification
}

// Filters returns the active filters in chain order.
func (m *Manager) Filters() []filter.Filter {
	return m.filterChain.Filters()
}
