package playback

import (
	"math/rand/v2"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/osa030/playq/internal/domain/snapshot"
	"github.com/osa030/playq/internal/domain/track"
)

// Errors
var (
	ErrQueueEmpty      = errors.New("queue is empty")
	ErrNoTrack         = errors.New("no track is currently selected")
	ErrNoNext          = errors.New("no next track")
	ErrNoPrevious      = errors.New("no previous track")
	ErrPrevUnsupported = errors.New("previous track is not available when tracks are consumed on advance")
	ErrInvalidTrack    = errors.New("invalid track")
	ErrPersist         = errors.New("snapshot write failed")
)

// NothingPlaying is the status text when no track is current.
const NothingPlaying = "No track is currently playing."

// Store persists queue snapshots.
// Save(nil) records an explicit "no session" marker. Load returns (nil, nil) when there
// is no usable session.
type Store interface {
	Save(s *snapshot.Snapshot) error
	Load() (*snapshot.Snapshot, error)
}

// Config holds queue configuration.
type Config struct {
	Policy  Policy      // What Next does with the track it leaves
	Rand    *rand.Rand  // Source for shuffle (nil: randomly seeded)
	OnEvent func(Event) // Called after every completed mutation (optional)
}

// Entry is one line of the queue listing.
type Entry struct {
	Position int // 1-based position from the front
	Track    track.Track
	Current  bool
}

// Queue is the playback queue engine.
//
// Tracks live in a circular doubly-linked ring. Every mutation is followed by a
// snapshot write to the Store; a failed write is returned marked with ErrPersist while
// the in-memory change stands. A Queue is not safe for concurrent use.
type Queue struct {
	ring    ring
	current int

	// original holds live entries in insertion order so shuffle can be undone.
	// While not shuffled it matches ring order exactly.
	original []entry
	seq      uint64

	shuffled bool
	repeat   bool
	playing  bool

	policy  Policy
	rng     *rand.Rand
	store   Store
	onEvent func(Event)
}

// NewQueue creates an empty queue. A nil store disables persistence.
func NewQueue(store Store, config Config) *Queue {
	rng := config.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Queue{
		ring:    newRing(),
		current: none,
		policy:  config.Policy,
		rng:     rng,
		store:   store,
		onEvent: config.OnEvent,
	}
}

// Open creates a queue and restores the saved session, if any.
func Open(store Store, config Config) (*Queue, error) {
	q := NewQueue(store, config)
	if _, err := q.Load(); err != nil {
		return nil, err
	}
	return q, nil
}

// Enqueue adds a track at the rear. The first track of an empty queue becomes current.
func (q *Queue) Enqueue(t track.Track) error {
	if err := t.Validate(); err != nil {
		return errors.Mark(err, ErrInvalidTrack)
	}
	q.insert(t)
	q.emit(EventEnqueued, &t)
	return q.persist()
}

// EnqueueAll adds tracks in order with a single snapshot write.
// Nothing is added when any track is invalid.
func (q *Queue) EnqueueAll(ts []track.Track) error {
	for i, t := range ts {
		if err := t.Validate(); err != nil {
			return errors.Mark(errors.Wrapf(err, "track %d", i), ErrInvalidTrack)
		}
	}
	if len(ts) == 0 {
		return nil
	}
	for _, t := range ts {
		q.insert(t)
	}
	q.emit(EventEnqueued, nil)
	return q.persist()
}

// RemoveCurrent removes the current track and returns it.
// The following track becomes current. The one exception departs from ring order:
// when the removed track was the rear and repeat is off, the preceding track becomes
// current rather than the rear's ring successor (the front).
func (q *Queue) RemoveCurrent() (track.Track, error) {
	if q.ring.size == 0 {
		return track.Track{}, ErrQueueEmpty
	}
	if q.current == none {
		return track.Track{}, ErrNoTrack
	}

	n := q.ring.nodes[q.current]
	wasRear := q.current == q.ring.rear
	q.detach(q.current)

	switch {
	case q.ring.size == 0:
		q.current = none
	case wasRear && !q.repeat:
		q.current = n.prev
	default:
		q.current = n.next
	}

	removed := n.track
	q.emit(EventRemoved, &removed)
	return removed, q.persist()
}

// Next advances to the next track and returns it.
//
// With shuffle on, the current track is consumed and a random remaining track is
// chosen. Otherwise repeat on rotates through the ring, wrapping from rear to front.
// With repeat off, PolicyConsume removes the current track and plays the new front,
// while PolicyRotate moves forward and stops at the rear with ErrNoNext.
// ErrQueueEmpty is returned once no tracks remain.
func (q *Queue) Next() (track.Track, error) {
	if q.ring.size == 0 {
		return track.Track{}, ErrQueueEmpty
	}
	if q.current == none {
		q.current = q.ring.front
		return q.moved(EventAdvanced)
	}

	switch {
	case q.shuffled:
		q.detach(q.current)
		if q.ring.size == 0 {
			return q.emptied()
		}
		q.current = q.ring.at(q.rng.IntN(q.ring.size))
	case q.repeat:
		q.current = q.ring.nodes[q.current].next
	case q.policy.ConsumesOnAdvance():
		q.detach(q.current)
		if q.ring.size == 0 {
			return q.emptied()
		}
		q.current = q.ring.front
	default:
		if q.current == q.ring.rear {
			return track.Track{}, ErrNoNext
		}
		q.current = q.ring.nodes[q.current].next
	}
	return q.moved(EventAdvanced)
}

// Prev moves to the previous track and returns it.
// At the front it wraps to the rear when repeat is on, otherwise it reports
// ErrNoPrevious without moving. Under PolicyConsume it always fails with
// ErrPrevUnsupported.
func (q *Queue) Prev() (track.Track, error) {
	if q.policy.ConsumesOnAdvance() {
		return track.Track{}, ErrPrevUnsupported
	}
	if q.ring.size == 0 {
		return track.Track{}, ErrQueueEmpty
	}
	if q.current == none {
		return track.Track{}, ErrNoTrack
	}
	if q.current == q.ring.front && !q.repeat {
		return track.Track{}, ErrNoPrevious
	}
	q.current = q.ring.nodes[q.current].prev
	return q.moved(EventRetreated)
}

// ToggleShuffle flips shuffle mode and returns the new setting.
// Turning it on permutes the ring; turning it off restores insertion order.
// The current track stays current either way.
func (q *Queue) ToggleShuffle() (bool, error) {
	q.shuffled = !q.shuffled
	if q.ring.size > 0 {
		var order []entry
		if q.shuffled {
			order = q.ring.entries()
			q.rng.Shuffle(len(order), func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		} else {
			order = slices.Clone(q.original)
		}
		q.rebuild(order)
	}
	q.emit(EventShuffleChanged, q.currentTrack())
	return q.shuffled, q.persist()
}

// ToggleRepeat flips repeat mode and returns the new setting.
func (q *Queue) ToggleRepeat() (bool, error) {
	q.repeat = !q.repeat
	q.emit(EventRepeatChanged, q.currentTrack())
	return q.repeat, q.persist()
}

// TogglePlaying flips the play/pause flag and returns the new setting.
func (q *Queue) TogglePlaying() (bool, error) {
	q.playing = !q.playing
	q.emit(EventPlayingChanged, q.currentTrack())
	return q.playing, q.persist()
}

// Clear empties the queue, resets all modes and records "no session".
func (q *Queue) Clear() error {
	q.reset()
	q.emit(EventCleared, nil)
	return q.persist()
}

// Save writes the current state to the store.
func (q *Queue) Save() error {
	return q.persist()
}

// Load replaces the queue with the saved session.
// It reports false, leaving the queue untouched, when there is no usable session.
func (q *Queue) Load() (bool, error) {
	if q.store == nil {
		return false, nil
	}
	s, err := q.store.Load()
	if err != nil {
		return false, errors.Wrap(err, "failed to load snapshot")
	}
	if s == nil {
		return false, nil
	}
	q.restore(s)
	q.emit(EventRestored, q.currentTrack())
	return true, nil
}

// Snapshot returns the state to persist, or nil when the queue is empty.
func (q *Queue) Snapshot() *snapshot.Snapshot {
	if q.ring.size == 0 {
		return nil
	}

	s := &snapshot.Snapshot{
		Tracks:   make([]track.Track, 0, q.ring.size),
		Shuffled: q.shuffled,
		Repeat:   q.repeat,
		Playing:  q.playing,
	}
	pos := make(map[uint64]int, q.ring.size)
	for i, h := range q.ring.handles() {
		n := q.ring.nodes[h]
		s.Tracks = append(s.Tracks, n.track)
		pos[n.seq] = i
		if h == q.current {
			s.CurrentIndex = snapshot.Index(i)
		}
	}
	if q.shuffled {
		s.OriginalOrder = lo.Map(q.original, func(e entry, _ int) int {
			return pos[e.seq]
		})
	}
	return s
}

// Status returns "Title by Artist (mm:ss)" for the current track, or NothingPlaying.
func (q *Queue) Status() string {
	t, ok := q.Current()
	if !ok {
		return NothingPlaying
	}
	return t.String()
}

// Current returns the current track.
func (q *Queue) Current() (track.Track, bool) {
	if q.current == none {
		return track.Track{}, false
	}
	return q.ring.nodes[q.current].track, true
}

// CurrentIndex returns the zero-based position of the current track.
func (q *Queue) CurrentIndex() (int, bool) {
	if q.current == none {
		return 0, false
	}
	return slices.Index(q.ring.handles(), q.current), true
}

// Tracks returns a copy of the queued tracks from front to rear.
func (q *Queue) Tracks() []track.Track {
	return lo.Map(q.ring.entries(), func(e entry, _ int) track.Track {
		return e.track
	})
}

// Entries returns the numbered queue listing.
func (q *Queue) Entries() []Entry {
	return lo.Map(q.ring.handles(), func(h int, i int) Entry {
		return Entry{
			Position: i + 1,
			Track:    q.ring.nodes[h].track,
			Current:  h == q.current,
		}
	})
}

// TotalDuration returns the summed duration of all queued tracks in seconds.
func (q *Queue) TotalDuration() int {
	return lo.SumBy(q.ring.entries(), func(e entry) int {
		return e.track.Duration
	})
}

// Size returns the number of queued tracks.
func (q *Queue) Size() int {
	return q.ring.size
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.ring.size == 0
}

// State returns the queue state.
func (q *Queue) State() State {
	if q.ring.size == 0 {
		return StateEmpty
	}
	return StatePlaying
}

// Mode returns the shuffle/repeat tuple.
func (q *Queue) Mode() Mode {
	return Mode{Shuffle: q.shuffled, Repeat: q.repeat}
}

// Policy returns the advance policy.
func (q *Queue) Policy() Policy {
	return q.policy
}

// IsShuffled reports whether shuffle is on.
func (q *Queue) IsShuffled() bool {
	return q.shuffled
}

// IsRepeat reports whether repeat is on.
func (q *Queue) IsRepeat() bool {
	return q.repeat
}

// IsPlaying reports the play/pause flag.
func (q *Queue) IsPlaying() bool {
	return q.playing
}

// ShuffleStatus returns "ON" or "OFF".
func (q *Queue) ShuffleStatus() string {
	return onOff(q.shuffled)
}

// RepeatStatus returns "ON" or "OFF".
func (q *Queue) RepeatStatus() string {
	return onOff(q.repeat)
}

// PlayingStatus returns "Playing" or "Paused".
func (q *Queue) PlayingStatus() string {
	if q.playing {
		return "Playing"
	}
	return "Paused"
}

// insert links t in without persisting.
func (q *Queue) insert(t track.Track) {
	q.seq++
	e := entry{track: t, seq: q.seq}
	h := q.ring.push(e)
	if q.ring.size == 1 {
		q.current = h
	}
	q.original = append(q.original, e)
}

// detach removes h from the ring and from the original order.
func (q *Queue) detach(h int) {
	seq := q.ring.nodes[h].seq
	q.ring.remove(h)
	q.original = lo.Reject(q.original, func(e entry, _ int) bool {
		return e.seq == seq
	})
}

// rebuild relinks the ring in the given order, keeping the current entry current.
func (q *Queue) rebuild(order []entry) {
	var currentSeq uint64
	hasCurrent := q.current != none
	if hasCurrent {
		currentSeq = q.ring.nodes[q.current].seq
	}

	q.ring.reset()
	q.current = none
	for _, e := range order {
		h := q.ring.push(e)
		if hasCurrent && e.seq == currentSeq {
			q.current = h
		}
	}
}

func (q *Queue) restore(s *snapshot.Snapshot) {
	q.reset()

	entries := make([]entry, 0, len(s.Tracks))
	handles := make([]int, 0, len(s.Tracks))
	for _, t := range s.Tracks {
		q.seq++
		e := entry{track: t, seq: q.seq}
		entries = append(entries, e)
		handles = append(handles, q.ring.push(e))
	}

	if s.Shuffled && len(s.OriginalOrder) == len(entries) {
		q.original = lo.Map(s.OriginalOrder, func(i int, _ int) entry {
			return entries[i]
		})
	} else {
		q.original = entries
	}

	if s.CurrentIndex != nil && *s.CurrentIndex >= 0 && *s.CurrentIndex < len(handles) {
		q.current = handles[*s.CurrentIndex]
	}
	q.shuffled = s.Shuffled
	q.repeat = s.Repeat
	q.playing = s.Playing
}

func (q *Queue) reset() {
	q.ring.reset()
	q.current = none
	q.original = nil
	q.shuffled = false
	q.repeat = false
	q.playing = false
}

// moved reports a navigation to the new current track.
func (q *Queue) moved(evType EventType) (track.Track, error) {
	t := q.ring.nodes[q.current].track
	q.emit(evType, &t)
	return t, q.persist()
}

// emptied reports that advancing consumed the last track.
func (q *Queue) emptied() (track.Track, error) {
	q.current = none
	q.emit(EventQueueEmpty, nil)
	if err := q.persist(); err != nil {
		return track.Track{}, errors.Mark(err, ErrQueueEmpty)
	}
	return track.Track{}, ErrQueueEmpty
}

func (q *Queue) currentTrack() *track.Track {
	t, ok := q.Current()
	if !ok {
		return nil
	}
	return &t
}

func (q *Queue) persist() error {
	if q.store == nil {
		return nil
	}
	if err := q.store.Save(q.Snapshot()); err != nil {
		return errors.Mark(errors.Wrap(err, "failed to save snapshot"), ErrPersist)
	}
	return nil
}

func (q *Queue) emit(evType EventType, t *track.Track) {
	if q.onEvent == nil {
		return
	}
	q.onEvent(Event{
		Type:  evType,
		Track: t,
		State: q.State(),
		Mode:  q.Mode(),
		Size:  q.ring.size,
	})
}
