package main

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/osa030/playq/internal/app/playback"
	"github.com/osa030/playq/internal/app/session"
	"github.com/osa030/playq/internal/domain/playlist"
	"github.com/osa030/playq/internal/domain/track"
)

// printStatus prints the current track and modes.
func printStatus(s *session.Status) {
	fmt.Println("\n=== NOW PLAYING ===")
	fmt.Println(s.Current)
	if s.CurrentIndex > 0 {
		fmt.Printf("Position: %d of %d\n", s.CurrentIndex, s.Size)
	}
	fmt.Printf("State: %s | Shuffle: %s | Repeat: %s\n", s.Playing, s.Shuffle, s.Repeat)
	fmt.Printf("Queue: %d tracks (%s)\n", s.Size, track.HumanDuration(s.TotalDuration))
}

// printQueue prints one page of the queue with the current track marked.
func printQueue(sessionMgr *session.Manager, page int) error {
	entries, total, err := sessionMgr.QueuePage(page)
	if err != nil {
		return err
	}

	s := sessionMgr.GetStatus()
	if s.State == playback.StateEmpty {
		fmt.Println("Queue is empty.")
		return nil
	}

	fmt.Printf("\n=== QUEUE (page %d/%d) ===\n", page, total)
	for _, e := range entries {
		marker := ""
		if e.Current {
			marker = " ▶"
		}
		fmt.Printf("[%d] %s%s\n", e.Position, formatListing(e.Track), marker)
	}
	fmt.Printf("\nTotal: %d tracks (%s)\n", s.Size, track.HumanDuration(s.TotalDuration))
	return nil
}

// printLibrary prints one page of the ordered library.
func printLibrary(sessionMgr *session.Manager, page int) error {
	tracks, total, err := sessionMgr.LibraryPage(page)
	if err != nil {
		return err
	}
	if len(tracks) == 0 && page == 1 {
		fmt.Println("Library is empty.")
		return nil
	}

	fmt.Printf("\n=== LIBRARY (page %d/%d) ===\n", page, total)
	for i, t := range tracks {
		fmt.Printf("[%d] %s\n", i+1, formatListing(t))
	}
	fmt.Printf("\nTotal duration: %s\n", track.HumanDuration(sessionMgr.LibraryDuration()))
	return nil
}

// printPlaylists prints a table of playlists with their sizes.
func printPlaylists(playlists []playlist.Playlist) {
	if len(playlists) == 0 {
		fmt.Println("No playlists.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Tracks", "Duration"})
	for _, p := range playlists {
		t.AppendRow(table.Row{p.Name, len(p.Tracks), track.HumanDuration(int(p.TotalDuration()))})
	}
	t.Render()
}

func printLoadResult(r *session.LoadResult) {
	fmt.Printf("Queued %d tracks from %s.\n", r.Added, r.Source)
	for _, rej := range r.Rejected {
		fmt.Printf("  skipped %s by %s [%s: %s]\n", rej.Track.Title, rej.Track.Artist, rej.Filter, rej.Code)
	}
}

// formatListing formats a track as "Title (ft. X) by Artist - Album (mm:ss)".
func formatListing(t track.Track) string {
	var b strings.Builder
	b.WriteString(t.Title)
	if t.FeaturedArtist != "" {
		fmt.Fprintf(&b, " (ft. %s)", t.FeaturedArtist)
	}
	fmt.Fprintf(&b, " by %s - %s (%s)", t.Artist, t.Album, track.FormatDuration(t.Duration))
	return b.String()
}

// queueOutcome maps the queue's empty, boundary and policy results to the message
// shown for them. It reports false for any other error.
func queueOutcome(err error, wasEmpty bool) (string, bool) {
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, playback.ErrQueueEmpty):
		if wasEmpty {
			return "Queue is empty.", true
		}
		return "Queue is now empty.", true
	case errors.Is(err, playback.ErrNoTrack):
		return playback.NothingPlaying, true
	case errors.Is(err, playback.ErrNoNext),
		errors.Is(err, playback.ErrNoPrevious),
		errors.Is(err, playback.ErrPrevUnsupported):
		return capitalize(err.Error()) + ".", true
	}
	return "", false
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
