// Package main provides the playq command-line player.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/osa030/playq/internal/app/filter"
	"github.com/osa030/playq/internal/app/playback"
	"github.com/osa030/playq/internal/app/session"
	"github.com/osa030/playq/internal/domain/track"
	"github.com/osa030/playq/internal/infra/config"
	"github.com/osa030/playq/internal/infra/logger"
	"github.com/osa030/playq/internal/infra/snapshotstore"
)

var (
	app        = kingpin.New("playq", "Personal music library player")
	configPath = app.Flag("config", "Path to config file").Default("config.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr)").String()

	// status command
	statusCmd = app.Command("status", "Show the current track and modes").Default()

	// list command
	listCmd  = app.Command("list", "List the queue")
	listPage = listCmd.Flag("page", "Page number").Short('p').Default("1").Int()

	// library command
	libraryCmd  = app.Command("library", "List the track library")
	libraryPage = libraryCmd.Flag("page", "Page number").Short('p').Default("1").Int()

	// playlists command
	playlistsCmd = app.Command("playlists", "List playlists in the library")

	// load command
	loadCmd      = app.Command("load", "Queue the library or a playlist")
	loadPlaylist = loadCmd.Flag("playlist", "Playlist name").String()
	loadNoSort   = loadCmd.Flag("no-sort", "Keep library order").Bool()

	// add command
	addCmd      = app.Command("add", "Queue a track entered by hand")
	addTitle    = addCmd.Arg("title", "Track title").Required().String()
	addArtist   = addCmd.Arg("artist", "Main artist").Required().String()
	addAlbum    = addCmd.Arg("album", "Album name").Required().String()
	addDuration = addCmd.Arg("duration", "Duration as mm:ss or seconds").Required().String()
	addFeat     = addCmd.Flag("feat", "Featured artist").String()
	addSave     = addCmd.Flag("save", "Also add the track to the library").Bool()

	nextCmd    = app.Command("next", "Advance to the next track")
	prevCmd    = app.Command("prev", "Go back to the previous track")
	removeCmd  = app.Command("remove", "Remove the current track")
	shuffleCmd = app.Command("shuffle", "Toggle shuffle")
	repeatCmd  = app.Command("repeat", "Toggle repeat")
	playCmd    = app.Command("play", "Toggle play/pause")
	clearCmd   = app.Command("clear", "Empty the queue and forget the session")

	// list-filters command
	listFiltersCmd = app.Command("list-filters", "List available filters and exit")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Handle list-filters command
	if command == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	loggerConfig := logger.Config{
		Output:     "stderr",
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}
	if cfg.Log.File != "" {
		loggerConfig.Output = "file"
	}
	// Override with command-line flags if specified
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = "file"
		loggerConfig.File = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	zlog.Debug().Msgf("Loaded config from %s", *configPath)

	if err := run(cfg, command); err != nil {
		fmt.Printf("Error: %v\n", err)
		_ = logger.Close()
		os.Exit(1)
	}
	_ = logger.Close()
}

// run executes one command. Using a separate function ensures the snapshot store is
// closed even when returning with an error.
func run(cfg *config.Config, command string) error {
	store, err := snapshotstore.New(cfg.Snapshot.Backend, cfg.Snapshot.Settings)
	if err != nil {
		return errors.Wrap(err, "failed to open snapshot store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			zlog.Error().Msgf("Failed to close snapshot store: %v", err)
		}
	}()

	sessionMgr, err := session.NewManager(cfg, afero.NewOsFs(), store)
	if err != nil {
		return errors.Wrap(err, "failed to create session manager")
	}

	switch command {
	case statusCmd.FullCommand():
		printStatus(sessionMgr.GetStatus())
		return nil

	case listCmd.FullCommand():
		return printQueue(sessionMgr, *listPage)

	case libraryCmd.FullCommand():
		return printLibrary(sessionMgr, *libraryPage)

	case playlistsCmd.FullCommand():
		printPlaylists(sessionMgr.Playlists())
		return nil

	case loadCmd.FullCommand():
		result, err := sessionMgr.LoadTracks(*loadPlaylist, !*loadNoSort)
		if result != nil {
			printLoadResult(result)
		}
		return persisted(err)

	case addCmd.FullCommand():
		t, err := track.New(*addTitle, *addArtist, *addAlbum, *addDuration, *addFeat)
		if err != nil {
			return err
		}
		result, err := sessionMgr.AddTrack(t, *addSave)
		if err := persisted(err); err != nil {
			return err
		}
		if !result.Accepted {
			fmt.Printf("Track not added: %s\n", result.Code)
			return nil
		}
		fmt.Printf("Added: %s\n", t)
		return nil

	case nextCmd.FullCommand():
		return moved(sessionMgr, sessionMgr.Next)

	case prevCmd.FullCommand():
		return moved(sessionMgr, sessionMgr.Prev)

	case removeCmd.FullCommand():
		t, err := sessionMgr.RemoveCurrent()
		if msg, ok := queueOutcome(err, true); ok {
			fmt.Println(msg)
			return nil
		}
		if err := persisted(err); err != nil {
			return err
		}
		fmt.Printf("Removed: %s\n", t)
		printStatus(sessionMgr.GetStatus())
		return nil

	case shuffleCmd.FullCommand():
		on, err := sessionMgr.ToggleShuffle()
		fmt.Printf("Shuffle: %s\n", onOff(on))
		return persisted(err)

	case repeatCmd.FullCommand():
		on, err := sessionMgr.ToggleRepeat()
		fmt.Printf("Repeat: %s\n", onOff(on))
		return persisted(err)

	case playCmd.FullCommand():
		_, err := sessionMgr.TogglePlaying()
		fmt.Println(sessionMgr.GetStatus().Playing)
		return persisted(err)

	case clearCmd.FullCommand():
		if err := persisted(sessionMgr.Clear()); err != nil {
			return err
		}
		fmt.Println("Queue cleared.")
		return nil
	}

	return errors.Newf("unknown command: %s", command)
}

// moved runs next or prev and prints the outcome.
func moved(sessionMgr *session.Manager, step func() (track.Track, error)) error {
	wasEmpty := sessionMgr.GetStatus().Size == 0

	_, err := step()
	if errors.Is(err, playback.ErrPersist) {
		zlog.Warn().Msgf("Session could not be saved: %v", err)
	}
	if msg, ok := queueOutcome(err, wasEmpty); ok {
		fmt.Println(msg)
		return nil
	}
	if err := persisted(err); err != nil {
		return err
	}
	fmt.Printf("Now playing: %s\n", sessionMgr.GetStatus().Current)
	return nil
}

// persisted downgrades snapshot write failures to a warning; the change itself stands.
func persisted(err error) error {
	if err != nil && errors.Is(err, playback.ErrPersist) {
		zlog.Warn().Msgf("Session could not be saved: %v", err)
		return nil
	}
	return err
}

// printFilters prints available filters.
func printFilters() {
	registered := filter.GetRegistered()
	names := make([]string, 0, len(registered))
	for name := range registered {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Available Filters:")
	for _, name := range names {
		f := registered[name]()
		codes := strings.Join(f.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s]\n", f.Name(), f.Description(), codes)
	}
}
