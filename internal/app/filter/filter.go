// Package filter provides the filter chain applied to tracks before they are queued.
package filter

import (
	"github.com/osa030/playq/internal/domain/track"
)

// Source identifies where an incoming track comes from.
type Source int

const (
	SourceManual   Source = iota // Entered by hand with "add"
	SourceLibrary                // Bulk load of the whole library
	SourcePlaylist               // Bulk load of a named playlist
)

// String returns the string representation of the source.
func (s Source) String() string {
	switch s {
	case SourceManual:
		return "manual"
	case SourceLibrary:
		return "library"
	case SourcePlaylist:
		return "playlist"
	default:
		return "unknown"
	}
}

// Result represents the result of a filter check.
type Result struct {
	Accepted bool
	Code     string // e.g., "duplicate_track", "duration_limit_exceeded"
}

// Accept returns an accepted result.
func Accept() Result {
	return Result{Accepted: true}
}

// Reject returns a rejected result with the given code.
func Reject(code string) Result {
	return Result{Accepted: false, Code: code}
}

// Filter is the interface for import filters.
type Filter interface {
	// Name returns the filter name (used in config).
	Name() string
	// Description returns a human-readable description.
	Description() string
	// ReturnCodes returns the codes this filter can return.
	ReturnCodes() []string
	// ValidateConfig validates and applies the filter configuration.
	ValidateConfig(settings map[string]any) error
	// AppliesTo returns true if this filter should be applied to tracks from the given source.
	AppliesTo(source Source) bool
	// Check checks t against the tracks already queued.
	Check(t track.Track, queued []track.Track) Result
}

// registry holds registered filter factories.
var registry = make(map[string]func() Filter)

// Register registers a filter factory.
func Register(name string, factory func() Filter) {
	registry[name] = factory
}

// GetRegistered returns all registered filter factories.
func GetRegistered() map[string]func() Filter {
	return registry
}
