package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osa030/playq/internal/domain/track"
)

func TestDuplicateTrackFilter_SameTrack(t *testing.T) {
	queued := []track.Track{
		{ID: "track123", Title: "Bohemian Rhapsody", Artist: "Queen"},
	}

	filter := NewDuplicateTrackFilter()

	// Same identity should be rejected even with another title
	result := filter.Check(track.Track{ID: "track123", Title: "Bohemian Rhapsody (Live Aid)", Artist: "Queen"}, queued)
	assert.False(t, result.Accepted)
	assert.Equal(t, "duplicate_track", result.Code)

	// Same title and artist ignoring case, no identity
	result = filter.Check(track.Track{Title: "bohemian rhapsody", Artist: "QUEEN"}, queued)
	assert.False(t, result.Accepted)
}

func TestDuplicateTrackFilter_RemasterDetection(t *testing.T) {
	tests := []struct {
		name           string
		queuedTrack    track.Track
		requestedTrack track.Track
		shouldReject   bool
		description    string
	}{
		{
			name:           "Standard remaster pattern",
			queuedTrack:    track.Track{ID: "original123", Title: "Bohemian Rhapsody", Artist: "Queen"},
			requestedTrack: track.Track{ID: "remaster456", Title: "Bohemian Rhapsody - 2011 Remaster", Artist: "Queen"},
			shouldReject:   true,
			description:    "Should detect '- 2011 Remaster' as duplicate",
		},
		{
			name:           "Remastered in parentheses",
			queuedTrack:    track.Track{ID: "original123", Title: "Yesterday", Artist: "The Beatles"},
			requestedTrack: track.Track{ID: "remaster456", Title: "Yesterday (Remastered 2023)", Artist: "The Beatles"},
			shouldReject:   true,
			description:    "Should detect '(Remastered 2023)' as duplicate",
		},
		{
			name:           "Cover song - different artist",
			queuedTrack:    track.Track{ID: "original123", Title: "Yesterday", Artist: "The Beatles"},
			requestedTrack: track.Track{ID: "cover789", Title: "Yesterday", Artist: "Paul McCartney"},
			shouldReject:   false,
			description:    "Should allow cover by different artist",
		},
		{
			name:           "Different songs - similar names",
			queuedTrack:    track.Track{ID: "track1", Title: "Love", Artist: "John Lennon"},
			requestedTrack: track.Track{ID: "track2", Title: "Love Song", Artist: "John Lennon"},
			shouldReject:   false,
			description:    "Should allow different songs",
		},
		{
			name:           "Radio Edit version",
			queuedTrack:    track.Track{ID: "album123", Title: "Stairway to Heaven", Artist: "Led Zeppelin"},
			requestedTrack: track.Track{ID: "radio456", Title: "Stairway to Heaven (Radio Edit)", Artist: "Led Zeppelin"},
			shouldReject:   true,
			description:    "Should detect radio edit as duplicate",
		},
		{
			name:           "Live version",
			queuedTrack:    track.Track{ID: "studio123", Title: "Hotel California", Artist: "Eagles"},
			requestedTrack: track.Track{ID: "live456", Title: "Hotel California - Live", Artist: "Eagles"},
			shouldReject:   true,
			description:    "Should detect live version as duplicate",
		},
		{
			name:           "Multiple remasters in queue",
			queuedTrack:    track.Track{ID: "remaster2011", Title: "Let It Be - 2011 Remaster", Artist: "The Beatles"},
			requestedTrack: track.Track{ID: "remaster2023", Title: "Let It Be (Remastered 2023)", Artist: "The Beatles"},
			shouldReject:   true,
			description:    "Should detect different remasters as duplicate",
		},
		{
			name:           "Remix version - should be allowed",
			queuedTrack:    track.Track{ID: "original123", Title: "Le Freak", Artist: "CHIC"},
			requestedTrack: track.Track{ID: "remix456", Title: "Le Freak (Oliver Heldens Remix)", Artist: "CHIC"},
			shouldReject:   false,
			description:    "Should allow remix version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := NewDuplicateTrackFilter()
			result := filter.Check(tt.requestedTrack, []track.Track{tt.queuedTrack})

			if tt.shouldReject {
				assert.False(t, result.Accepted, tt.description)
				assert.Equal(t, "duplicate_track", result.Code)
			} else {
				assert.True(t, result.Accepted, tt.description)
			}
		})
	}
}

func TestDuplicateTrackFilter_EmptyQueue(t *testing.T) {
	filter := NewDuplicateTrackFilter()

	result := filter.Check(track.Track{ID: "track123", Title: "Any Song", Artist: "Any Artist"}, nil)

	assert.True(t, result.Accepted, "Should accept any track when queue is empty")
}

func TestDuplicateTrackFilter_AppliesTo(t *testing.T) {
	filter := NewDuplicateTrackFilter()

	assert.False(t, filter.AppliesTo(SourceManual), "Should not apply to hand-entered tracks")
	assert.True(t, filter.AppliesTo(SourceLibrary), "Should apply to library loads")
	assert.True(t, filter.AppliesTo(SourcePlaylist), "Should apply to playlist loads")
}

func TestNormalizeTrackName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Bohemian Rhapsody", "bohemian rhapsody"},
		{"Bohemian Rhapsody - 2011 Remaster", "bohemian rhapsody"},
		{"Yesterday (Remastered 2023)", "yesterday"},
		{"Hotel California [Remastered]", "hotel california"},
		{"Stairway to Heaven (Radio Edit)", "stairway to heaven"},
		{"Imagine - Live", "imagine"},
		{"Let It Be (Single Version)", "let it be"},
		{"Hey Jude - Remastered Version", "hey jude"},
		{"Come Together (2019 Mix)", "come together (2019 mix)"},
		{"Stayin' Alive", "stayin' alive"},
		{"   Extra   Spaces   ", "extra spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := normalizeTrackName(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestIsRemaster(t *testing.T) {
	tests := []struct {
		name     string
		track1   track.Track
		track2   track.Track
		expected bool
	}{
		{
			name:     "Same artist",
			track1:   track.Track{Title: "Love of My Life", Artist: "Queen"},
			track2:   track.Track{Title: "Love of My Life - Remastered", Artist: "Queen"},
			expected: true,
		},
		{
			name:     "Same artist - case insensitive",
			track1:   track.Track{Title: "Love of My Life", Artist: "Queen"},
			track2:   track.Track{Title: "Love of My Life", Artist: "queen"},
			expected: true,
		},
		{
			name:     "Different artists",
			track1:   track.Track{Title: "Yesterday", Artist: "The Beatles"},
			track2:   track.Track{Title: "Yesterday", Artist: "Paul McCartney"},
			expected: false,
		},
		{
			name:     "Empty artist",
			track1:   track.Track{Title: "Intro", Artist: ""},
			track2:   track.Track{Title: "Intro", Artist: ""},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isRemaster(tt.track1, tt.track2)
			assert.Equal(t, tt.expected, result)
		})
	}
}
