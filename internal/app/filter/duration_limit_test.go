package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/playq/internal/domain/track"
)

func TestDurationLimitFilter_Check(t *testing.T) {
	tests := []struct {
		name         string
		minMinutes   float64
		maxMinutes   float64
		durationSecs int
		shouldReject bool
		description  string
	}{
		{
			name:         "Within limits",
			minMinutes:   2.0,
			maxMinutes:   5.0,
			durationSecs: 180,
			shouldReject: false,
			description:  "Should accept track within min/max limits",
		},
		{
			name:         "Too short",
			minMinutes:   3.0,
			maxMinutes:   0,
			durationSecs: 120,
			shouldReject: true,
			description:  "Should reject track shorter than min",
		},
		{
			name:         "Too long",
			minMinutes:   1.0,
			maxMinutes:   5.0,
			durationSecs: 360,
			shouldReject: true,
			description:  "Should reject track longer than max",
		},
		{
			name:         "Exact min",
			minMinutes:   3.0,
			maxMinutes:   0,
			durationSecs: 180,
			shouldReject: false,
			description:  "Should accept track exactly at min",
		},
		{
			name:         "Exact max",
			minMinutes:   1.0,
			maxMinutes:   5.0,
			durationSecs: 300,
			shouldReject: false,
			description:  "Should accept track exactly at max",
		},
		{
			name:         "Fractional minimum",
			minMinutes:   0.5,
			maxMinutes:   0,
			durationSecs: 29,
			shouldReject: true,
			description:  "Should reject track below half a minute",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewDurationLimitFilter()
			// Manually configuring for test by setting config directly
			f.config = &DurationLimitConfig{
				MinMinutes: tt.minMinutes,
				MaxMinutes: tt.maxMinutes,
			}

			result := f.Check(track.Track{Duration: tt.durationSecs}, nil)

			if tt.shouldReject {
				assert.False(t, result.Accepted, tt.description)
				assert.Equal(t, "duration_limit_exceeded", result.Code)
			} else {
				assert.True(t, result.Accepted, tt.description)
			}
		})
	}
}

func TestDurationLimitFilter_Unconfigured(t *testing.T) {
	f := NewDurationLimitFilter()
	assert.True(t, f.Check(track.Track{Duration: 0}, nil).Accepted)
}

func TestDurationLimitFilter_ValidateConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		wantErr  bool
	}{
		{
			name:     "Valid config",
			settings: map[string]any{"min_minutes": 2.5, "max_minutes": 5.0},
			wantErr:  false,
		},
		{
			name:     "Valid integers",
			settings: map[string]any{"min_minutes": 2, "max_minutes": 5},
			wantErr:  false,
		},
		{
			name:     "Invalid min > max",
			settings: map[string]any{"min_minutes": 10.0, "max_minutes": 5.0},
			wantErr:  true,
		},
		{
			name:     "Invalid negative min",
			settings: map[string]any{"min_minutes": -1.0},
			wantErr:  true,
		},
		{
			name:     "Zero max (allowed, means no limit)",
			settings: map[string]any{"max_minutes": 0.0},
			wantErr:  false,
		},
		{
			name:     "Invalid negative max",
			settings: map[string]any{"max_minutes": -1.0},
			wantErr:  true,
		},
		{
			name:     "Invalid type",
			settings: map[string]any{"min_minutes": []string{"x"}},
			wantErr:  true,
		},
		{
			name:     "Empty settings",
			settings: map[string]any{},
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewDurationLimitFilter()
			err := f.ValidateConfig(tt.settings)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDurationLimitFilter_ValidateConfigApplies(t *testing.T) {
	f := NewDurationLimitFilter()
	require.NoError(t, f.ValidateConfig(map[string]any{"max_minutes": 4}))

	assert.True(t, f.Check(track.Track{Duration: 240}, nil).Accepted)
	assert.False(t, f.Check(track.Track{Duration: 241}, nil).Accepted)
}
