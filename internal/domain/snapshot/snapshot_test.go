package snapshot

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/playq/internal/domain/track"
)

func TestMarshal_NilIsNull(t *testing.T) {
	data, err := Marshal(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	s, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestMarshal_RoundTrip(t *testing.T) {
	in := &Snapshot{
		Tracks: []track.Track{
			{ID: "1", Title: "A", Artist: "X", Album: "One", Duration: 180},
			{ID: "2", Title: "B", Artist: "Y", FeaturedArtist: "Z", Album: "Two", Duration: 120},
		},
		CurrentIndex:  Index(1),
		Shuffled:      true,
		Repeat:        true,
		Playing:       true,
		OriginalOrder: []int{1, 0},
	}

	data, err := Marshal(in)
	require.NoError(t, err)

	out, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestUnmarshal_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "not json", data: "{tracks:"},
		{name: "array", data: "[]"},
		{name: "missing tracks", data: `{"current_index": 0, "shuffled": false, "repeat": false}`},
		{name: "missing current index", data: `{"tracks": [], "shuffled": false, "repeat": false}`},
		{name: "missing shuffled", data: `{"tracks": [], "current_index": null, "repeat": false}`},
		{name: "missing repeat", data: `{"tracks": [], "current_index": null, "shuffled": false}`},
		{name: "null tracks", data: `{"tracks": null, "current_index": null, "shuffled": false, "repeat": false}`},
		{name: "wrong type", data: `{"tracks": "abc", "current_index": null, "shuffled": false, "repeat": false}`},
		{
			name: "negative duration",
			data: `{"tracks": [{"title": "A", "duration": -3}], "current_index": 0, "shuffled": false, "repeat": false}`,
		},
		{
			name: "untitled track",
			data: `{"tracks": [{"title": "", "duration": 3}], "current_index": 0, "shuffled": false, "repeat": false}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Unmarshal([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorrupt), "expected ErrCorrupt, got %v", err)
			assert.Nil(t, s)
		})
	}
}

func TestUnmarshal_OptionalFields(t *testing.T) {
	data := `{"tracks": [{"title": "A", "artist": "X", "duration": 3}], "current_index": null, "shuffled": false, "repeat": true}`

	s, err := Unmarshal([]byte(data))
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Nil(t, s.CurrentIndex)
	assert.False(t, s.Playing)
	assert.True(t, s.Repeat)
	assert.Nil(t, s.OriginalOrder)
}

func TestUnmarshal_DropsInvalidOriginalOrder(t *testing.T) {
	tests := []struct {
		name  string
		order string
	}{
		{name: "wrong length", order: "[0]"},
		{name: "out of range", order: "[0, 2]"},
		{name: "repeated index", order: "[1, 1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := `{"tracks": [{"title": "A", "duration": 1}, {"title": "B", "duration": 2}],
				"current_index": 0, "shuffled": true, "repeat": false, "original_order": ` + tt.order + `}`

			s, err := Unmarshal([]byte(data))
			require.NoError(t, err)
			assert.Nil(t, s.OriginalOrder)
			assert.Len(t, s.Tracks, 2)
		})
	}
}
