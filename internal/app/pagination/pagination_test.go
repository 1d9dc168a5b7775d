package pagination

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name          string
		page          int
		size          int
		expected      []int
		expectedTotal int
	}{
		{name: "first page", page: 1, size: 3, expected: []int{1, 2, 3}, expectedTotal: 3},
		{name: "last partial page", page: 3, size: 3, expected: []int{7}, expectedTotal: 3},
		{name: "page zero", page: 0, size: 3, expected: []int{}, expectedTotal: 3},
		{name: "page past end", page: 4, size: 3, expected: []int{}, expectedTotal: 3},
		{name: "single page", page: 1, size: 10, expected: items, expectedTotal: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, total, err := Page(items, tt.page, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
			assert.Equal(t, tt.expectedTotal, total)
		})
	}
}

func TestPage_Empty(t *testing.T) {
	result, total, err := Page([]string{}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Equal(t, 1, total)
}

func TestPage_InvalidSize(t *testing.T) {
	_, _, err := Page([]int{1}, 1, 0)
	assert.True(t, errors.Is(err, ErrInvalidPageSize))

	_, _, err = Page([]int{1}, 1, -1)
	assert.True(t, errors.Is(err, ErrInvalidPageSize))
	assert.Equal(t, 1, TotalPages(5, 0))
	assert.Equal(t, 3, TotalPages(7, 3))
}

// TestPropertyPagesCoverItems verifies that concatenating every page yields the input.
func TestPropertyPagesCoverItems(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		items := rapid.SliceOf(rapid.Int()).Draw(t, "items")
		size := rapid.IntRange(1, 15).Draw(t, "size")

		_, total, err := Page(items, 1, size)
		if err != nil {
			t.Fatalf("page: %v", err)
		}

		var all []int
		for page := 1; page <= total; page++ {
			chunk, _, _ := Page(items, page, size)
			if len(chunk) > size {
				t.Fatalf("page %d has %d items, size %d", page, len(chunk), size)
			}
			all = append(all, chunk...)
		}
		if len(all) != len(items) {
			t.Fatalf("pages hold %d items, want %d", len(all), len(items))
		}
		for i := range items {
			if all[i] != items[i] {
				t.Fatalf("item %d differs", i)
			}
		}
	})
}
