// Package pagination splits listings into fixed-size, 1-based pages.
package pagination

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// DefaultPageSize is the page size used by listings unless configured otherwise.
const DefaultPageSize = 10

// ErrInvalidPageSize is returned when the page size is less than one.
var ErrInvalidPageSize = errors.New("page size must be at least 1")

// TotalPages returns the number of pages for n items. An empty listing has one page.
func TotalPages(n, size int) int {
	if n == 0 || size < 1 {
		return 1
	}
	return (n-1)/size + 1
}

// Page returns the items of a 1-based page and the total page count.
// A page outside 1..total yields an empty slice.
func Page[T any](items []T, page, size int) ([]T, int, error) {
	if size < 1 {
		return nil, 0, errors.Wrapf(ErrInvalidPageSize, "got %d", size)
	}

	total := TotalPages(len(items), size)
	if page < 1 || page > total || len(items) == 0 {
		return []T{}, total, nil
	}
	return lo.Chunk(items, size)[page-1], total, nil
}
