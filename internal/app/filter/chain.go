package filter

import (
	"github.com/osa030/playq/internal/domain/track"
)

// Rejection records a track refused by the chain.
type Rejection struct {
	Track  track.Track
	Filter string
	Code   string
}

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain() *Chain {
	return &Chain{
		filters: make([]Filter, 0),
	}
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Execute runs all filters in sequence.
// Returns immediately if any filter rejects the track.
// Filters are only applied if they declare they apply to the given source.
func (c *Chain) Execute(t track.Track, queued []track.Track, source Source) Result {
	_, result := c.execute(t, queued, source)
	return result
}

// Apply runs the chain over a batch. Accepted tracks count as queued for the rest of
// the batch, so a batch cannot smuggle in its own duplicates.
func (c *Chain) Apply(ts []track.Track, queued []track.Track, source Source) ([]track.Track, []Rejection) {
	accepted := make([]track.Track, 0, len(ts))
	var rejected []Rejection

	seen := append([]track.Track(nil), queued...)
	for _, t := range ts {
		name, result := c.execute(t, seen, source)
		if !result.Accepted {
			rejected = append(rejected, Rejection{Track: t, Filter: name, Code: result.Code})
			continue
		}
		accepted = append(accepted, t)
		seen = append(seen, t)
	}
	return accepted, rejected
}

func (c *Chain) execute(t track.Track, queued []track.Track, source Source) (string, Result) {
	for _, f := range c.filters {
		// Skip filters that don't apply to this source
		if !f.AppliesTo(source) {
			continue
		}

		result := f.Check(t, queued)
		if !result.Accepted {
			return f.Name(), result
		}
	}
	return "", Accept()
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}
