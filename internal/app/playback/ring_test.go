package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osa030/playq/internal/domain/track"
)

// fataler is satisfied by *testing.T and *rapid.T.
type fataler interface {
	Helper()
	Fatalf(format string, args ...any)
}

// checkRing verifies ring closure, link symmetry and size in both directions.
func checkRing(t fataler, r *ring) {
	t.Helper()

	if r.size == 0 {
		if r.front != none || r.rear != none {
			t.Fatalf("empty ring has front=%d rear=%d", r.front, r.rear)
		}
		return
	}
	if r.nodes[r.front].prev != r.rear || r.nodes[r.rear].next != r.front {
		t.Fatalf("ring not closed: front=%d rear=%d front.prev=%d rear.next=%d",
			r.front, r.rear, r.nodes[r.front].prev, r.nodes[r.rear].next)
	}

	seen := make(map[int]bool, r.size)
	h := r.front
	for i := 0; i < r.size; i++ {
		if seen[h] {
			t.Fatalf("handle %d visited twice walking next", h)
		}
		seen[h] = true
		if r.nodes[r.nodes[h].next].prev != h {
			t.Fatalf("next/prev not inverse at handle %d", h)
		}
		h = r.nodes[h].next
	}
	if h != r.front {
		t.Fatalf("walking next %d steps did not return to front", r.size)
	}

	h = r.rear
	for i := 0; i < r.size; i++ {
		h = r.nodes[h].prev
	}
	if h != r.rear {
		t.Fatalf("walking prev %d steps did not return to rear", r.size)
	}
}

// checkQueue verifies the engine invariants on top of the ring ones.
func checkQueue(t fataler, q *Queue) {
	t.Helper()

	checkRing(t, &q.ring)
	if q.ring.size == 0 && q.current != none {
		t.Fatalf("empty queue has current=%d", q.current)
	}
	if q.current != none && !containsHandle(q.ring.handles(), q.current) {
		t.Fatalf("current handle %d is not linked", q.current)
	}
	if len(q.original) != q.ring.size {
		t.Fatalf("original order has %d entries, ring has %d", len(q.original), q.ring.size)
	}
	if !q.shuffled {
		for i, e := range q.ring.entries() {
			if q.original[i].seq != e.seq {
				t.Fatalf("unshuffled ring differs from insertion order at %d", i)
			}
		}
	}
}

func containsHandle(hs []int, h int) bool {
	for _, x := range hs {
		if x == h {
			return true
		}
	}
	return false
}

func TestRing_PushAndRemove(t *testing.T) {
	r := newRing()
	checkRing(t, &r)

	a := r.push(entry{track: track.Track{Title: "A"}, seq: 1})
	checkRing(t, &r)
	assert.Equal(t, a, r.front)
	assert.Equal(t, a, r.rear)
	assert.Equal(t, a, r.nodes[a].next)

	b := r.push(entry{track: track.Track{Title: "B"}, seq: 2})
	c := r.push(entry{track: track.Track{Title: "C"}, seq: 3})
	checkRing(t, &r)
	assert.Equal(t, []int{a, b, c}, r.handles())
	assert.Equal(t, b, r.at(1))

	r.remove(a)
	checkRing(t, &r)
	assert.Equal(t, b, r.front)

	r.remove(c)
	checkRing(t, &r)
	assert.Equal(t, b, r.rear)

	r.remove(b)
	checkRing(t, &r)
	assert.Equal(t, 0, r.size)
}

func TestRing_RecyclesSlots(t *testing.T) {
	r := newRing()
	a := r.push(entry{seq: 1})
	r.push(entry{seq: 2})
	r.remove(a)

	d := r.push(entry{seq: 3})
	assert.Equal(t, a, d, "freed slot should be reused")
	assert.Len(t, r.nodes, 2)
	checkRing(t, &r)

	var seqs []uint64
	for _, e := range r.entries() {
		seqs = append(seqs, e.seq)
	}
	assert.Equal(t, []uint64{2, 3}, seqs)
}

func TestRing_Reset(t *testing.T) {
	r := newRing()
	r.push(entry{seq: 1})
	r.push(entry{seq: 2})
	r.reset()

	checkRing(t, &r)
	assert.Empty(t, r.handles())
	h := r.push(entry{seq: 3})
	assert.Equal(t, 0, h)
}
