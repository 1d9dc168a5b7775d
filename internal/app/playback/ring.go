package playback

import "github.com/osa030/playq/internal/domain/track"

// none marks an absent handle.
const none = -1

// entry is a queued track plus the insertion ordinal that identifies it
// across shuffles, even when the same track is queued twice.
type entry struct {
	track track.Track
	seq   uint64
}

// node is one slot of the arena. next and prev are handles into ring.nodes.
type node struct {
	entry
	next int
	prev int
}

// ring is a circular doubly-linked list stored in an arena of nodes.
// Removed slots go on a free list and are reused by later pushes.
type ring struct {
	nodes []node
	free  []int
	front int
	rear  int
	size  int
}

func newRing() ring {
	return ring{front: none, rear: none}
}

// push links e in as the new rear and returns its handle.
func (r *ring) push(e entry) int {
	h := r.alloc(e)
	if r.size == 0 {
		r.nodes[h].next = h
		r.nodes[h].prev = h
		r.front = h
	} else {
		r.nodes[h].next = r.front
		r.nodes[h].prev = r.rear
		r.nodes[r.rear].next = h
		r.nodes[r.front].prev = h
	}
	r.rear = h
	r.size++
	return h
}

// remove unlinks h and recycles its slot.
func (r *ring) remove(h int) {
	n := r.nodes[h]
	if r.size == 1 {
		r.front = none
		r.rear = none
	} else {
		r.nodes[n.prev].next = n.next
		r.nodes[n.next].prev = n.prev
		if h == r.front {
			r.front = n.next
		}
		if h == r.rear {
			r.rear = n.prev
		}
	}
	r.size--
	r.nodes[h] = node{next: none, prev: none}
	r.free = append(r.free, h)
}

func (r *ring) alloc(e entry) int {
	n := node{entry: e, next: none, prev: none}
	if len(r.free) > 0 {
		h := r.free[len(r.free)-1]
		r.free = r.free[:len(r.free)-1]
		r.nodes[h] = n
		return h
	}
	r.nodes = append(r.nodes, n)
	return len(r.nodes) - 1
}

// reset drops every node but keeps the backing storage.
func (r *ring) reset() {
	r.nodes = r.nodes[:0]
	r.free = r.free[:0]
	r.front = none
	r.rear = none
	r.size = 0
}

// handles returns node handles from front to rear.
func (r *ring) handles() []int {
	hs := make([]int, 0, r.size)
	h := r.front
	for range r.size {
		hs = append(hs, h)
		h = r.nodes[h].next
	}
	return hs
}

// entries returns queued entries from front to rear.
func (r *ring) entries() []entry {
	es := make([]entry, 0, r.size)
	for _, h := range r.handles() {
		es = append(es, r.nodes[h].entry)
	}
	return es
}

// at returns the handle i steps after front.
func (r *ring) at(i int) int {
	h := r.front
	for range i {
		h = r.nodes[h].next
	}
	return h
}
