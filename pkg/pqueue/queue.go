package pqueue

import (
	"errors"
	"fmt"
	"math/bits"
	"slices"
)

var (
	ErrFull        = errors.New("pqueue: capacity exhausted")
	ErrDuplicateID = errors.New("pqueue: item already exists")
	ErrNotFound    = errors.New("pqueue: item not found")
)

// Config describes the items a Queue holds and how they are ordered.
//
// Less reports whether a belongs closer to the root than b and drives the
// upward pass and the choice between siblings. Greater reports whether a
// belongs further from the root than b and decides when the downward pass
// stops. They are expected to be logical inverses.
type Config[T any, ID comparable] struct {
	Capacity int
	ID       func(T) ID
	Less     func(a, b T) bool
	Greater  func(a, b T) bool
}

// Queue is a fixed-capacity binary heap with an id -> slot index, so any
// element (not only the root) can be removed or re-prioritised in O(log n).
type Queue[T any, ID comparable] struct {
	cfg   Config[T, ID]
	heap  []T
	index map[ID]int
	size  int
}

// New allocates the full backing array up front. It panics on an unusable
// Config since that is a programming error, not a runtime condition.
func New[T any, ID comparable](cfg Config[T, ID]) *Queue[T, ID] {
	if cfg.Capacity <= 0 {
		panic("pqueue: capacity must be positive")
	}
	if cfg.ID == nil || cfg.Less == nil || cfg.Greater == nil {
		panic("pqueue: ID, Less and Greater are required")
	}
	return &Queue[T, ID]{
		cfg:   cfg,
		heap:  make([]T, cfg.Capacity),
		index: make(map[ID]int),
	}
}

// Insert adds item. A duplicate id leaves the stored item untouched.
func (q *Queue[T, ID]) Insert(item T) error {
	id := q.cfg.ID(item)
	if _, ok := q.index[id]; ok {
		return fmt.Errorf("%w: id %v", ErrDuplicateID, id)
	}
	if q.size == q.cfg.Capacity {
		return fmt.Errorf("%w: id %v (capacity %d)", ErrFull, id, q.cfg.Capacity)
	}

	pos := q.size
	q.heap[pos] = item
	q.index[id] = pos
	q.size++
	q.heapify(pos)
	return nil
}

// Remove deletes the item sharing item's id. Other fields are ignored.
func (q *Queue[T, ID]) Remove(item T) error {
	id := q.cfg.ID(item)
	pos, ok := q.index[id]
	if !ok {
		return fmt.Errorf("%w: id %v", ErrNotFound, id)
	}

	last := q.size - 1
	if pos != last {
		q.swap(pos, last)
	}
	var zero T
	q.heap[last] = zero
	q.size--
	delete(q.index, id)

	if pos < q.size {
		q.heapify(pos)
	}
	return nil
}

// Update replaces the stored item with the same id and restores order.
func (q *Queue[T, ID]) Update(item T) error {
	id := q.cfg.ID(item)
	pos, ok := q.index[id]
	if !ok {
		return fmt.Errorf("%w: id %v", ErrNotFound, id)
	}

	q.heap[pos] = item
	q.heapify(pos)
	return nil
}

func (q *Queue[T, ID]) Len() int { return q.size }
func (q *Queue[T, ID]) Cap() int { return q.cfg.Capacity }

func (q *Queue[T, ID]) Contains(id ID) bool {
	_, ok := q.index[id]
	return ok
}

// Get returns the stored item for id.
func (q *Queue[T, ID]) Get(id ID) (T, bool) {
	pos, ok := q.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return q.heap[pos], true
}

// Items returns a copy of the live slots in heap order.
func (q *Queue[T, ID]) Items() []T {
	return slices.Clone(q.heap[:q.size])
}

// TopItems returns up to k items taken level by level from the root.
//
// Every level shallower than floor(log2 k) is returned whole; the remaining
// slots come from that level sorted by Less. Items deeper in the heap are
// never considered, so the result is the exact top k only when each level
// dominates the next one, which a binary heap does not guarantee.
func (q *Queue[T, ID]) TopItems(k int) []T {
	k = min(k, q.size)
	if k <= 0 {
		return []T{}
	}

	n := bits.Len(uint(k)) - 1
	start := 1<<n - 1
	end := 1<<(n+1) - 1

	if k == end {
		return slices.Clone(q.heap[:end])
	}

	out := make([]T, 0, k)
	out = append(out, q.heap[:start]...)

	level := slices.Clone(q.heap[start:min(end, q.size)])
	slices.SortStableFunc(level, func(a, b T) int {
		switch {
		case q.cfg.Less(a, b):
			return -1
		case q.cfg.Less(b, a):
			return 1
		}
		return 0
	})
	return append(out, level[:k-start]...)
}

// Filter scans every live item and returns the best one accepted by match.
// best starts as the zero T and is replaced whenever compare(best, candidate)
// holds. The flag reports whether match accepted anything at all.
func (q *Queue[T, ID]) Filter(match func(T) bool, compare func(best, candidate T) bool) (T, bool) {
	var best T
	matched := false
	for i := 0; i < q.size; i++ {
		if !match(q.heap[i]) {
			continue
		}
		matched = true
		if compare(best, q.heap[i]) {
			best = q.heap[i]
		}
	}
	return best, matched
}

// FilterValue is Filter with the predicate taking an explicit comparison value.
func FilterValue[T any, ID comparable, V any](q *Queue[T, ID], value V, match func(T, V) bool, compare func(best, candidate T) bool) (T, bool) {
	return q.Filter(func(item T) bool { return match(item, value) }, compare)
}

func parent(n int) int { return (n - 1) / 2 }
func left(n int) int   { return 2*n + 1 }
func right(n int) int  { return 2*n + 2 }

// swap exchanges two slots and rewrites both index entries.
func (q *Queue[T, ID]) swap(a, b int) {
	q.heap[a], q.heap[b] = q.heap[b], q.heap[a]
	q.index[q.cfg.ID(q.heap[a])] = a
	q.index[q.cfg.ID(q.heap[b])] = b
}

// heapify moves the item at pos up while it beats its parent, then down
// while its preferred child beats it.
func (q *Queue[T, ID]) heapify(pos int) {
	i := pos
	for i > 0 && q.cfg.Less(q.heap[i], q.heap[parent(i)]) {
		q.swap(i, parent(i))
		i = parent(i)
	}

	for left(i) < q.size {
		b := left(i)
		if r := right(i); r < q.size && q.cfg.Less(q.heap[r], q.heap[b]) {
			b = r
		}
		if !q.cfg.Greater(q.heap[i], q.heap[b]) {
			break
		}
		q.swap(i, b)
		i = b
	}
}
