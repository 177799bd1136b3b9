package priority

import "cmp"

type entry[K cmp.Ordered, V any] struct {
	key   K
	value V
}

// Queue is a min-heap of keyed values. Values that compare equal come out in
// ascending key order, so a merge keyed by run index stays stable.
type Queue[K cmp.Ordered, V any] struct {
	entries []entry[K, V]
	index   map[K]int
	lessF   func(a, b V) bool
}

// NewQueue creates an empty queue ordered by less.
func NewQueue[K cmp.Ordered, V any](less func(a, b V) bool) *Queue[K, V] {
	return &Queue[K, V]{
		index: make(map[K]int),
		lessF: less,
	}
}

// Len returns the number of keys in the queue.
func (pq *Queue[K, V]) Len() int {
	return len(pq.entries)
}

// Get returns the value stored for key.
func (pq *Queue[K, V]) Get(key K) (V, bool) {
	i, ok := pq.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return pq.entries[i].value, true
}

// Set adds key or replaces its value and restores heap order.
func (pq *Queue[K, V]) Set(key K, value V) {
	i, ok := pq.index[key]
	if !ok {
		pq.entries = append(pq.entries, entry[K, V]{key: key, value: value})
		i = len(pq.entries) - 1
		pq.index[key] = i
		pq.up(i)
		return
	}
	pq.entries[i].value = value
	if !pq.up(i) {
		pq.down(i)
	}
}

// Remove deletes key from the queue. Unknown keys are ignored.
func (pq *Queue[K, V]) Remove(key K) {
	i, ok := pq.index[key]
	if !ok {
		return
	}
	last := len(pq.entries) - 1
	if i != last {
		pq.swap(i, last)
	}
	pq.entries = pq.entries[:last]
	delete(pq.index, key)
	if i != last {
		if !pq.up(i) {
			pq.down(i)
		}
	}
}

// Peek returns the smallest entry without removing it.
func (pq *Queue[K, V]) Peek() (key K, value V, ok bool) {
	if len(pq.entries) == 0 {
		return key, value, false
	}
	e := pq.entries[0]
	return e.key, e.value, true
}

// Pop removes and returns the smallest entry.
func (pq *Queue[K, V]) Pop() (key K, value V, ok bool) {
	key, value, ok = pq.Peek()
	if ok {
		pq.Remove(key)
	}
	return key, value, ok
}

func (pq *Queue[K, V]) less(i, j int) bool {
	a, b := pq.entries[i], pq.entries[j]
	if pq.lessF(a.value, b.value) {
		return true
	}
	if pq.lessF(b.value, a.value) {
		return false
	}
	return a.key < b.key
}

func (pq *Queue[K, V]) swap(i, j int) {
	pq.entries[i], pq.entries[j] = pq.entries[j], pq.entries[i]
	pq.index[pq.entries[i].key] = i
	pq.index[pq.entries[j].key] = j
}

// up reports whether the entry at i moved.
func (pq *Queue[K, V]) up(i int) bool {
	moved := false
	for i > 0 {
		parent := (i - 1) / 2
		if !pq.less(i, parent) {
			break
		}
		pq.swap(i, parent)
		i = parent
		moved = true
	}
	return moved
}

func (pq *Queue[K, V]) down(i int) {
	n := len(pq.entries)
	for {
		smallest := i
		if l := 2*i + 1; l < n && pq.less(l, smallest) {
			smallest = l
		}
		if r := 2*i + 2; r < n && pq.less(r, smallest) {
			smallest = r
		}
		if smallest == i {
			return
		}
		pq.swap(i, smallest)
		i = smallest
	}
}
