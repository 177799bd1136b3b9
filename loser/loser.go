// Package loser is adapted from https://github.com/bboreham/go-loser/blob/iter/tree.go.
// Thank you Bryan
package loser

import (
	"iter"
)

// Tree selects the smallest value among k slots. Exhausted slots lose every
// game, and among equal values the slot with the lower index wins.
type Tree[E any] struct {
	less   func(a, b E) bool
	values []E
	live   []bool
	// A loser tree is a binary tree laid out such that nodes N and N+1 have parent N/2.
	// Leaf for slot i sits at position k+i, and k-1 internal nodes at positions 1..k-1.
	// Each internal node stores the slot that lost there; node 0 stores the winner.
	nodes []int
}

// New returns a tree with k slots, all of them exhausted until Set is called.
func New[E any](k int, less func(a, b E) bool) *Tree[E] {
	return &Tree[E]{
		less:   less,
		values: make([]E, k),
		live:   make([]bool, k),
		nodes:  make([]int, k),
	}
}

// Len returns the number of slots.
func (t *Tree[E]) Len() int { return len(t.values) }

// Set stores v in slot i and marks it live.
func (t *Tree[E]) Set(i int, v E) {
	t.values[i] = v
	t.live[i] = true
}

// Close marks slot i exhausted.
func (t *Tree[E]) Close(i int) {
	var zero E
	t.values[i] = zero
	t.live[i] = false
}

// Value returns the value held by slot i.
func (t *Tree[E]) Value(i int) E { return t.values[i] }

// Init plays every game from scratch. It must be called once after the
// initial Set calls and before Winner.
func (t *Tree[E]) Init() {
	if len(t.values) == 0 {
		return
	}
	t.nodes[0] = t.playGame(1)
}

// Winner returns the slot holding the smallest value. ok is false when every
// slot is exhausted.
func (t *Tree[E]) Winner() (slot int, ok bool) {
	if len(t.values) == 0 {
		return -1, false
	}
	w := t.nodes[0]
	return w, t.live[w]
}

// Fix replays the games on the path of slot i after its value changed or it
// was closed. i must be the current winner.
func (t *Tree[E]) Fix(i int) {
	k := len(t.values)
	w := i
	for n := parent(k + i); n != 0; n = parent(n) {
		if t.beats(t.nodes[n], w) {
			// The stored loser now wins; w stays here as the loser.
			t.nodes[n], w = w, t.nodes[n]
		}
	}
	t.nodes[0] = w
}

// Find the winner at position pos; if it is a non-leaf node, store the loser.
func (t *Tree[E]) playGame(pos int) int {
	k := len(t.values)
	if pos >= k {
		return pos - k
	}
	left := t.playGame(pos * 2)
	right := t.playGame(pos*2 + 1)
	if t.beats(left, right) {
		t.nodes[pos] = right
		return left
	}
	t.nodes[pos] = left
	return right
}

func (t *Tree[E]) beats(a, b int) bool {
	if t.live[a] != t.live[b] {
		return t.live[a]
	}
	if t.live[a] {
		if t.less(t.values[a], t.values[b]) {
			return true
		}
		if t.less(t.values[b], t.values[a]) {
			return false
		}
	}
	return a < b
}

func parent(i int) int { return i >> 1 }

// Merge yields the values of the sorted sequences in order. Equal values are
// yielded in the order of the sequences that hold them.
func Merge[E any](less func(a, b E) bool, seqs ...iter.Seq[E]) iter.Seq[E] {
	return func(yield func(E) bool) {
		t := New[E](len(seqs), less)
		nexts := make([]func() (E, bool), len(seqs))
		for i, s := range seqs {
			next, stop := iter.Pull(s)
			//nolint:gocritic // is not a leak.
			defer stop()
			nexts[i] = next
			if v, ok := next(); ok {
				t.Set(i, v)
			}
		}
		t.Init()
		for {
			w, ok := t.Winner()
			if !ok || !yield(t.values[w]) {
				return
			}
			if v, ok := nexts[w](); ok {
				t.Set(w, v)
			} else {
				t.Close(w)
			}
			t.Fix(w)
		}
	}
}
