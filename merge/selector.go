package merge

import (
	"github.com/google/btree"

	"github.com/awant/huge-file-sorting/cursor"
	"github.com/awant/huge-file-sorting/loser"
	"github.com/awant/huge-file-sorting/priority"
)

// btreeDegree is the node fan-out for the btree selector.
const btreeDegree = 16

// selector tracks which cursor holds the smallest line. Ties go to the cursor
// with the lower index.
type selector interface {
	// min returns the index of the winning cursor, or -1 once all are exhausted.
	min() int
	// fix is called after the cursor returned by min has advanced.
	fix(i int)
}

func newSelector(s Strategy, cursors []cursor.Cursor, less func(a, b string) bool) (selector, error) {
	switch s {
	case Loser:
		return newLoserSelector(cursors, less), nil
	case Heap:
		return newHeapSelector(cursors, less), nil
	case BTree:
		return newBTreeSelector(cursors, less), nil
	case Scan:
		return &scanSelector{cursors: cursors, less: less}, nil
	default:
		return nil, ErrUnknownStrategy
	}
}

type scanSelector struct {
	cursors []cursor.Cursor
	less    func(a, b string) bool
}

func (s *scanSelector) min() int {
	best := -1
	for i, c := range s.cursors {
		if c.Exhausted() {
			continue
		}
		// Strict comparison keeps the first cursor on ties.
		if best < 0 || s.less(c.Line(), s.cursors[best].Line()) {
			best = i
		}
	}
	return best
}

func (s *scanSelector) fix(int) {}

type loserSelector struct {
	cursors []cursor.Cursor
	tree    *loser.Tree[string]
}

func newLoserSelector(cursors []cursor.Cursor, less func(a, b string) bool) *loserSelector {
	t := loser.New[string](len(cursors), less)
	for i, c := range cursors {
		if !c.Exhausted() {
			t.Set(i, c.Line())
		}
	}
	t.Init()
	return &loserSelector{cursors: cursors, tree: t}
}

func (s *loserSelector) min() int {
	w, ok := s.tree.Winner()
	if !ok {
		return -1
	}
	return w
}

func (s *loserSelector) fix(i int) {
	if c := s.cursors[i]; c.Exhausted() {
		s.tree.Close(i)
	} else {
		s.tree.Set(i, c.Line())
	}
	s.tree.Fix(i)
}

type heapSelector struct {
	cursors []cursor.Cursor
	queue   *priority.Queue[int, string]
}

func newHeapSelector(cursors []cursor.Cursor, less func(a, b string) bool) *heapSelector {
	q := priority.NewQueue[int, string](less)
	for i, c := range cursors {
		if !c.Exhausted() {
			q.Set(i, c.Line())
		}
	}
	return &heapSelector{cursors: cursors, queue: q}
}

func (s *heapSelector) min() int {
	i, _, ok := s.queue.Peek()
	if !ok {
		return -1
	}
	return i
}

func (s *heapSelector) fix(i int) {
	if c := s.cursors[i]; c.Exhausted() {
		s.queue.Remove(i)
	} else {
		s.queue.Set(i, c.Line())
	}
}

type head struct {
	line string
	run  int
}

type btreeSelector struct {
	cursors []cursor.Cursor
	tree    *btree.BTreeG[head]
}

func newBTreeSelector(cursors []cursor.Cursor, less func(a, b string) bool) *btreeSelector {
	t := btree.NewG(btreeDegree, func(a, b head) bool {
		if less(a.line, b.line) {
			return true
		}
		if less(b.line, a.line) {
			return false
		}
		return a.run < b.run
	})
	for i, c := range cursors {
		if !c.Exhausted() {
			t.ReplaceOrInsert(head{line: c.Line(), run: i})
		}
	}
	return &btreeSelector{cursors: cursors, tree: t}
}

func (s *btreeSelector) min() int {
	h, ok := s.tree.Min()
	if !ok {
		return -1
	}
	return h.run
}

func (s *btreeSelector) fix(i int) {
	s.tree.DeleteMin()
	if c := s.cursors[i]; !c.Exhausted() {
		s.tree.ReplaceOrInsert(head{line: c.Line(), run: i})
	}
}
