package merge

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy selects the structure used to find the smallest head among runs.
// All strategies write identical output.
type Strategy int

const (
	// Loser replays O(log k) games per line in a tournament tree.
	Loser Strategy = iota
	// Heap keeps the heads in a keyed binary heap.
	Heap
	// BTree keeps the heads in an in-memory B-tree.
	BTree
	// Scan compares every head on every line.
	Scan
)

var ErrUnknownStrategy = errors.New("merge: unknown strategy")

var names = map[Strategy]string{
	Loser: "loser",
	Heap:  "heap",
	BTree: "btree",
	Scan:  "scan",
}

func (s Strategy) String() string {
	if n, ok := names[s]; ok {
		return n
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps a name such as "loser" to its Strategy. Matching is case
// insensitive.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range names {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Strategies lists every strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{Loser, Heap, BTree, Scan}
}
