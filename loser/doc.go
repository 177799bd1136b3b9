// Package loser implements a tournament tree (also known as a loser tree) for
// picking the smallest head among many sorted runs.
//
// A loser tree is a binary tree where each internal node holds the "loser" of
// the game between its children, and the root holds the overall winner. After
// the winner's slot is refilled only the games on its path to the root are
// replayed, so each step costs O(log k) comparisons for k slots.
//
// The tree is driven by slot index rather than by pulling from sequences, which
// lets callers keep the run state themselves:
//
//	t := loser.New[string](len(runs), func(a, b string) bool { return a < b })
//	for i, r := range runs {
//	    if !r.Exhausted() {
//	        t.Set(i, r.Line())
//	    }
//	}
//	t.Init()
//	for w, ok := t.Winner(); ok; w, ok = t.Winner() {
//	    emit(t.Value(w))
//	    // refill slot w with Set or mark it done with Close, then:
//	    t.Fix(w)
//	}
//
// Ties are broken by slot index: among equal values the lower slot wins. An
// exhausted slot loses to every live slot.
//
// Merge wraps the same tree for merging iter.Seq values.
package loser
