// Package priority implements a keyed min-heap.
//
// Each key appears at most once. Set inserts a key or replaces its value in
// O(log n), and Get looks a key up in O(1). Ordering comes from a caller-supplied
// less function; values it considers equal are ordered by key, which makes the
// queue usable as a stable selector over runs keyed by their index:
//
//	pq := priority.NewQueue[int, string](func(a, b string) bool { return a < b })
//	pq.Set(0, "banana")
//	pq.Set(1, "apple")
//	pq.Set(2, "apple")
//
//	run, line, _ := pq.Peek() // 1, "apple"
//	pq.Set(run, nextLine)     // refill the run that was consumed
//	pq.Remove(run)            // or drop it when it is exhausted
package priority
