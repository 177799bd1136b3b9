// Package merge combines sorted runs into a single sorted stream.
//
// Merge takes one cursor per run and repeatedly emits the smallest current
// line, advancing the cursor it came from. Ties between runs are resolved in
// favor of the run with the lower index, so merging the stable runs of an
// input in creation order reproduces a stable sort of the whole input.
//
// Which structure tracks the smallest head is chosen with a Strategy:
//
//   - Loser: a tournament tree, O(log k) comparisons per line
//   - Heap: a keyed binary heap
//   - BTree: an in-memory B-tree ordered by (line, run)
//   - Scan: a linear scan over all heads, O(k) per line
//
// The strategies differ only in cost. For the same cursors they write the same
// bytes.
//
// Basic usage:
//
//	cursors, err := cursor.OpenAll(paths, cursor.Persistent)
//	if err != nil {
//	    return err
//	}
//	defer cursor.CloseAll(cursors)
//
//	res, err := merge.Merge(ctx, out, cursors, less, merge.Loser)
package merge
