// Package filesort sorts text files that do not fit in memory.
//
// A file is treated as a sequence of lines separated by '\n'. Sorting runs in
// two phases. The input is first read once and split into batches whose
// estimated size stays within a memory budget; each batch is sorted stably
// and written to its own run file in a private temporary directory. The runs
// are then merged into the output by repeatedly taking the smallest current
// line, preferring earlier runs on ties, so equal lines keep their input order.
//
// The merge respects a budget of open file descriptors. When every run fits
// in the budget (runs <= limit-1, one descriptor being the output) each run
// keeps an open handle. Otherwise every run is re-opened for each line it
// yields, which is slow but needs no handles between reads.
//
// Basic usage:
//
//	stats, err := filesort.Sort(ctx, "huge_file.txt", "",
//	    filesort.WithMaxMemory(512<<20),
//	    filesort.WithFDLimit(256),
//	)
//	if errors.Is(err, filesort.ErrNotFound) {
//	    ...
//	}
//
// The output is written to a temporary file next to the destination and
// renamed into place only after the merge succeeds. The run directory is
// removed whether the sort succeeds or not.
package filesort
