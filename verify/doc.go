// Package verify checks a sort result against its input.
//
// The output must be ordered by the comparator and must hold exactly the
// lines of the input, each as many times. Occurrence counts are kept in a
// temporary pebble database: every input line merges +1 into its key, every
// output line merges -1, and a merge operator sums them. Any key left non-zero
// is a line that was lost, duplicated or invented.
package verify
