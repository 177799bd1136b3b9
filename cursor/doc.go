// Package cursor reads run files one line at a time for the merge.
//
// Two strategies produce the same line sequence and differ only in how many
// file descriptors they hold:
//   - Persistent: one open handle per cursor for its whole life, closed when
//     the run is exhausted.
//   - Reopen: no handle between advances; each advance opens the run, seeks
//     to the remembered offset, reads one line and closes it again.
//
// A read that consumes zero bytes marks the end of the run. An empty line
// still consumes its terminator, so it is never mistaken for the end.
//
// Basic usage:
//
//	c, err := cursor.Open("0.part", cursor.Reopen)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	for !c.Exhausted() {
//	    fmt.Println(c.Line())
//	    if err := c.Advance(); err != nil {
//	        log.Fatal(err)
//	    }
//	}
package cursor
