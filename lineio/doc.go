// Package lineio implements the newline-delimited line format used for input
// files, run files and the sorted output. A line is every byte up to, but not
// including, the next '\n'. A final line without a terminator is still a line,
// and a '\r' before the terminator is kept as part of the line so CRLF files
// round-trip unchanged.
//
// Basic usage:
//
//	br := bufio.NewReader(f)
//	for {
//	    line, n, err := lineio.ReadLine(br)
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(line, n)
//	}
//
//	// Or iterate a whole reader
//	for line, err := range lineio.Seq(f) {
//	    ...
//	}
//
// Input files may be in any encoding known to golang.org/x/text/encoding/htmlindex;
// NewReader and NewWriter apply the transform. Run files are always written as
// the decoded bytes so byte offsets into them are stable.
package lineio
