package lineio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"unsafe"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Terminator ends every line written by this package.
const Terminator = '\n'

// LineOverhead is the in-memory cost of a line beyond its bytes: the string header.
var LineOverhead = int64(unsafe.Sizeof(""))

var ErrUnknownEncoding = errors.New("lineio: unknown encoding")

// ReadLine reads the next line from br. It returns the line without its
// terminator and the number of bytes consumed, including the terminator.
// io.EOF is returned only when no bytes were consumed, so an empty line
// ("\n") is never mistaken for the end of the stream.
func ReadLine(br *bufio.Reader) (string, int, error) {
	s, err := br.ReadString(Terminator)
	n := len(s)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", n, err
		}
		if n == 0 {
			return "", 0, io.EOF
		}
		return s, n, nil
	}
	return s[:n-1], n, nil
}

// WriteLine writes line followed by the terminator.
func WriteLine(w *bufio.Writer, line string) (int64, error) {
	n, err := w.WriteString(line)
	if err != nil {
		return int64(n), err
	}
	if err := w.WriteByte(Terminator); err != nil {
		return int64(n), err
	}
	return int64(n) + 1, nil
}

// EstimateSize returns the number of bytes a line is assumed to occupy while
// it is held in a batch.
func EstimateSize(line string) int64 {
	return LineOverhead + int64(len(line))
}

// Seq iterates over the lines of r. Iteration stops after the first error,
// which is yielded with an empty line.
func Seq(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		br := bufio.NewReader(r)
		for {
			line, _, err := ReadLine(br)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", err)
				return
			}
			if !yield(line, nil) {
				return
			}
		}
	}
}

// LookupEncoding resolves an encoding by its WHATWG name or label. The empty
// name and UTF-8 resolve to encoding.Nop, which passes bytes through untouched
// (invalid UTF-8 is preserved rather than replaced).
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return encoding.Nop, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownEncoding, name, err)
	}
	return enc, nil
}

// NewReader decodes r from enc into UTF-8.
func NewReader(r io.Reader, enc encoding.Encoding) io.Reader {
	if enc == nil || enc == encoding.Nop {
		return r
	}
	return transform.NewReader(r, enc.NewDecoder())
}

// NewWriter encodes UTF-8 written to it into enc on w. The returned closer
// flushes any buffered transform state and must be closed before w is.
func NewWriter(w io.Writer, enc encoding.Encoding) io.WriteCloser {
	if enc == nil || enc == encoding.Nop {
		return nopCloser{w}
	}
	return transform.NewWriter(w, enc.NewEncoder())
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
