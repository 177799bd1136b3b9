package cursor

import (
	"errors"
	"fmt"
)

// Strategy selects how a cursor holds its run file between reads.
type Strategy int

const (
	// Persistent keeps one open handle per cursor until the run is exhausted.
	Persistent Strategy = iota
	// Reopen opens, seeks, reads one line and closes the run on every advance.
	Reopen
)

var ErrUnknownStrategy = errors.New("cursor: unknown strategy")

func (s Strategy) String() string {
	switch s {
	case Persistent:
		return "persistent"
	case Reopen:
		return "reopen"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Cursor yields the lines of one run in file order.
type Cursor interface {
	// Line returns the current line. It is empty once the cursor is exhausted.
	Line() string
	// Exhausted reports whether the run has been fully consumed.
	Exhausted() bool
	// Advance moves to the next line. Advancing an exhausted cursor is a no-op.
	Advance() error
	// Close releases any held handle. It is safe to call more than once.
	Close() error
}

// Open creates a cursor over the run at path and primes it with the first
// line. An empty run yields a cursor that is already exhausted.
func Open(path string, s Strategy) (Cursor, error) {
	switch s {
	case Persistent:
		return OpenPersistent(path)
	case Reopen:
		return OpenReopen(path)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
}

// OpenAll opens one cursor per path. If any cursor fails to open, the ones
// already opened are closed.
func OpenAll(paths []string, s Strategy) ([]Cursor, error) {
	cursors := make([]Cursor, 0, len(paths))
	for _, path := range paths {
		c, err := Open(path, s)
		if err != nil {
			_ = CloseAll(cursors)
			return nil, err
		}
		cursors = append(cursors, c)
	}
	return cursors, nil
}

// CloseAll closes every cursor and returns the joined errors.
func CloseAll(cursors []Cursor) error {
	var errs []error
	for _, c := range cursors {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
