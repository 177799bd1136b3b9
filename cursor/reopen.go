package cursor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/awant/huge-file-sorting/lineio"
)

// ReopenCursor holds no handle between advances. It remembers the byte offset
// of the next line and re-opens the run to read it.
type ReopenCursor struct {
	path      string
	offset    int64
	line      string
	exhausted bool
}

var _ Cursor = (*ReopenCursor)(nil)

func OpenReopen(path string) (*ReopenCursor, error) {
	c := &ReopenCursor{path: path}
	if err := c.Advance(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *ReopenCursor) Line() string { return c.line }

func (c *ReopenCursor) Exhausted() bool { return c.exhausted }

// Offset returns the byte position of the line after the current one.
func (c *ReopenCursor) Offset() int64 { return c.offset }

func (c *ReopenCursor) Advance() error {
	if c.exhausted {
		return nil
	}
	line, n, err := c.readAt(c.offset)
	if err != nil {
		return err
	}
	if n == 0 {
		c.line = ""
		c.exhausted = true
		return nil
	}
	c.line = line
	c.offset += int64(n)
	return nil
}

func (c *ReopenCursor) readAt(offset int64) (string, int, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return "", 0, fmt.Errorf("cursor: failed to open run: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return "", 0, fmt.Errorf("cursor: failed to seek run %s to %d: %w", c.path, offset, err)
	}

	line, n, err := lineio.ReadLine(bufio.NewReader(f))
	if errors.Is(err, io.EOF) {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("cursor: failed to read run %s at %d: %w", c.path, offset, err)
	}
	return line, n, nil
}

// Close is a no-op: no handle is held between advances.
func (c *ReopenCursor) Close() error { return nil }
