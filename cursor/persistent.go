package cursor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/awant/huge-file-sorting/lineio"
)

// PersistentCursor reads from a handle opened once at creation. The handle is
// closed as soon as the run is exhausted.
type PersistentCursor struct {
	path      string
	file      *os.File
	reader    *bufio.Reader
	line      string
	exhausted bool
}

var _ Cursor = (*PersistentCursor)(nil)

func OpenPersistent(path string) (*PersistentCursor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cursor: failed to open run: %w", err)
	}
	c := &PersistentCursor{
		path:   path,
		file:   f,
		reader: bufio.NewReader(f),
	}
	if err := c.Advance(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *PersistentCursor) Line() string { return c.line }

func (c *PersistentCursor) Exhausted() bool { return c.exhausted }

func (c *PersistentCursor) Advance() error {
	if c.exhausted {
		return nil
	}
	line, _, err := lineio.ReadLine(c.reader)
	if errors.Is(err, io.EOF) {
		c.line = ""
		c.exhausted = true
		return c.Close()
	}
	if err != nil {
		return fmt.Errorf("cursor: failed to read run %s: %w", c.path, err)
	}
	c.line = line
	return nil
}

func (c *PersistentCursor) Close() error {
	if c.file == nil {
		return nil
	}
	f := c.file
	c.file = nil
	c.reader = nil
	if err := f.Close(); err != nil {
		return fmt.Errorf("cursor: failed to close run %s: %w", c.path, err)
	}
	return nil
}
