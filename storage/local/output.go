package local

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const outputBufferSize = 64 * 1024

var ErrOutputDone = errors.New("local: output already committed or aborted")

// Output is a destination file that only appears under its final name once
// Commit succeeds. Until then data goes to a hidden temporary file in the
// same directory.
type Output struct {
	dest string
	tmp  *os.File
	w    *bufio.Writer
	done bool
}

// CreateOutput starts writing a new version of dest.
func CreateOutput(dest string) (*Output, error) {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("local: failed to create output in %s: %w", dir, err)
	}
	_ = os.Chmod(tmp.Name(), 0o644)
	return &Output{
		dest: dest,
		tmp:  tmp,
		w:    bufio.NewWriterSize(tmp, outputBufferSize),
	}, nil
}

// Write implements io.Writer.
func (o *Output) Write(p []byte) (int, error) {
	if o.done {
		return 0, ErrOutputDone
	}
	return o.w.Write(p)
}

// Name returns the final destination path.
func (o *Output) Name() string {
	return o.dest
}

// Commit flushes and syncs the data and renames it over the destination.
// On failure the temporary file is removed.
func (o *Output) Commit() error {
	if o.done {
		return ErrOutputDone
	}
	o.done = true

	tmpPath := o.tmp.Name()
	if err := o.w.Flush(); err != nil {
		_ = o.tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("local: failed to flush %s: %w", tmpPath, err)
	}
	if err := o.tmp.Sync(); err != nil {
		_ = o.tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("local: failed to sync %s: %w", tmpPath, err)
	}
	if err := o.tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("local: failed to close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, o.dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("local: failed to publish %s: %w", o.dest, err)
	}
	return nil
}

// Abort discards everything written. It is a no-op after Commit.
func (o *Output) Abort() error {
	if o.done {
		return nil
	}
	o.done = true

	tmpPath := o.tmp.Name()
	closeErr := o.tmp.Close()
	if err := os.Remove(tmpPath); err != nil {
		return fmt.Errorf("local: failed to remove %s: %w", tmpPath, err)
	}
	return closeErr
}
