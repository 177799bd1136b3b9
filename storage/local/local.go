package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
)

const runSuffix = ".part"

var ErrClosed = errors.New("local: storage is closed")

// Storage owns a private directory of run files. Everything it creates is
// removed by Close.
type Storage struct {
	dir    string
	mu     sync.Mutex
	closed bool
}

// NewLocalStorage creates a fresh directory under parent. An empty parent
// means os.TempDir.
func NewLocalStorage(parent string) (*Storage, error) {
	dir, err := os.MkdirTemp(parent, "filesort-")
	if err != nil {
		return nil, fmt.Errorf("local: failed to create run directory in %q: %w", parent, err)
	}
	return &Storage{dir: dir}, nil
}

// RunName returns the file name of the run with the given index.
func RunName(index int) string {
	return strconv.Itoa(index) + runSuffix
}

// Dir returns the directory holding the runs.
func (s *Storage) Dir() string {
	return s.dir
}

// Path returns the full path of the named run.
func (s *Storage) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Create opens a new run file for writing. It fails if the run already exists.
func (s *Storage) Create(_ context.Context, name string) (io.WriteCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	path := s.Path(name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", path, err)
	}
	return file, nil
}

// List returns the names of all runs ordered by index.
func (s *Storage) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), runSuffix) {
			files = append(files, entry.Name())
		}
	}
	slices.SortFunc(files, func(a, b string) int {
		return runIndex(a) - runIndex(b)
	})
	return files, nil
}

// Delete removes a single run.
func (s *Storage) Delete(_ context.Context, name string) error {
	path := s.Path(name)
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}
	return nil
}

// Close removes the directory and every run in it. It is safe to call more
// than once.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to remove run directory %s: %w", s.dir, err)
	}
	return nil
}

func runIndex(name string) int {
	i, err := strconv.Atoi(strings.TrimSuffix(name, runSuffix))
	if err != nil {
		return -1
	}
	return i
}
