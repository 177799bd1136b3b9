package gen

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	ErrInvalidOptions = errors.New("gen: invalid options")
	ErrExists         = errors.New("gen: output already exists")
)

// Options controls the generated lines.
type Options struct {
	// Lines is the number of lines to write.
	Lines int
	// MaxLen is the longest line, in letters. Every line has at least one.
	MaxLen int
	// Seed makes the output reproducible.
	Seed uint64
}

func (o Options) validate() error {
	if o.Lines < 0 {
		return fmt.Errorf("%w: lines %d is negative", ErrInvalidOptions, o.Lines)
	}
	if o.MaxLen <= 0 {
		return fmt.Errorf("%w: maxlen %d must be positive", ErrInvalidOptions, o.MaxLen)
	}
	return nil
}

// Generate writes opts.Lines lines of random ASCII letters to w and returns
// the number of bytes written.
func Generate(w io.Writer, opts Options) (int64, error) {
	if err := opts.validate(); err != nil {
		return 0, err
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	bw := bufio.NewWriter(w)
	line := make([]byte, 0, opts.MaxLen+1)
	var written int64
	for range opts.Lines {
		line = line[:0]
		for range 1 + rng.IntN(opts.MaxLen) {
			line = append(line, letters[rng.IntN(len(letters))])
		}
		line = append(line, '\n')
		n, err := bw.Write(line)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("gen: failed to write: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("gen: failed to write: %w", err)
	}
	return written, nil
}

// GenerateFile writes the lines to path. An existing file is replaced only
// when force is set.
func GenerateFile(path string, opts Options, force bool) (int64, error) {
	if err := opts.validate(); err != nil {
		return 0, err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return 0, fmt.Errorf("%w: %s", ErrExists, path)
		}
		return 0, fmt.Errorf("gen: failed to create %s: %w", path, err)
	}

	n, err := Generate(f, opts)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("gen: failed to close %s: %w", path, cerr)
	}
	return n, err
}
