package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/rs/zerolog"

	"github.com/awant/huge-file-sorting/lineio"
	"github.com/awant/huge-file-sorting/storage/local"
)

const (
	runBufferSize = 64 * 1024
	// checkEvery is how many lines are read between context checks.
	checkEvery = 4096
)

var (
	// MinMemory is the smallest budget that can hold one (empty) line.
	MinMemory = lineio.EstimateSize("")

	ErrMemoryTooSmall = errors.New("batch: memory budget cannot hold a single line")
	ErrNilLess        = errors.New("batch: comparator is required")
)

// Storage receives the sorted runs.
type Storage interface {
	// Create a new run for writing
	Create(ctx context.Context, name string) (io.WriteCloser, error)
	// Path of a created run
	Path(name string) string
}

// Run describes one sorted file written by the producer.
type Run struct {
	Name  string
	Path  string
	Lines int
	Bytes int64
}

type Options struct {
	// MaxMemory bounds the estimated size of one batch in bytes.
	MaxMemory int64
	// Less orders lines. Equal lines keep their input order within a run.
	Less func(a, b string) bool
	Logger zerolog.Logger
}

// Producer splits an input into sorted runs.
type Producer struct {
	storage   Storage
	maxMemory int64
	cmp       func(a, b string) int
	logger    zerolog.Logger
}

type batch struct {
	lines []string
	size  int64
}

func (b *batch) fits(size, limit int64) bool {
	// An oversized line still gets a batch of its own.
	return len(b.lines) == 0 || b.size+size <= limit
}

func (b *batch) add(line string, size int64) {
	b.lines = append(b.lines, line)
	b.size += size
}

func (b *batch) reset() {
	clear(b.lines)
	b.lines = b.lines[:0]
	b.size = 0
}

func NewProducer(storage Storage, opts Options) (*Producer, error) {
	if opts.MaxMemory < MinMemory {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrMemoryTooSmall, opts.MaxMemory, MinMemory)
	}
	if opts.Less == nil {
		return nil, ErrNilLess
	}
	return &Producer{
		storage:   storage,
		maxMemory: opts.MaxMemory,
		cmp:       compareFunc(opts.Less),
		logger:    opts.Logger,
	}, nil
}

// Produce reads r once and writes its lines as runs, each sorted. Every line
// of r ends up in exactly one run. An empty r produces no runs.
func (p *Producer) Produce(ctx context.Context, r io.Reader) ([]Run, error) {
	var (
		br   = bufio.NewReader(r)
		b    batch
		runs []Run
		read int
	)

	for {
		line, _, err := lineio.ReadLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return runs, fmt.Errorf("batch: failed to read input: %w", err)
		}

		read++
		if read%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return runs, err
			}
		}

		size := lineio.EstimateSize(line)
		if !b.fits(size, p.maxMemory) {
			run, err := p.flush(ctx, &b, len(runs))
			if err != nil {
				return runs, err
			}
			runs = append(runs, run)
		}
		b.add(line, size)
	}

	if len(b.lines) > 0 {
		run, err := p.flush(ctx, &b, len(runs))
		if err != nil {
			return runs, err
		}
		runs = append(runs, run)
	}

	return runs, nil
}

func (p *Producer) flush(ctx context.Context, b *batch, index int) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}

	slices.SortStableFunc(b.lines, p.cmp)

	name := local.RunName(index)
	w, err := p.storage.Create(ctx, name)
	if err != nil {
		return Run{}, fmt.Errorf("batch: failed to create run: %w", err)
	}

	run := Run{
		Name:  name,
		Path:  p.storage.Path(name),
		Lines: len(b.lines),
	}

	bw := bufio.NewWriterSize(w, runBufferSize)
	for _, line := range b.lines {
		n, err := lineio.WriteLine(bw, line)
		if err != nil {
			_ = w.Close()
			return Run{}, fmt.Errorf("batch: failed to write run %s: %w", run.Path, err)
		}
		run.Bytes += n
	}
	if err := bw.Flush(); err != nil {
		_ = w.Close()
		return Run{}, fmt.Errorf("batch: failed to write run %s: %w", run.Path, err)
	}
	if err := w.Close(); err != nil {
		return Run{}, fmt.Errorf("batch: failed to close run %s: %w", run.Path, err)
	}

	p.logger.Debug().
		Str("run", run.Path).
		Int("lines", run.Lines).
		Int64("bytes", run.Bytes).
		Int64("estimated", b.size).
		Msg("batch flushed")

	b.reset()
	return run, nil
}

func compareFunc(less func(a, b string) bool) func(a, b string) int {
	return func(a, b string) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		default:
			return 0
		}
	}
}
