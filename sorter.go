package filesort

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/awant/huge-file-sorting/batch"
	"github.com/awant/huge-file-sorting/cursor"
	"github.com/awant/huge-file-sorting/lineio"
	"github.com/awant/huge-file-sorting/merge"
	"github.com/awant/huge-file-sorting/storage/local"
)

// OutputSuffix is appended to the input path when no output path is given.
const OutputSuffix = ".sorted"

// MinMemory is the smallest memory budget that can hold one empty line.
var MinMemory = batch.MinMemory

// Stats describes a finished sort.
type Stats struct {
	Runs     int
	Lines    int64
	Bytes    int64
	Strategy cursor.Strategy
	Merge    merge.Strategy
	Duration time.Duration
}

// Sorter sorts one file into another.
type Sorter struct {
	input  string
	output string
	opts   options
}

// New validates the configuration for sorting input into output. It fails
// with ErrNotFound if input does not exist. An empty output means input with
// OutputSuffix appended. Output may equal input.
func New(input, output string, opts ...Option) (*Sorter, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if input == "" {
		return nil, configError("input path is required")
	}
	if _, err := os.Stat(input); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, ioError("stat input", err)
	}
	if output == "" {
		output = input + OutputSuffix
	}
	return &Sorter{input: input, output: output, opts: o}, nil
}

// Sort is shorthand for New followed by Sorter.Sort.
func Sort(ctx context.Context, input, output string, opts ...Option) (Stats, error) {
	s, err := New(input, output, opts...)
	if err != nil {
		return Stats{}, err
	}
	return s.Sort(ctx)
}

// Input returns the path being sorted.
func (s *Sorter) Input() string { return s.input }

// Output returns the path the result is written to.
func (s *Sorter) Output() string { return s.output }

// ChooseStrategy picks how runs are read during the merge. One descriptor is
// reserved for the output, so runs can stay open only while they fit in the
// rest of the budget.
func ChooseStrategy(runs, fdLimit int) cursor.Strategy {
	if runs <= fdLimit-1 {
		return cursor.Persistent
	}
	return cursor.Reopen
}

// Sort writes the lines of the input to the output in comparator order,
// keeping equal lines in input order. The output appears only if the whole
// sort succeeds; the run directory is removed either way.
func (s *Sorter) Sort(ctx context.Context) (stats Stats, err error) {
	start := time.Now()
	logger := s.opts.logger.With().
		Str("sort_id", uuid.NewString()).
		Str("input", s.input).
		Logger()

	in, err := os.Open(s.input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stats, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return stats, ioError("open input", err)
	}
	defer in.Close()

	store, err := local.NewLocalStorage(s.opts.tempDir)
	if err != nil {
		return stats, ioError("create run directory", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn().Err(cerr).Str("dir", store.Dir()).Msg("failed to remove run directory")
			if err == nil {
				err = ioError("remove run directory", cerr)
			}
		}
	}()

	runs, err := s.split(ctx, in, store, logger)
	if err != nil {
		return stats, err
	}
	// The input handle is released before the merge claims its budget.
	if err := in.Close(); err != nil {
		return stats, ioError("close input", err)
	}

	stats.Runs = len(runs)
	stats.Strategy = ChooseStrategy(len(runs), s.opts.fdLimit)
	stats.Merge = s.opts.merge
	logger.Info().
		Stringer("strategy", stats.Strategy).
		Int("runs", len(runs)).
		Int("fd_count", s.opts.fdLimit).
		Msg("cursor strategy selected")

	res, err := s.merge(ctx, runs, stats.Strategy)
	if err != nil {
		return stats, err
	}
	stats.Lines = res.Lines
	stats.Bytes = res.Bytes
	stats.Duration = time.Since(start)

	logger.Info().
		Str("output", s.output).
		Int64("lines", stats.Lines).
		Int("runs", stats.Runs).
		Dur("duration", stats.Duration).
		Msg("sort finished")
	return stats, nil
}

func (s *Sorter) split(ctx context.Context, in *os.File, store *local.Storage, logger zerolog.Logger) ([]batch.Run, error) {
	producer, err := batch.NewProducer(store, batch.Options{
		MaxMemory: s.opts.maxMemory,
		Less:      s.opts.less,
		Logger:    logger,
	})
	if err != nil {
		return nil, configError("%w", err)
	}

	runs, err := producer.Produce(ctx, lineio.NewReader(in, s.opts.encoding))
	if err != nil {
		return nil, ioError("split "+s.input, err)
	}
	logger.Debug().Int("runs", len(runs)).Msg("input split into runs")
	return runs, nil
}

func (s *Sorter) merge(ctx context.Context, runs []batch.Run, strategy cursor.Strategy) (res merge.Result, err error) {
	out, err := local.CreateOutput(s.output)
	if err != nil {
		return res, ioError("create output", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = out.Abort()
		}
	}()

	paths := make([]string, len(runs))
	for i, r := range runs {
		paths[i] = r.Path
	}
	cursors, err := cursor.OpenAll(paths, strategy)
	if err != nil {
		return res, ioError("open runs", err)
	}
	defer func() {
		if cerr := cursor.CloseAll(cursors); cerr != nil && err == nil {
			err = ioError("close runs", cerr)
		}
	}()

	w := lineio.NewWriter(out, s.opts.encoding)
	res, err = merge.Merge(ctx, w, cursors, s.opts.less, s.opts.merge)
	if err != nil {
		return res, ioError("merge into "+s.output, err)
	}
	if err := w.Close(); err != nil {
		return res, ioError("encode output", err)
	}
	if err := out.Commit(); err != nil {
		return res, ioError("commit output", err)
	}
	committed = true
	return res, nil
}
