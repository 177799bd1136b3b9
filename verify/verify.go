package verify

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"

	"github.com/awant/huge-file-sorting/lineio"
)

const (
	defaultCacheSize = 8 << 20
	// flushEvery is how many lines go into one pebble batch.
	flushEvery = 4096
	keyPrefix  = 'l'
)

var (
	plusOne  = encodeCount(1)
	minusOne = encodeCount(-1)
)

// Options configures a verification.
type Options struct {
	// Less is the ordering the output must follow. Nil means byte order.
	Less func(a, b string) bool
	// Encoding of both files. Nil means UTF-8 pass-through.
	Encoding encoding.Encoding
	// TempDir is where the line index is kept. Empty means os.TempDir.
	TempDir   string
	CacheSize int64
	Logger    zerolog.Logger
}

// Report is the outcome of comparing an input with its sorted output.
type Report struct {
	InputLines  int64
	OutputLines int64
	// Sorted is false when some output line sorts before the one above it.
	Sorted bool
	// FirstDisorder is the 1-based output line number of the first such line.
	FirstDisorder int64
	// Permutation reports whether both files hold the same lines the same
	// number of times.
	Permutation bool
	// Mismatched counts distinct lines whose occurrences differ.
	Mismatched int64
}

// OK reports whether the output is a sorted permutation of the input.
func (r Report) OK() bool { return r.Sorted && r.Permutation }

// Files checks that output is input sorted by opts.Less. Line counts are kept
// in a temporary on-disk index so neither file needs to fit in memory.
func Files(ctx context.Context, input, output string, opts Options) (Report, error) {
	var report Report
	if opts.Less == nil {
		opts.Less = func(a, b string) bool { return a < b }
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}

	dir, err := os.MkdirTemp(opts.TempDir, "filesort-verify-")
	if err != nil {
		return report, fmt.Errorf("verify: failed to create index directory: %w", err)
	}
	defer os.RemoveAll(dir)

	db, err := openIndex(dir, opts)
	if err != nil {
		return report, err
	}
	defer db.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := count(gctx, db, input, opts.Encoding, plusOne, nil)
		report.InputLines = n
		return err
	})
	g.Go(func() error {
		var prev string
		n, err := count(gctx, db, output, opts.Encoding, minusOne, func(i int64, line string) {
			if i > 1 && report.FirstDisorder == 0 && opts.Less(line, prev) {
				report.FirstDisorder = i
			}
			prev = line
		})
		report.OutputLines = n
		return err
	})
	if err := g.Wait(); err != nil {
		return report, err
	}

	report.Mismatched, err = mismatched(db)
	if err != nil {
		return report, err
	}
	report.Sorted = report.FirstDisorder == 0
	report.Permutation = report.Mismatched == 0 && report.InputLines == report.OutputLines

	opts.Logger.Debug().
		Str("input", input).
		Str("output", output).
		Int64("lines", report.OutputLines).
		Bool("sorted", report.Sorted).
		Int64("mismatched", report.Mismatched).
		Msg("verify finished")
	return report, nil
}

func openIndex(dir string, opts Options) (*pebble.DB, error) {
	cache := pebble.NewCache(opts.CacheSize)
	defer cache.Unref()

	db, err := pebble.Open(dir, &pebble.Options{
		Cache:  cache,
		Merger: counterMerger,
		Logger: pebbleLogger{opts.Logger},
	})
	if err != nil {
		return nil, fmt.Errorf("verify: failed to open index: %w", err)
	}
	return db, nil
}

// count adds delta to the index entry of every line of path and returns the
// number of lines. visit, if set, sees each line with its 1-based number.
func count(ctx context.Context, db *pebble.DB, path string, enc encoding.Encoding, delta []byte, visit func(int64, string)) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("verify: failed to open %s: %w", path, err)
	}
	defer f.Close()

	var (
		n       int64
		pending int
		b       = db.NewBatch()
		key     []byte
	)
	defer func() { _ = b.Close() }()

	for line, err := range lineio.Seq(lineio.NewReader(f, enc)) {
		if err != nil {
			return n, fmt.Errorf("verify: failed to read %s: %w", path, err)
		}
		n++
		if visit != nil {
			visit(n, line)
		}

		key = append(append(key[:0], keyPrefix), line...)
		if err := b.Merge(key, delta, nil); err != nil {
			return n, fmt.Errorf("verify: failed to index %s: %w", path, err)
		}
		pending++
		if pending < flushEvery {
			continue
		}
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := b.Commit(pebble.NoSync); err != nil {
			return n, fmt.Errorf("verify: failed to index %s: %w", path, err)
		}
		b.Reset()
		pending = 0
	}

	if err := b.Commit(pebble.NoSync); err != nil {
		return n, fmt.Errorf("verify: failed to index %s: %w", path, err)
	}
	return n, nil
}

func mismatched(db *pebble.DB) (int64, error) {
	iter, err := db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{keyPrefix},
		UpperBound: []byte{keyPrefix + 1},
	})
	if err != nil {
		return 0, fmt.Errorf("verify: failed to scan index: %w", err)
	}

	var bad int64
	for iter.First(); iter.Valid(); iter.Next() {
		n, err := decodeCount(iter.Value())
		if err != nil {
			_ = iter.Close()
			return bad, err
		}
		if n != 0 {
			bad++
		}
	}
	if err := iter.Close(); err != nil {
		return bad, fmt.Errorf("verify: failed to scan index: %w", err)
	}
	return bad, nil
}

// pebbleLogger routes pebble's own messages into zerolog at debug level.
type pebbleLogger struct {
	zerolog.Logger
}

func (l pebbleLogger) Infof(format string, args ...any) {
	l.Debug().Str("component", "pebble").Msgf(format, args...)
}

func (l pebbleLogger) Errorf(format string, args ...any) {
	l.Error().Str("component", "pebble").Msgf(format, args...)
}

func (l pebbleLogger) Fatalf(format string, args ...any) {
	l.Fatal().Str("component", "pebble").Msgf(format, args...)
}
