package filesort

import (
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"

	"github.com/awant/huge-file-sorting/merge"
)

const (
	// DefaultMaxMemory is the batch budget used when none is given.
	DefaultMaxMemory int64 = 1 << 30
	// DefaultFDLimit is the descriptor budget used when none is given.
	DefaultFDLimit = 1024
)

// options defines all configuration options for the sorter.
type options struct {
	// Batch options
	maxMemory int64 // Estimated bytes one in-memory batch may hold
	less      Comparator
	encoding  encoding.Encoding // Encoding of the input and the output
	tempDir   string            // Parent of the run directory

	// Merge options
	fdLimit int // Descriptors the merge may hold at once
	merge   merge.Strategy

	logger zerolog.Logger
}

// Option is a function that configures the sorter options.
type Option func(*options)

// WithMaxMemory sets the memory budget of one batch in bytes.
func WithMaxMemory(n int64) Option {
	return func(o *options) {
		o.maxMemory = n
	}
}

// WithFDLimit sets how many files may be open at once.
func WithFDLimit(n int) Option {
	return func(o *options) {
		o.fdLimit = n
	}
}

// WithComparator sets the line ordering.
func WithComparator(less Comparator) Option {
	return func(o *options) {
		o.less = less
	}
}

// WithEncoding sets the text encoding of the input and the output. Runs are
// always stored as UTF-8.
func WithEncoding(enc encoding.Encoding) Option {
	return func(o *options) {
		if enc == nil {
			enc = encoding.Nop
		}
		o.encoding = enc
	}
}

// WithTempDir sets where the run directory is created.
func WithTempDir(dir string) Option {
	return func(o *options) {
		o.tempDir = dir
	}
}

// WithMergeStrategy sets the structure used to pick the next line.
func WithMergeStrategy(s merge.Strategy) Option {
	return func(o *options) {
		o.merge = s
	}
}

// WithLogger sets the logger. Sorting is silent by default.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		maxMemory: DefaultMaxMemory,
		less:      Ascending,
		encoding:  encoding.Nop,
		fdLimit:   DefaultFDLimit,
		merge:     merge.Loser,
		logger:    zerolog.Nop(),
	}
}

func (o *options) validate() error {
	if o.maxMemory < MinMemory {
		return configError("max memory %d is below the %d bytes one line needs", o.maxMemory, MinMemory)
	}
	if o.fdLimit < 2 {
		return configError("fd limit %d is below 2", o.fdLimit)
	}
	if o.less == nil {
		return configError("comparator is required")
	}
	if _, err := merge.ParseStrategy(o.merge.String()); err != nil {
		return configError("%w", err)
	}
	return nil
}
