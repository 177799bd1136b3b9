package filesort

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that the input file does not exist.
	ErrNotFound = errors.New("filesort: not found")
	// ErrIO reports a failure to read, write, create or remove a file.
	ErrIO = errors.New("filesort: i/o error")
	// ErrConfig reports an unusable option such as a memory budget too small
	// for a single line.
	ErrConfig = errors.New("filesort: invalid configuration")
)

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConfig}, args...)...)
}

// ioError classifies err as ErrIO unless it is a cancellation, which is
// returned untouched.
func ioError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
