package merge

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/awant/huge-file-sorting/cursor"
	"github.com/awant/huge-file-sorting/lineio"
)

const (
	outputBufferSize = 64 * 1024
	checkEvery       = 4096
)

var ErrNilLess = errors.New("merge: comparator is required")

// Result summarizes a merge.
type Result struct {
	Lines int64
	Bytes int64
}

// Merge repeatedly writes the smallest current line among the cursors to w
// and advances the cursor it came from, until every cursor is exhausted. When
// several cursors hold equal lines the one with the lowest index is taken
// first. Merge does not close the cursors.
func Merge(ctx context.Context, w io.Writer, cursors []cursor.Cursor, less func(a, b string) bool, s Strategy) (Result, error) {
	var res Result
	if less == nil {
		return res, ErrNilLess
	}
	sel, err := newSelector(s, cursors, less)
	if err != nil {
		return res, fmt.Errorf("%w: %d", err, int(s))
	}

	bw := bufio.NewWriterSize(w, outputBufferSize)
	for {
		if res.Lines%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		i := sel.min()
		if i < 0 {
			break
		}
		c := cursors[i]
		n, err := lineio.WriteLine(bw, c.Line())
		if err != nil {
			return res, fmt.Errorf("merge: failed to write output: %w", err)
		}
		res.Lines++
		res.Bytes += n

		if err := c.Advance(); err != nil {
			return res, fmt.Errorf("merge: failed to advance run %d: %w", i, err)
		}
		sel.fix(i)
	}

	if err := bw.Flush(); err != nil {
		return res, fmt.Errorf("merge: failed to write output: %w", err)
	}
	return res, nil
}
