package verify

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cockroachdb/pebble"
)

// counterMergerName is persisted by pebble; changing the encoding needs a new name.
const counterMergerName = "filesort.count.v1"

// counterMerger sums little-endian int64 deltas written with Batch.Merge.
var counterMerger = &pebble.Merger{
	Name: counterMergerName,
	Merge: func(_, value []byte) (pebble.ValueMerger, error) {
		c := &counter{}
		if err := c.add(value); err != nil {
			return nil, err
		}
		return c, nil
	},
}

type counter struct {
	sum int64
}

var _ pebble.ValueMerger = (*counter)(nil)

func (c *counter) add(value []byte) error {
	n, err := decodeCount(value)
	if err != nil {
		return err
	}
	c.sum += n
	return nil
}

func (c *counter) MergeNewer(value []byte) error { return c.add(value) }

func (c *counter) MergeOlder(value []byte) error { return c.add(value) }

func (c *counter) Finish(bool) ([]byte, io.Closer, error) {
	return encodeCount(c.sum), nil, nil
}

func encodeCount(n int64) []byte {
	return binary.LittleEndian.AppendUint64(nil, uint64(n))
}

func decodeCount(b []byte) (int64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("verify: corrupt count of %d bytes", len(b))
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}
