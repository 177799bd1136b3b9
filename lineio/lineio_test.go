package lineio_test

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/awant/huge-file-sorting/lineio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var errRead = errors.New("disk on fire")

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errRead }

func TestReadLine(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLines []string
		wantSizes []int
	}{
		{
			name:      "empty input",
			input:     "",
			wantLines: nil,
			wantSizes: nil,
		},
		{
			name:      "terminated lines",
			input:     "banana\napple\n",
			wantLines: []string{"banana", "apple"},
			wantSizes: []int{7, 6},
		},
		{
			name:      "missing final terminator",
			input:     "banana\napple",
			wantLines: []string{"banana", "apple"},
			wantSizes: []int{7, 5},
		},
		{
			name:      "empty lines are lines",
			input:     "\n\na\n\n",
			wantLines: []string{"", "", "a", ""},
			wantSizes: []int{1, 1, 2, 1},
		},
		{
			name:      "carriage return is content",
			input:     "a\r\nb\r\n",
			wantLines: []string{"a\r", "b\r"},
			wantSizes: []int{3, 3},
		},
		{
			name:      "long line",
			input:     strings.Repeat("x", 1<<17) + "\n",
			wantLines: []string{strings.Repeat("x", 1<<17)},
			wantSizes: []int{1<<17 + 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := bufio.NewReader(strings.NewReader(tt.input))
			var (
				lines []string
				sizes []int
			)
			for {
				line, n, err := lineio.ReadLine(br)
				if errors.Is(err, io.EOF) {
					assert.Zero(t, n)
					break
				}
				require.NoError(t, err)
				lines = append(lines, line)
				sizes = append(sizes, n)
			}
			assert.Equal(t, tt.wantLines, lines)
			assert.Equal(t, tt.wantSizes, sizes)
		})
	}
}

func TestReadLine_Error(t *testing.T) {
	_, _, err := lineio.ReadLine(bufio.NewReader(failingReader{}))
	assert.ErrorIs(t, err, errRead)
}

func TestWriteLine(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	n, err := lineio.WriteLine(w, "apple")
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	n, err = lineio.WriteLine(w, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, w.Flush())
	assert.Equal(t, "apple\n\n", buf.String())
}

func TestEstimateSize(t *testing.T) {
	assert.Equal(t, lineio.LineOverhead, lineio.EstimateSize(""))
	assert.Equal(t, lineio.LineOverhead+5, lineio.EstimateSize("apple"))
}

func TestSeq(t *testing.T) {
	t.Run("all lines", func(t *testing.T) {
		var got []string
		for line, err := range lineio.Seq(strings.NewReader("c\nb\na")) {
			require.NoError(t, err)
			got = append(got, line)
		}
		assert.Equal(t, []string{"c", "b", "a"}, got)
	})

	t.Run("early stop", func(t *testing.T) {
		var got []string
		for line := range lineio.Seq(strings.NewReader("c\nb\na\n")) {
			got = append(got, line)
			if len(got) == 2 {
				break
			}
		}
		assert.Equal(t, []string{"c", "b"}, got)
	})

	t.Run("read error", func(t *testing.T) {
		var errs []error
		for _, err := range lineio.Seq(failingReader{}) {
			errs = append(errs, err)
		}
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], errRead)
	})
}

func TestLookupEncoding(t *testing.T) {
	tests := []struct {
		name    string
		want    encoding.Encoding
		wantErr bool
	}{
		{name: "", want: encoding.Nop},
		{name: "UTF-8", want: encoding.Nop},
		{name: " utf8 ", want: encoding.Nop},
		{name: "windows-1251", want: charmap.Windows1251},
		{name: "no-such-charset", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lineio.LookupEncoding(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, lineio.ErrUnknownEncoding)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReaderWriter_RoundTrip(t *testing.T) {
	enc, err := lineio.LookupEncoding("windows-1251")
	require.NoError(t, err)

	var encoded bytes.Buffer
	w := lineio.NewWriter(&encoded, enc)
	_, err = io.WriteString(w, "привет\nмир\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// cp1251 is one byte per Cyrillic letter.
	assert.Equal(t, len("привет\nмир\n")/2+1, encoded.Len())

	var got []string
	for line, err := range lineio.Seq(lineio.NewReader(&encoded, enc)) {
		require.NoError(t, err)
		got = append(got, line)
	}
	assert.Equal(t, []string{"привет", "мир"}, got)
}

func TestReaderWriter_PassThrough(t *testing.T) {
	raw := "caf\xe9\n"
	r := lineio.NewReader(strings.NewReader(raw), encoding.Nop)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, raw, string(b))

	var buf bytes.Buffer
	w := lineio.NewWriter(&buf, nil)
	_, err = io.WriteString(w, raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, raw, buf.String())
}
