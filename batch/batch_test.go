package batch_test

import (
	"context"
	"errors"
	"io"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awant/huge-file-sorting/batch"
	"github.com/awant/huge-file-sorting/lineio"
	"github.com/awant/huge-file-sorting/storage/local"
)

var errBoom = errors.New("boom")

func lessString(a, b string) bool { return a < b }

func newStore(t *testing.T) *local.Storage {
	t.Helper()
	s, err := local.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func readRun(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	for line, err := range lineio.Seq(f) {
		require.NoError(t, err)
		lines = append(lines, line)
	}
	return lines
}

// budget returns a memory budget holding exactly n lines of length l.
func budget(n, l int) int64 {
	return int64(n) * (lineio.LineOverhead + int64(l))
}

func TestNewProducer(t *testing.T) {
	tests := []struct {
		name    string
		opts    batch.Options
		wantErr error
	}{
		{
			name: "valid",
			opts: batch.Options{MaxMemory: 1024, Less: lessString},
		},
		{
			name: "minimum budget",
			opts: batch.Options{MaxMemory: batch.MinMemory, Less: lessString},
		},
		{
			name:    "budget below one line",
			opts:    batch.Options{MaxMemory: batch.MinMemory - 1, Less: lessString},
			wantErr: batch.ErrMemoryTooSmall,
		},
		{
			name:    "zero budget",
			opts:    batch.Options{Less: lessString},
			wantErr: batch.ErrMemoryTooSmall,
		},
		{
			name:    "missing comparator",
			opts:    batch.Options{MaxMemory: 1024},
			wantErr: batch.ErrNilLess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := batch.NewProducer(newStore(t), tt.opts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}

func TestProducer_Produce(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxMemory int64
		less      func(a, b string) bool
		wantRuns  [][]string
	}{
		{
			name:      "empty input",
			input:     "",
			maxMemory: 1024,
			wantRuns:  nil,
		},
		{
			name:      "single batch",
			input:     "banana\napple\ncherry\n",
			maxMemory: 1 << 20,
			wantRuns:  [][]string{{"apple", "banana", "cherry"}},
		},
		{
			name:      "budget splits batches",
			input:     "d\nc\nb\na\n",
			maxMemory: budget(2, 1),
			wantRuns:  [][]string{{"c", "d"}, {"a", "b"}},
		},
		{
			name:      "uneven last batch",
			input:     "e\nd\nc\nb\na",
			maxMemory: budget(2, 1),
			wantRuns:  [][]string{{"d", "e"}, {"b", "c"}, {"a"}},
		},
		{
			name:      "oversized lines get their own batch",
			input:     "zzzzzzzz\nyyyyyyyy\nx\n",
			maxMemory: batch.MinMemory,
			wantRuns:  [][]string{{"zzzzzzzz"}, {"yyyyyyyy"}, {"x"}},
		},
		{
			name:      "oversized line between small ones",
			input:     "b\na\n" + strings.Repeat("q", 100) + "\nd\nc\n",
			maxMemory: budget(2, 1),
			wantRuns:  [][]string{{"a", "b"}, {strings.Repeat("q", 100)}, {"c", "d"}},
		},
		{
			name:      "empty lines are kept",
			input:     "b\n\na\n\n",
			maxMemory: 1024,
			wantRuns:  [][]string{{"", "", "a", "b"}},
		},
		{
			name:      "stable within a batch",
			input:     "b1\na2\na1\nb2\n",
			maxMemory: 1024,
			less:      func(a, b string) bool { return a[0] < b[0] },
			wantRuns:  [][]string{{"a2", "a1", "b1", "b2"}},
		},
		{
			name:      "descending comparator",
			input:     "a\nc\nb\n",
			maxMemory: 1024,
			less:      func(a, b string) bool { return a > b },
			wantRuns:  [][]string{{"c", "b", "a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			less := tt.less
			if less == nil {
				less = lessString
			}
			store := newStore(t)
			p, err := batch.NewProducer(store, batch.Options{MaxMemory: tt.maxMemory, Less: less})
			require.NoError(t, err)

			runs, err := p.Produce(context.Background(), strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Len(t, runs, len(tt.wantRuns))

			for i, run := range runs {
				assert.Equal(t, local.RunName(i), run.Name)
				assert.Equal(t, store.Path(run.Name), run.Path)
				assert.Equal(t, len(tt.wantRuns[i]), run.Lines)
				assert.Equal(t, tt.wantRuns[i], readRun(t, run.Path))

				info, err := os.Stat(run.Path)
				require.NoError(t, err)
				assert.Equal(t, info.Size(), run.Bytes)
			}

			names, err := store.List(context.Background())
			require.NoError(t, err)
			assert.Len(t, names, len(tt.wantRuns))
		})
	}
}

func TestProducer_ProduceCoversInput(t *testing.T) {
	var input []string
	for i := range 500 {
		input = append(input, strings.Repeat(string(rune('a'+i%26)), 1+i%13))
	}

	store := newStore(t)
	p, err := batch.NewProducer(store, batch.Options{MaxMemory: 512, Less: lessString})
	require.NoError(t, err)

	runs, err := p.Produce(context.Background(), strings.NewReader(strings.Join(input, "\n")))
	require.NoError(t, err)
	assert.Greater(t, len(runs), 10)

	var all []string
	for _, run := range runs {
		lines := readRun(t, run.Path)
		assert.True(t, slices.IsSorted(lines), "run %s is not sorted", run.Name)
		all = append(all, lines...)
	}

	slices.Sort(all)
	slices.Sort(input)
	assert.Equal(t, input, all)
}

type mockStorage struct {
	createFunc func(ctx context.Context, name string) (io.WriteCloser, error)
}

func (m *mockStorage) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	return m.createFunc(ctx, name)
}

func (m *mockStorage) Path(name string) string { return "/runs/" + name }

type failingWriter struct {
	writeErr error
	closeErr error
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.writeErr != nil {
		return 0, w.writeErr
	}
	return len(p), nil
}

func (w *failingWriter) Close() error { return w.closeErr }

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errBoom }

func TestProducer_ProduceErrors(t *testing.T) {
	tests := []struct {
		name    string
		ctx     func() context.Context
		input   io.Reader
		create  func(ctx context.Context, name string) (io.WriteCloser, error)
		wantErr error
		wantMsg string
	}{
		{
			name:  "create fails",
			input: strings.NewReader("a\n"),
			create: func(context.Context, string) (io.WriteCloser, error) {
				return nil, errBoom
			},
			wantErr: errBoom,
			wantMsg: "batch: failed to create run: boom",
		},
		{
			name:  "write fails",
			input: strings.NewReader("a\n"),
			create: func(context.Context, string) (io.WriteCloser, error) {
				return &failingWriter{writeErr: errBoom}, nil
			},
			wantErr: errBoom,
			wantMsg: "batch: failed to write run /runs/0.part: boom",
		},
		{
			name:  "close fails",
			input: strings.NewReader("a\n"),
			create: func(context.Context, string) (io.WriteCloser, error) {
				return &failingWriter{closeErr: errBoom}, nil
			},
			wantErr: errBoom,
			wantMsg: "batch: failed to close run /runs/0.part: boom",
		},
		{
			name:    "read fails",
			input:   failingReader{},
			wantErr: errBoom,
			wantMsg: "batch: failed to read input: boom",
		},
		{
			name: "context canceled",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			input:   strings.NewReader("a\nb\n"),
			wantErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			create := tt.create
			if create == nil {
				create = func(context.Context, string) (io.WriteCloser, error) {
					return &failingWriter{}, nil
				}
			}
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}

			p, err := batch.NewProducer(&mockStorage{createFunc: create}, batch.Options{
				MaxMemory: 1024,
				Less:      lessString,
				Logger:    zerolog.Nop(),
			})
			require.NoError(t, err)

			_, err = p.Produce(ctx, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
		})
	}
}
