package gen_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awant/huge-file-sorting/gen"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name    string
		opts    gen.Options
		wantErr bool
	}{
		{name: "no lines", opts: gen.Options{Lines: 0, MaxLen: 1}},
		{name: "single letter lines", opts: gen.Options{Lines: 50, MaxLen: 1, Seed: 3}},
		{name: "varied lengths", opts: gen.Options{Lines: 1000, MaxLen: 100, Seed: 4}},
		{name: "negative lines", opts: gen.Options{Lines: -1, MaxLen: 1}, wantErr: true},
		{name: "zero maxlen", opts: gen.Options{Lines: 1, MaxLen: 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := gen.Generate(&buf, tt.opts)
			if tt.wantErr {
				assert.ErrorIs(t, err, gen.ErrInvalidOptions)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(buf.Len()), n)

			out := buf.String()
			assert.Equal(t, tt.opts.Lines, strings.Count(out, "\n"))
			if tt.opts.Lines == 0 {
				return
			}
			for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
				assert.GreaterOrEqual(t, len(line), 1)
				assert.LessOrEqual(t, len(line), tt.opts.MaxLen)
				assert.Empty(t, strings.Trim(line, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"))
			}
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	opts := gen.Options{Lines: 200, MaxLen: 30, Seed: 99}
	var a, b bytes.Buffer
	_, err := gen.Generate(&a, opts)
	require.NoError(t, err)
	_, err = gen.Generate(&b, opts)
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())

	var c bytes.Buffer
	opts.Seed++
	_, err = gen.Generate(&c, opts)
	require.NoError(t, err)
	assert.NotEqual(t, a.String(), c.String())
}

func TestGenerateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge_file.txt")
	opts := gen.Options{Lines: 10, MaxLen: 5, Seed: 1}

	n, err := gen.GenerateFile(path, opts, false)
	require.NoError(t, err)
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fi.Size(), n)

	_, err = gen.GenerateFile(path, opts, false)
	assert.ErrorIs(t, err, gen.ErrExists)

	opts.Lines = 3
	_, err = gen.GenerateFile(path, opts, true)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, bytes.Count(data, []byte("\n")))
}

func TestGenerateFile_InvalidOptionsLeaveNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	_, err := gen.GenerateFile(path, gen.Options{Lines: 1}, false)
	assert.ErrorIs(t, err, gen.ErrInvalidOptions)
	assert.NoFileExists(t, path)
}
