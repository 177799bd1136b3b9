// Package config resolves the command-line configuration from defaults, an
// optional yaml file and FILESORT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/mem"
	"gopkg.in/yaml.v3"

	"github.com/awant/huge-file-sorting/lineio"
	"github.com/awant/huge-file-sorting/merge"
)

// Environment variables read by ApplyEnv.
const (
	EnvMaxMem   = "FILESORT_MAX_MEM"
	EnvFDCount  = "FILESORT_FD_COUNT"
	EnvEncoding = "FILESORT_ENCODING"
	EnvTempDir  = "FILESORT_TMP_DIR"
	EnvLogLevel = "FILESORT_LOG_LEVEL"
)

const DefaultFDCount = 1024

var ErrInvalid = errors.New("config: invalid value")

// availableMemory reports free system memory in bytes.
//
//nolint:gochecknoglobals // replaced in tests
var availableMemory = func() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

// Config holds the settings of one sort run.
type Config struct {
	// MaxMemory is a byte count such as "1073741824" or "512MiB". Empty means
	// half of the available system memory.
	MaxMemory string    `yaml:"max_mem"`
	FDCount   int       `yaml:"fd_count"`
	Encoding  string    `yaml:"encoding,omitempty"`
	Locale    string    `yaml:"locale,omitempty"`
	Reverse   bool      `yaml:"reverse,omitempty"`
	Merge     string    `yaml:"merge,omitempty"`
	TempDir   string    `yaml:"tmp_dir,omitempty"`
	Log       LogConfig `yaml:"log"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level string `yaml:"level"`
	// Format is "console", "json" or empty to pick by terminal.
	Format string `yaml:"format,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FDCount: DefaultFDCount,
		Merge:   merge.Loser.String(),
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from FILESORT_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvMaxMem); ok && v != "" {
		c.MaxMemory = v
	}
	if v, ok := lookup(EnvFDCount); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, EnvFDCount, v, err)
		}
		c.FDCount = n
	}
	if v, ok := lookup(EnvEncoding); ok && v != "" {
		c.Encoding = v
	}
	if v, ok := lookup(EnvTempDir); ok && v != "" {
		c.TempDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	return nil
}

// MaxMemoryBytes resolves MaxMemory to a byte count.
func (c *Config) MaxMemoryBytes() (int64, error) {
	if strings.TrimSpace(c.MaxMemory) == "" {
		avail, err := availableMemory()
		if err != nil {
			return 0, fmt.Errorf("config: failed to read available memory: %w", err)
		}
		return int64(avail / 2), nil
	}
	n, err := humanize.ParseBytes(c.MaxMemory)
	if err != nil {
		return 0, fmt.Errorf("%w: max_mem %q: %w", ErrInvalid, c.MaxMemory, err)
	}
	return int64(n), nil
}

// Validate checks the values that can be checked without touching files.
func (c *Config) Validate() error {
	if c.FDCount < 2 {
		return fmt.Errorf("%w: fd_count %d is below 2", ErrInvalid, c.FDCount)
	}
	if _, err := c.MaxMemoryBytes(); err != nil {
		return err
	}
	if _, err := lineio.LookupEncoding(c.Encoding); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := merge.ParseStrategy(c.Merge); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
