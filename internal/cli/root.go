package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	filesort "github.com/awant/huge-file-sorting"
	"github.com/awant/huge-file-sorting/internal/config"
	"github.com/awant/huge-file-sorting/lineio"
	"github.com/awant/huge-file-sorting/merge"
)

// DefaultInput is the file sorted when --inp is not given.
const DefaultInput = "huge_file.txt"

const rootCmdExample = `  # Sort huge_file.txt into huge_file.txt.sorted
  filesort

  # Sort with a 512 MiB batch budget and at most 64 open files
  filesort --inp data.txt --out data.sorted --max_mem 512MiB --fd_count 64

  # Sort a windows-1251 file in Russian collation order, largest first
  filesort --inp ru.txt --encoding windows-1251 --locale ru --reverse`

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	debug      bool
}

type sortFlags struct {
	input    string
	output   string
	maxMem   string
	fdCount  int
	encoding string
	locale   string
	reverse  bool
	merge    string
	tmpDir   string
}

// NewRootCmd creates the filesort command. Running it without a subcommand
// sorts a file.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit environment
// lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	var (
		g globalFlags
		f sortFlags
	)

	cmd := &cobra.Command{
		Use:           "filesort",
		Short:         "Sort text files larger than memory",
		Long:          "filesort sorts the lines of a file using bounded memory and a bounded number of open files.",
		Version:       ver,
		Example:       rootCmdExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, g, f, lookupEnv)
			if err != nil {
				return err
			}
			return runSort(cmd, f, cfg, loggerFor(cmd, cfg))
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "path to a yaml config file")
	pf.StringVar(&g.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&g.logFormat, "log-format", "", "log format (console, json); default depends on the terminal")
	pf.BoolVar(&g.debug, "debug", false, "enable debug logging")

	fl := cmd.Flags()
	fl.StringVar(&f.input, "inp", DefaultInput, "path to the file to sort")
	fl.StringVar(&f.output, "out", "", "path to the sorted file (default <inp>.sorted)")
	fl.StringVar(&f.maxMem, "max_mem", "", "batch memory budget, e.g. 1073741824 or 512MiB (default half of available memory)")
	fl.IntVar(&f.fdCount, "fd_count", config.DefaultFDCount, "maximum number of files open at once")
	fl.StringVar(&f.encoding, "encoding", "", "text encoding of input and output (default utf-8)")
	fl.StringVar(&f.locale, "locale", "", "collate lines for this locale instead of by bytes")
	fl.BoolVar(&f.reverse, "reverse", false, "sort largest first")
	fl.StringVar(&f.merge, "merge", merge.Loser.String(), "merge structure (loser, heap, btree, scan)")
	fl.StringVar(&f.tmpDir, "tmp_dir", "", "directory for temporary runs (default system temp dir)")

	cmd.AddCommand(
		NewGenerateCmd(&g),
		NewVerifyCmd(&g, lookupEnv),
	)
	return cmd
}

// resolveConfig layers defaults, the config file, the environment and the
// flags the user actually set, in that order.
func resolveConfig(cmd *cobra.Command, g globalFlags, f sortFlags, lookupEnv func(string) (string, bool)) (config.Config, error) {
	cfg := config.Default()
	if g.configPath != "" {
		loaded, err := config.Load(g.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(lookupEnv); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("max_mem") {
		cfg.MaxMemory = f.maxMem
	}
	if flags.Changed("fd_count") {
		cfg.FDCount = f.fdCount
	}
	if flags.Changed("encoding") {
		cfg.Encoding = f.encoding
	}
	if flags.Changed("locale") {
		cfg.Locale = f.locale
	}
	if flags.Changed("reverse") {
		cfg.Reverse = f.reverse
	}
	if flags.Changed("merge") {
		cfg.Merge = f.merge
	}
	if flags.Changed("tmp_dir") {
		cfg.TempDir = f.tmpDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = g.logFormat
	}
	if g.debug {
		cfg.Log.Level = zerolog.LevelDebugValue
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %w", filesort.ErrConfig, err)
	}
	return cfg, nil
}

func loggerFor(cmd *cobra.Command, cfg config.Config) zerolog.Logger {
	return newLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
}

// comparatorFor builds the line ordering from the locale and direction.
func comparatorFor(cfg config.Config) (filesort.Comparator, error) {
	less := filesort.Comparator(filesort.Ascending)
	if cfg.Locale != "" {
		c, err := filesort.Collation(cfg.Locale)
		if err != nil {
			return nil, err
		}
		less = c
	}
	if cfg.Reverse {
		less = less.Reverse()
	}
	return less, nil
}

func runSort(cmd *cobra.Command, f sortFlags, cfg config.Config, logger zerolog.Logger) error {
	maxMem, err := cfg.MaxMemoryBytes()
	if err != nil {
		return fmt.Errorf("%w: %w", filesort.ErrConfig, err)
	}
	enc, err := lineio.LookupEncoding(cfg.Encoding)
	if err != nil {
		return fmt.Errorf("%w: %w", filesort.ErrConfig, err)
	}
	strategy, err := merge.ParseStrategy(cfg.Merge)
	if err != nil {
		return fmt.Errorf("%w: %w", filesort.ErrConfig, err)
	}
	less, err := comparatorFor(cfg)
	if err != nil {
		return err
	}

	s, err := filesort.New(f.input, f.output,
		filesort.WithMaxMemory(maxMem),
		filesort.WithFDLimit(cfg.FDCount),
		filesort.WithComparator(less),
		filesort.WithEncoding(enc),
		filesort.WithTempDir(cfg.TempDir),
		filesort.WithMergeStrategy(strategy),
		filesort.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	logger.Debug().
		Str("input", s.Input()).
		Str("output", s.Output()).
		Str("max_mem", humanize.IBytes(uint64(maxMem))).
		Int("fd_count", cfg.FDCount).
		Msg("sorting")

	stats, err := s.Sort(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "sorted %s lines (%s) into %s: %d runs, %s cursors, %s\n",
		humanize.Comma(stats.Lines),
		humanize.IBytes(uint64(stats.Bytes)),
		s.Output(),
		stats.Runs,
		stats.Strategy,
		stats.Duration.Round(time.Millisecond),
	)
	return nil
}
