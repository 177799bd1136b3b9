package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/awant/huge-file-sorting/gen"
)

type generateFlags struct {
	output string
	lines  int
	maxLen int
	force  bool
	seed   uint64
}

// NewGenerateCmd creates the generate command, which writes a file of random
// lines to sort.
func NewGenerateCmd(g *globalFlags) *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a file of random lines",
		Example: `  # Write one million lines of up to 100 letters
  filesort generate --lines_count 1000000 --maxlen 100

  # Overwrite an existing file with a reproducible one
  filesort generate --out data.txt --lines_count 1000 --maxlen 10 --seed 42 --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("seed") {
				f.seed = uint64(time.Now().UnixNano())
			}
			return runGenerate(cmd, g, f)
		},
	}

	cmd.Flags().StringVar(&f.output, "out", DefaultInput, "path to the generated file")
	cmd.Flags().IntVar(&f.lines, "lines_count", 0, "number of lines to generate")
	cmd.Flags().IntVar(&f.maxLen, "maxlen", 0, "maximum length of every line")
	cmd.Flags().BoolVar(&f.force, "force", false, "replace the output file if it exists")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (default: current time)")
	_ = cmd.MarkFlagRequired("lines_count")
	_ = cmd.MarkFlagRequired("maxlen")

	return cmd
}

func runGenerate(cmd *cobra.Command, g *globalFlags, f generateFlags) error {
	level := g.logLevel
	if g.debug {
		level = "debug"
	}
	logger := newLogger(cmd.ErrOrStderr(), level, g.logFormat)

	n, err := gen.GenerateFile(f.output, gen.Options{
		Lines:  f.lines,
		MaxLen: f.maxLen,
		Seed:   f.seed,
	}, f.force)
	if err != nil {
		return err
	}

	logger.Info().
		Str("output", f.output).
		Int("lines_count", f.lines).
		Int("maxlen", f.maxLen).
		Uint64("seed", f.seed).
		Str("size", humanize.IBytes(uint64(n))).
		Msg("file generated")
	fmt.Fprintf(cmd.OutOrStdout(), "generated %s lines (%s) into %s\n",
		humanize.Comma(int64(f.lines)), humanize.IBytes(uint64(n)), f.output)
	return nil
}
