package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	filesort "github.com/awant/huge-file-sorting"
	"github.com/awant/huge-file-sorting/lineio"
	"github.com/awant/huge-file-sorting/verify"
)

// ErrVerifyFailed is returned when the output is not a sorted permutation of
// the input.
var ErrVerifyFailed = errors.New("verify: output is not the sorted input")

// NewVerifyCmd creates the verify command, which checks a sorted file against
// its input.
func NewVerifyCmd(g *globalFlags, lookupEnv func(string) (string, bool)) *cobra.Command {
	var f sortFlags
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that a sorted file matches its input",
		Example: `  # Check huge_file.txt.sorted against huge_file.txt
  filesort verify

  # Check a descending sort
  filesort verify --inp data.txt --out data.desc --reverse`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, *g, f, lookupEnv)
			if err != nil {
				return err
			}
			logger := loggerFor(cmd, cfg)

			enc, err := lineio.LookupEncoding(cfg.Encoding)
			if err != nil {
				return fmt.Errorf("%w: %w", filesort.ErrConfig, err)
			}
			less, err := comparatorFor(cfg)
			if err != nil {
				return err
			}

			output := f.output
			if output == "" {
				output = f.input + filesort.OutputSuffix
			}
			report, err := verify.Files(cmd.Context(), f.input, output, verify.Options{
				Less:     less,
				Encoding: enc,
				TempDir:  cfg.TempDir,
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "input lines:  %d\noutput lines: %d\n", report.InputLines, report.OutputLines)
			if report.Sorted {
				fmt.Fprintln(w, "order:        ok")
			} else {
				fmt.Fprintf(w, "order:        line %d sorts before the line above it\n", report.FirstDisorder)
			}
			if report.Permutation {
				fmt.Fprintln(w, "lines:        ok")
			} else {
				fmt.Fprintf(w, "lines:        %d distinct lines differ in count\n", report.Mismatched)
			}
			if !report.OK() {
				return ErrVerifyFailed
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.input, "inp", DefaultInput, "path to the original file")
	fl.StringVar(&f.output, "out", "", "path to the sorted file (default <inp>.sorted)")
	fl.StringVar(&f.encoding, "encoding", "", "text encoding of both files (default utf-8)")
	fl.StringVar(&f.locale, "locale", "", "expect collation order for this locale")
	fl.BoolVar(&f.reverse, "reverse", false, "expect largest first")
	fl.StringVar(&f.tmpDir, "tmp_dir", "", "directory for the temporary line index")
	return cmd
}
