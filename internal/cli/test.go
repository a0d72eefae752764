package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/doctrans/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	GoldenDir string // defaults to <scenario-dir>/../golden when it exists
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenario-dir>",
		Short: "Run sync scenarios",
		Long: `Run every scenario file (*.yaml, *.yml) in a directory against an
in-memory copy of its files, checking the expected outcome and the
assertions. When a golden directory is found, each scenario's snapshot is
compared with <golden-dir>/<name>.golden.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  doctrans test ./testdata/scenarios
  doctrans test ./testdata/scenarios --golden ./testdata/golden --update
  doctrans test ./testdata/scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden", "", "golden file directory")

	return cmd
}

func runTests(cmd *cobra.Command, opts *TestOptions, dir string) error {
	out := opts.formatter(cmd)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenario directory not found: %s", dir))
	}

	golden := opts.GoldenDir
	if golden == "" {
		sibling := filepath.Join(filepath.Dir(filepath.Clean(dir)), "golden")
		if info, err := os.Stat(sibling); err == nil && info.IsDir() {
			golden = sibling
		}
	}
	if opts.Update && golden == "" {
		return NewExitError(ExitCommandError, "--update needs a golden directory: pass --golden")
	}
	out.VerboseLog("golden dir: %q", golden)

	res, err := harness.RunSuite(cmd.Context(), dir, harness.SuiteOptions{GoldenDir: golden, Update: opts.Update})
	if err != nil {
		return out.Fail(ExitCommandError, err)
	}

	if out.structured() {
		if err := out.Success(res); err != nil {
			return err
		}
	} else {
		writeSuite(cmd, res)
	}
	if res.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", res.Failed, res.Total))
	}
	return nil
}

func writeSuite(cmd *cobra.Command, res *harness.SuiteResult) {
	w := cmd.OutOrStdout()
	for _, f := range res.Failures {
		fmt.Fprintf(w, "✗ %s (%s)\n", f.Scenario, f.Path)
		for _, e := range f.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	fmt.Fprintf(w, "\nPassed: %d, Failed: %d, Total: %d\n", res.Passed, res.Failed, res.Total)
}
