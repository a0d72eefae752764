package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/doctrans/internal/engine"
)

// SyncCommandOptions holds flags for the sync command.
type SyncCommandOptions struct {
	*RootOptions
	SyncOptions

	ArgparseFiles []string
	ArgparseNames []string
	ClassFiles    []string
	ClassNames    []string
	FunctionFiles []string
	FunctionNames []string
	Truth         string
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncCommandOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Rewrite every artifact from the truth artifact",
		Long: `Read the first artifact of the --truth group and rewrite every other
artifact from it. Groups are processed in the order argparse, class,
function. Each file flag is repeatable; the matching --*-name flag names
the def in that file by position ("Class.method" selects a method).

A missing target file is created. A failing target stops the run; files
written before it are kept.

Exit codes:
  0 - All targets written
  1 - Sync failed
  2 - Command error (invalid flags, unreadable config, etc.)

Examples:
  doctrans sync --class config.py --argparse-function cli.py --truth class
  doctrans sync --function train.py --function-name Trainer.fit \
      --class config.py --truth function --dry-run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&opts.ArgparseFiles, "argparse-function", nil, "file holding an argparse function (repeatable)")
	f.StringArrayVar(&opts.ArgparseNames, "argparse-function-name", nil, "argparse function name, by position")
	f.StringArrayVar(&opts.ClassFiles, "class", nil, "file holding a class (repeatable)")
	f.StringArrayVar(&opts.ClassNames, "class-name", nil, "class name, by position")
	f.StringArrayVar(&opts.FunctionFiles, "function", nil, "file holding a function (repeatable)")
	f.StringArrayVar(&opts.FunctionNames, "function-name", nil, "function name, by position")
	f.StringVar(&opts.Truth, "truth", "", "group holding the truth artifact (argparse-function|class|function)")
	f.BoolVar(&opts.DryRun, "dry-run", false, "print diffs instead of writing")
	f.StringVar(&opts.Journal, "journal", "", "record writes in this SQLite journal")
	_ = cmd.MarkFlagRequired("truth")

	return cmd
}

func runSync(cmd *cobra.Command, opts *SyncCommandOptions) error {
	out := opts.formatter(cmd)

	req, err := opts.request()
	if err != nil {
		return out.Fail(ExitCommandError, err)
	}

	s, err := opts.openSession(opts.SyncOptions)
	if err != nil {
		return out.Fail(ExitCommandError, err)
	}
	defer s.Close()

	report, runErr := s.engine.GroundTruth(cmd.Context(), req)
	return finishSync(cmd, out, s, report, runErr)
}

func (o *SyncCommandOptions) request() (engine.GroundTruthRequest, error) {
	truth, err := engine.ParseGroup(o.Truth)
	if err != nil {
		return engine.GroundTruthRequest{}, err
	}
	req := engine.GroundTruthRequest{Truth: truth}
	if req.Argparse, err = pair("argparse-function", o.ArgparseFiles, o.ArgparseNames); err != nil {
		return req, err
	}
	if req.Class, err = pair("class", o.ClassFiles, o.ClassNames); err != nil {
		return req, err
	}
	if req.Function, err = pair("function", o.FunctionFiles, o.FunctionNames); err != nil {
		return req, err
	}
	return req, nil
}

// pair matches names to files by position. Files past the last name use
// the group default.
func pair(flag string, files, names []string) ([]engine.Artifact, error) {
	if len(names) > len(files) {
		return nil, fmt.Errorf("--%s-name given %d times but --%s only %d times", flag, len(names), flag, len(files))
	}
	out := make([]engine.Artifact, len(files))
	for i, f := range files {
		out[i] = engine.Artifact{File: f}
		if i < len(names) {
			out[i].Name = names[i]
		}
	}
	return out, nil
}

// finishSync prints the run outcome, diffs for a dry run, and the error
// when the run failed part way.
func finishSync(cmd *cobra.Command, out *OutputFormatter, s *session, report *engine.Report, runErr error) error {
	res := s.result(report)
	if out.structured() {
		if runErr != nil {
			return out.Fail(ExitFailure, runErr)
		}
		return out.SuccessRun(res.RunID, res)
	}

	w := cmd.OutOrStdout()
	verb := "wrote"
	if res.DryRun {
		verb = "would write"
	}
	for _, p := range res.Written {
		fmt.Fprintf(w, "%s %s\n", verb, p)
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	if res.DryRun {
		writeDiffs(w, res.Diffs, useColor(w))
	}
	if runErr != nil {
		return out.Fail(ExitFailure, runErr)
	}
	if len(res.Written) == 0 {
		fmt.Fprintln(w, "nothing to write")
	}
	out.VerboseLog("run %s: %s", res.RunID, strings.Join(res.Written, ", "))
	return nil
}
