package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/doctrans/internal/store"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	RunID string
}

// JournalRun is one run with its writes.
type JournalRun struct {
	ID        string        `json:"id" yaml:"id"`
	Operation string        `json:"operation" yaml:"operation"`
	Truth     string        `json:"truth" yaml:"truth"`
	DryRun    bool          `json:"dry_run" yaml:"dry_run"`
	Entries   []store.Entry `json:"entries" yaml:"entries"`
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal <db>",
		Short: "List the writes recorded in a sync journal",
		Long: `List the runs recorded in a sync journal and, for each, the files it
wrote in sequence order with their content hashes.

Examples:
  doctrans journal .doctrans.db
  doctrans journal .doctrans.db --run 0190c0de-... --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournal(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.RunID, "run", "", "only this run")

	return cmd
}

func runJournal(cmd *cobra.Command, opts *JournalOptions, path string) error {
	out := opts.formatter(cmd)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("journal not found: %s", path))
	}
	j, err := store.OpenJournal(path)
	if err != nil {
		return out.Fail(ExitCommandError, err)
	}
	defer j.Close()

	ctx := cmd.Context()
	runs, err := j.Runs(ctx)
	if err != nil {
		return out.Fail(ExitFailure, err)
	}

	var listed []JournalRun
	for _, r := range runs {
		if opts.RunID != "" && r.ID != opts.RunID {
			continue
		}
		entries, err := j.Entries(ctx, r.ID)
		if err != nil {
			return out.Fail(ExitFailure, err)
		}
		listed = append(listed, JournalRun{ID: r.ID, Operation: r.Operation, Truth: r.Truth, DryRun: r.DryRun, Entries: entries})
	}
	if opts.RunID != "" && len(listed) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("run %s not found in %s", opts.RunID, path))
	}

	if out.structured() {
		return out.Success(listed)
	}
	w := cmd.OutOrStdout()
	for _, r := range listed {
		dry := ""
		if r.DryRun {
			dry = " (dry run)"
		}
		fmt.Fprintf(w, "run %s %s from %s%s\n", r.ID, r.Operation, r.Truth, dry)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, e := range r.Entries {
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", e.Seq, e.Path, shortHash(e.BeforeHash), shortHash(e.AfterHash))
		}
		tw.Flush()
	}
	return nil
}

func shortHash(h string) string {
	switch {
	case h == "":
		return "-"
	case len(h) > 12:
		return h[:12]
	}
	return h
}
