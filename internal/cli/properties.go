package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/doctrans/internal/engine"
	"github.com/roach88/doctrans/internal/locate"
)

// SyncPropertiesOptions holds flags for the sync-properties command.
type SyncPropertiesOptions struct {
	*RootOptions
	SyncOptions

	InputFile   string
	InputParam  string
	InputEval   bool
	OutputFile  string
	OutputParam []string
	Wrap        string
}

// NewSyncPropertiesCommand creates the sync-properties command.
func NewSyncPropertiesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncPropertiesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync-properties",
		Short: "Copy one property's type and default onto other properties",
		Long: `Copy the annotation and value at --input-param onto each --output-param.

Addresses are dotted name paths: "MyClass.field", "func.param",
"MyClass.method.param" or a module-level "NAME". A parameter source
contributes its default; a field contributes its value. With --input-eval
the value is evaluated against the module's constants first and the
result is copied as a literal.

Targets are rewritten in order and the file is written after each one, so
an unresolved target leaves the earlier ones written.

Examples:
  doctrans sync-properties --input-file mod.py --input-param MyClass.tfds_dir \
      --output-file mod.py --output-param other_func.tfds_dir
  doctrans sync-properties --input-file consts.py --input-param BATCH --input-eval \
      --output-file train.py --output-param train.batch --output-param-wrap "Optional[{type}]"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSyncProperties(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.InputFile, "input-file", "", "file holding the source property")
	f.StringVar(&opts.InputParam, "input-param", "", "address of the source property")
	f.BoolVar(&opts.InputEval, "input-eval", false, "evaluate the source value and copy the literal result")
	f.StringVar(&opts.OutputFile, "output-file", "", "file holding the target properties")
	f.StringArrayVar(&opts.OutputParam, "output-param", nil, "address of a target property (repeatable)")
	f.StringVar(&opts.Wrap, "output-param-wrap", "", `wrap the copied type, e.g. "Optional[{type}]"`)
	f.BoolVar(&opts.DryRun, "dry-run", false, "print diffs instead of writing")
	f.StringVar(&opts.Journal, "journal", "", "record writes in this SQLite journal")
	for _, name := range []string{"input-file", "input-param", "output-file", "output-param"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runSyncProperties(cmd *cobra.Command, opts *SyncPropertiesOptions) error {
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

	report, runErr := s.engine.SyncProperties(cmd.Context(), req)
	return finishSync(cmd, out, s, report, runErr)
}

func (o *SyncPropertiesOptions) request() (engine.PropertyRequest, error) {
	src, err := locate.ParseAddress(o.InputParam)
	if err != nil {
		return engine.PropertyRequest{}, fmt.Errorf("--input-param: %w", err)
	}
	req := engine.PropertyRequest{
		SourceFile:    o.InputFile,
		SourceAddress: src,
		Mode:          engine.ModeCopy,
		TargetFile:    o.OutputFile,
		WrapType:      o.Wrap,
	}
	if o.InputEval {
		req.Mode = engine.ModeEval
	}
	for _, p := range o.OutputParam {
		addr, err := locate.ParseAddress(p)
		if err != nil {
			return engine.PropertyRequest{}, fmt.Errorf("--output-param %q: %w", p, err)
		}
		req.TargetAddresses = append(req.TargetAddresses, addr)
	}
	return req, nil
}
