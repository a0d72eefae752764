package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/doctrans/internal/docstring"
	"github.com/roach88/doctrans/internal/emit"
	"github.com/roach88/doctrans/internal/ir"
	"github.com/roach88/doctrans/internal/syntax"
)

// EmitOptions holds flags for the emit command.
type EmitOptions struct {
	*RootOptions
	Name string
	Kind string
	To   string
	As   string
}

// EmitResult is the emit command output.
type EmitResult struct {
	From   string `json:"from" yaml:"from"`
	To     string `json:"to" yaml:"to"`
	Source string `json:"source" yaml:"source"`
}

// NewEmitCommand creates the emit command.
func NewEmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EmitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "emit <file>",
		Short: "Convert one artifact into another form and print it",
		Long: `Read one artifact, as parse does, and print it converted to --to.
Nothing is written; use sync to rewrite files.

Examples:
  doctrans emit config.py --to argparse
  doctrans emit train.py --name train --to class --as TrainConfig
  doctrans emit cli.py --kind argparse --to docstring`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			res, err := opts.readIR(args[0], opts.Name, opts.Kind)
			if err != nil {
				return out.Fail(ExitFailure, err)
			}
			src, err := opts.render(res.IR)
			if err != nil {
				return out.Fail(ExitCommandError, err)
			}
			if out.structured() {
				return out.Success(EmitResult{From: res.Kind, To: opts.To, Source: src})
			}
			fmt.Fprint(cmd.OutOrStdout(), src)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "def to read; required when the file holds several")
	cmd.Flags().StringVar(&opts.Kind, "kind", KindAuto, "input kind (auto|class|function|argparse|docstring)")
	cmd.Flags().StringVar(&opts.To, "to", "", "output kind (class|function|argparse|docstring)")
	cmd.Flags().StringVar(&opts.As, "as", "", "name of the emitted def")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// render emits r in the --to form with the configured options.
func (o *EmitOptions) render(r *ir.IR) (string, error) {
	cfg := o.Config
	var def syntax.Stmt
	switch o.To {
	case KindClass:
		def = emit.Class(r, emit.ClassOptions{
			Name:           o.As,
			EmitDefaultDoc: cfg.Emit.EmitDefaultDoc,
			WordWrap:       cfg.Emit.WordWrap,
			Width:          cfg.Emit.Width,
		})
	case KindFunction:
		def = emit.Function(r, emit.FunctionOptions{
			Name:              o.As,
			InlineTypes:       cfg.Emit.InlineTypes,
			EmitDefaultDoc:    cfg.Emit.EmitDefaultDoc,
			EmitSeparatingTab: true,
			WordWrap:          cfg.Emit.WordWrap,
			Width:             cfg.Emit.Width,
		})
	case KindArgparse:
		def = emit.Argparse(r, emit.ArgparseOptions{
			FunctionName:  o.As,
			CarryDefaults: cfg.Emit.CarryDefaults,
			DefaultHelp:   cfg.Emit.ArgparseDefaultDoc,
			WordWrap:      cfg.Emit.WordWrap,
			Width:         cfg.Emit.Width,
		})
	case KindDocstring:
		doc, err := docstring.Emit(r, cfg.DocstringOptions())
		if err != nil {
			return "", err
		}
		return doc + "\n", nil
	default:
		return "", fmt.Errorf("unknown --to %q (want class, function, argparse or docstring)", o.To)
	}
	return string(emit.Render(emit.Module(def), cfg.FileOptions())), nil
}
