package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/roach88/doctrans/internal/compiler"
	"github.com/roach88/doctrans/internal/docstring"
	"github.com/roach88/doctrans/internal/emit"
	"github.com/roach88/doctrans/internal/engine"
	"github.com/roach88/doctrans/internal/ir"
	"github.com/roach88/doctrans/internal/store"
	"github.com/roach88/doctrans/internal/syntax"
)

// Artifact kinds accepted by --kind and --to.
const (
	KindAuto      = "auto"
	KindClass     = "class"
	KindFunction  = "function"
	KindArgparse  = "argparse"
	KindDocstring = "docstring"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	Name string
	Kind string
}

// ParseResult is the parse command output.
type ParseResult struct {
	File string `json:"file" yaml:"file"`
	Kind string `json:"kind" yaml:"kind"`
	Hash string `json:"hash" yaml:"hash"`
	IR   *ir.IR `json:"ir" yaml:"ir"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the intermediate representation of one artifact",
		Long: `Read one artifact and print its intermediate representation.

With --kind auto (the default) a class is used when the file holds the
named class, an argparse function when the function's first parameter is
argument_parser, and a plain function otherwise. --kind docstring reads
the whole file as documentation text.

Examples:
  doctrans parse config.py
  doctrans parse train.py --name Trainer.fit --format json
  doctrans parse notes.txt --kind docstring --format yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			res, err := opts.RootOptions.readIR(args[0], opts.Name, opts.Kind)
			if err != nil {
				return out.Fail(ExitFailure, err)
			}
			if out.structured() {
				return out.Success(res)
			}
			writeIR(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "def to read; required when the file holds several")
	cmd.Flags().StringVar(&opts.Kind, "kind", KindAuto, "artifact kind (auto|class|function|argparse|docstring)")

	return cmd
}

// readIR reads the artifact named name from file.
func (o *RootOptions) readIR(file, name, kind string) (*ParseResult, error) {
	st := store.NewFS("")
	res := &ParseResult{File: file, Kind: kind}

	if kind == KindDocstring {
		data, err := st.Read(file)
		if err != nil {
			return nil, err
		}
		r, err := docstring.Parse(string(data), o.Config.ParseOptions())
		if err != nil {
			return nil, err
		}
		res.IR = r
	} else {
		group, err := o.resolveKind(st, file, name, kind)
		if err != nil {
			return nil, err
		}
		eng := engine.New(st, engine.WithParseOptions(o.Config.ParseOptions()))
		r, err := eng.ReadArtifact(engine.Artifact{File: file, Name: name}, group)
		if err != nil {
			return nil, err
		}
		res.IR = r
		res.Kind = string(group)
	}

	hash, err := ir.Hash(res.IR)
	if err != nil {
		return nil, err
	}
	res.Hash = hash
	return res, nil
}

// resolveKind maps --kind onto an engine group, sniffing the file for auto.
func (o *RootOptions) resolveKind(st store.Store, file, name, kind string) (engine.Group, error) {
	if kind != KindAuto {
		return engine.ParseGroup(kind)
	}
	data, err := st.Read(file)
	if err != nil {
		return "", err
	}
	mod, err := syntax.Parse(string(data))
	if err != nil {
		return "", errors.Wrapf(err, "parse %s", file)
	}
	if !strings.Contains(name, ".") {
		if _, err := compiler.FindClass(mod, name); err == nil {
			return engine.GroupClass, nil
		}
	}
	fn, err := compiler.FindFunction(mod, name)
	if err != nil {
		return "", errors.WithHint(err, "pass --name, or --kind to choose the artifact")
	}
	if fn.Args != nil && len(fn.Args.Args) > 0 && fn.Args.Args[0].Name == emit.ParserParam {
		return engine.GroupArgparse, nil
	}
	return engine.GroupFunction, nil
}

// writeIR prints r as a short human-readable summary.
func writeIR(w io.Writer, res *ParseResult) {
	r := res.IR
	fmt.Fprintf(w, "%s %s (%s)\n", res.Kind, firstNonEmpty(r.Name, "-"), r.Kind)
	if r.ShortDescription != "" {
		fmt.Fprintf(w, "  %s\n", r.ShortDescription)
	}
	if r.LongDescription != "" {
		fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(r.LongDescription, "\n", "\n  "))
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PARAM\tTYPE\tREQUIRED\tDEFAULT\tDOC")
	for _, p := range r.Params {
		writeParam(tw, p)
	}
	if r.Returns != nil {
		writeParam(tw, *r.Returns)
	}
	tw.Flush()
	fmt.Fprintf(w, "hash %s\n", res.Hash)
}

func writeParam(w io.Writer, p ir.Param) {
	def := "-"
	if p.Default != nil {
		def = *p.Default
	}
	fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n", p.Name, firstNonEmpty(p.Typ, "-"), p.Required, def, p.Doc)
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
