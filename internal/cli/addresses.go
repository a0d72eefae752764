package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/roach88/doctrans/internal/locate"
	"github.com/roach88/doctrans/internal/store"
	"github.com/roach88/doctrans/internal/syntax"
)

// AddressEntry is one addressable node.
type AddressEntry struct {
	Address string `json:"address" yaml:"address"`
	Node    string `json:"node" yaml:"node"`
	Text    string `json:"text" yaml:"text"`
}

// NewAddressesCommand creates the addresses command.
func NewAddressesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "addresses <file>",
		Short: "List every address sync-properties can read or rewrite",
		Long: `List the addresses of a file in source order: classes, functions,
fields, module-level assignments and parameters.

Example:
  doctrans addresses mod.py`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			entries, err := listAddresses(args[0])
			if err != nil {
				return out.Fail(ExitFailure, err)
			}
			if out.structured() {
				return out.Success(entries)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Address, e.Node, e.Text)
			}
			return tw.Flush()
		},
	}
}

func listAddresses(file string) ([]AddressEntry, error) {
	data, err := store.NewFS("").Read(file)
	if err != nil {
		return nil, err
	}
	mod, err := syntax.Parse(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", file)
	}

	locs := locate.Annotate(mod).Locations()
	out := make([]AddressEntry, 0, len(locs))
	for _, loc := range locs {
		out = append(out, AddressEntry{
			Address: loc.Address.String(),
			Node:    nodeKind(loc),
			Text:    nodeText(loc),
		})
	}
	return out, nil
}

func nodeKind(loc locate.Location) string {
	if loc.IsParam() {
		return "param"
	}
	switch loc.Node.(type) {
	case *syntax.ClassDef:
		return "class"
	case *syntax.FuncDef:
		return "function"
	case *syntax.AnnAssign, *syntax.Assign:
		return "field"
	}
	return "node"
}

// nodeText is a one-line rendering: the annotation and default of a
// param, the statement of a field, nothing for defs.
func nodeText(loc locate.Location) string {
	switch n := loc.Node.(type) {
	case *syntax.Arg:
		text := n.Name
		if n.Annotation != nil {
			text += ": " + syntax.FormatExpr(n.Annotation)
		}
		if loc.Default != nil {
			text += " = " + syntax.FormatExpr(loc.Default)
		}
		return text
	case *syntax.AnnAssign:
		text := syntax.FormatExpr(n.Target) + ": " + syntax.FormatExpr(n.Annotation)
		if n.Value != nil {
			text += " = " + syntax.FormatExpr(n.Value)
		}
		return text
	case *syntax.Assign:
		return syntax.FormatExpr(n.Target) + " = " + syntax.FormatExpr(n.Value)
	}
	return ""
}
