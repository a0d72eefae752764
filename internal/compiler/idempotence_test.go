package compiler

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/roach88/doctrans/internal/docstring"
	"github.com/roach88/doctrans/internal/emit"
	"github.com/roach88/doctrans/internal/ir"
	"github.com/roach88/doctrans/internal/syntax"
	"github.com/roach88/doctrans/internal/testutil"
)

var ignoreIdentity = []cmp.Option{
	cmpopts.IgnoreFields(ir.IR{}, "Name", "Kind"),
	cmpopts.EquateEmpty(),
}

// reparse prints s and parses it back, so every step goes through text.
func reparse(t *testing.T, s syntax.Stmt) *syntax.Module {
	t.Helper()
	mod, err := syntax.Parse(string(emit.Render(emit.Module(s), emit.FileOptions{})))
	require.NoError(t, err)
	return mod
}

func TestIdempotence_FunctionToClass(t *testing.T) {
	want := testutil.ConfigIR(false)
	opts := docstring.ParseOptions{}

	for _, inline := range []bool{true, false} {
		fnMod := reparse(t, emit.Function(want, emit.FunctionOptions{Name: "load", InlineTypes: inline, EmitSeparatingTab: true}))
		fn, err := FindFunction(fnMod, "load")
		require.NoError(t, err)
		fromFn, err := FromFunction(fn, opts)
		require.NoError(t, err)
		if diff := cmp.Diff(want, fromFn, ignoreIdentity...); diff != "" {
			t.Fatalf("function IR mismatch, inline=%v (-want +got):\n%s", inline, diff)
		}

		clsMod := reparse(t, emit.Class(fromFn, emit.ClassOptions{}))
		cls, err := FindClass(clsMod, "")
		require.NoError(t, err)
		fromCls, err := FromClass(cls, opts)
		require.NoError(t, err)
		if diff := cmp.Diff(want, fromCls, ignoreIdentity...); diff != "" {
			t.Errorf("class IR mismatch, inline=%v (-want +got):\n%s", inline, diff)
		}
	}
}

func TestIdempotence_Argparse(t *testing.T) {
	want := testutil.ConfigIR(false)
	tests := []struct {
		name string
		opts emit.ArgparseOptions
	}{
		{"carried defaults", emit.ArgparseOptions{CarryDefaults: true}},
		{"documented defaults", emit.ArgparseOptions{DefaultHelp: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := reparse(t, emit.Argparse(want, tt.opts))
			fn, err := FindFunction(mod, emit.DefaultArgparseName)
			require.NoError(t, err)
			got, err := FromArgparse(fn, docstring.ParseOptions{})
			require.NoError(t, err)
			if diff := cmp.Diff(want, got, ignoreIdentity...); diff != "" {
				t.Errorf("argparse IR mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIdempotence_EmitTwice(t *testing.T) {
	first := emit.Render(emit.Module(emit.Class(testutil.ConfigIR(false), emit.ClassOptions{})), emit.FileOptions{})
	mod, err := syntax.Parse(string(first))
	require.NoError(t, err)
	cls, err := FindClass(mod, "")
	require.NoError(t, err)
	r, err := FromClass(cls, docstring.ParseOptions{})
	require.NoError(t, err)
	second := emit.Render(emit.Module(emit.Class(r, emit.ClassOptions{})), emit.FileOptions{})
	require.Equal(t, string(first), string(second))
}
