package locate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/doctrans/internal/syntax"
)

const source = `import os

DEFAULT_DIR = "~/data"


class MyClass(object):
    """Settings."""

    tfds_dir: Optional[str] = "~/tensorflow_datasets"
    K: str = "np"

    def load(self, name, tfds_dir=None, *, K="np", **kwargs):
        tfds_dir = tfds_dir or DEFAULT_DIR
        return name


def other_func(dataset_name: str, tfds_dir: Optional[str] = "~/other"):
    pass


def other_func(shadowed):
    pass
`

func parse(t *testing.T, src string) *syntax.Module {
	t.Helper()
	mod, err := syntax.Parse(src)
	require.NoError(t, err)
	return mod
}

func addresses(ix *Index) []string {
	var out []string
	for _, l := range ix.Locations() {
		out = append(out, l.Address.String())
	}
	return out
}

func TestAnnotate_Addresses(t *testing.T) {
	ix := Annotate(parse(t, source))
	assert.Equal(t, []string{
		"DEFAULT_DIR",
		"MyClass",
		"MyClass.tfds_dir",
		"MyClass.K",
		"MyClass.load",
		"MyClass.load.name",
		"MyClass.load.tfds_dir",
		"MyClass.load.K",
		"MyClass.load.kwargs",
		"other_func",
		"other_func.dataset_name",
		"other_func.tfds_dir",
	}, addresses(ix))
}

func TestAnnotate_AddressesAreUnique(t *testing.T) {
	ix := Annotate(parse(t, source))
	seen := map[string]bool{}
	for _, a := range addresses(ix) {
		assert.False(t, seen[a], "duplicate address %s", a)
		seen[a] = true
	}

	// the first other_func keeps the address; the shadowing def is not
	// reachable and neither are its params
	loc, ok := ix.Lookup(MustParseAddress("other_func"))
	require.True(t, ok)
	assert.Equal(t, []Step{{Kind: StepBody, Index: 3}}, loc.Path)
	_, ok = ix.Lookup(MustParseAddress("other_func.shadowed"))
	assert.False(t, ok)
}

func TestAnnotate_ParamsBeforeBody(t *testing.T) {
	ix := Annotate(parse(t, source))
	loc, ok := ix.Lookup(MustParseAddress("MyClass.load.tfds_dir"))
	require.True(t, ok)
	assert.True(t, loc.IsParam(), "the parameter wins over the body assignment")
	assert.IsType(t, &syntax.Arg{}, loc.Node)
}

func TestAnnotate_ParamIndexAndDefaults(t *testing.T) {
	ix := Annotate(parse(t, source))
	tests := []struct {
		addr    string
		index   int
		step    Step
		defText string
	}{
		{"MyClass.load.name", 0, Step{Kind: StepArg, Index: 1}, ""},
		{"MyClass.load.tfds_dir", 1, Step{Kind: StepArg, Index: 2}, "None"},
		{"MyClass.load.K", 2, Step{Kind: StepKwOnly, Index: 0}, `"np"`},
		{"MyClass.load.kwargs", 3, Step{Kind: StepKwarg}, ""},
		{"other_func.dataset_name", 0, Step{Kind: StepArg, Index: 0}, ""},
		{"other_func.tfds_dir", 1, Step{Kind: StepArg, Index: 1}, `"~/other"`},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			loc, ok := ix.Lookup(MustParseAddress(tt.addr))
			require.True(t, ok)
			assert.Equal(t, tt.index, loc.ParamIndex)
			assert.Equal(t, tt.step, loc.Path[len(loc.Path)-1])
			assert.Equal(t, tt.defText, syntax.FormatValue(loc.Default))
			require.NotNil(t, loc.Signature)
		})
	}

	loc, ok := ix.Lookup(MustParseAddress("MyClass.K"))
	require.True(t, ok)
	assert.False(t, loc.IsParam())
	assert.Nil(t, loc.Signature)
}

func TestFind(t *testing.T) {
	mod := parse(t, source)

	loc, err := Find(mod, MustParseAddress("MyClass.load"))
	require.NoError(t, err)
	assert.Equal(t, "load", loc.Node.(*syntax.FuncDef).Name)

	_, err = Find(mod, MustParseAddress("MyClass.missing"))
	require.Error(t, err)
	assert.True(t, IsAddressNotFound(err))
	assert.Contains(t, err.Error(), "MyClass.missing")

	// unnamed statements are not addressable
	_, err = Find(mod, MustParseAddress("os"))
	assert.True(t, IsAddressNotFound(err))
}

func TestParseAddress(t *testing.T) {
	a, err := ParseAddress("MyClass.tfds_dir")
	require.NoError(t, err)
	assert.Equal(t, Address{"MyClass", "tfds_dir"}, a)
	assert.Equal(t, "MyClass.tfds_dir", a.String())
	assert.Equal(t, Address{"MyClass"}, a.Parent())
	assert.True(t, a.Equal(Address{"MyClass", "tfds_dir"}))
	assert.False(t, a.Equal(a.Parent()))

	for _, bad := range []string{"", ".x", "x.", "a..b"} {
		_, err := ParseAddress(bad)
		assert.ErrorIs(t, err, ErrInvalidAddress, bad)
	}
}

func TestAddressChildDoesNotAlias(t *testing.T) {
	base := make(Address, 1, 4)
	base[0] = "A"
	x := base.Child("x")
	y := base.Child("y")
	assert.Equal(t, "A.x", x.String())
	assert.Equal(t, "A.y", y.String())
}
