package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/doctrans/internal/docstring"
	"github.com/roach88/doctrans/internal/ir"
	"github.com/roach88/doctrans/internal/syntax"
)

func parse(t *testing.T, src string) *syntax.Module {
	t.Helper()
	mod, err := syntax.Parse(src)
	require.NoError(t, err)
	return mod
}

const twoDefs = `class A(object):
    x: int = 1

    def run(self, n: int = 2):
        pass


class B(object):
    y = 2


def helper(a, b=3):
    return a
`

func TestFindClass(t *testing.T) {
	mod := parse(t, twoDefs)

	cls, err := FindClass(mod, "B")
	require.NoError(t, err)
	assert.Equal(t, "B", cls.Name)

	_, err = FindClass(mod, "")
	assert.True(t, IsAmbiguousArtifact(err))

	_, err = FindClass(mod, "C")
	assert.True(t, IsArtifactNotFound(err))
	assert.Contains(t, err.Error(), `"C"`)
}

func TestFindFunction(t *testing.T) {
	mod := parse(t, twoDefs)

	fn, err := FindFunction(mod, "")
	require.NoError(t, err)
	assert.Equal(t, "helper", fn.Name)

	fn, err = FindFunction(mod, "A.run")
	require.NoError(t, err)
	assert.Equal(t, "run", fn.Name)

	_, err = FindFunction(mod, "A.missing")
	assert.True(t, IsArtifactNotFound(err))

	_, err = FindFunction(mod, "Z.run")
	assert.True(t, IsArtifactNotFound(err))

	_, err = FindFunction(parse(t, "x = 1\n"), "")
	assert.True(t, IsArtifactNotFound(err))
}

func TestFind_DuplicateNames(t *testing.T) {
	const dupes = `class A(object):
    x: int = 1


class A(object):
    y: int = 2

    def run(self):
        pass

    def run(self, n: int = 2):
        pass


def helper(a):
    return a


def helper(a, b=3):
    return a
`
	mod := parse(t, dupes)
	tests := []struct {
		name string
		find func() error
	}{
		{"class", func() error { _, err := FindClass(mod, "A"); return err }},
		{"function", func() error { _, err := FindFunction(mod, "helper"); return err }},
		{"method", func() error {
			_, err := FindFunction(parse(t, "class B(object):\n    def run(self):\n        pass\n\n    def run(self):\n        pass\n"), "B.run")
			return err
		}},
		{"method of ambiguous class", func() error { _, err := FindFunction(mod, "A.run"); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.find()
			require.Error(t, err)
			assert.True(t, IsAmbiguousArtifact(err), err.Error())
			assert.Contains(t, err.Error(), "defined 2 times")
		})
	}
}

func TestDefaultText(t *testing.T) {
	tests := []struct {
		src  string
		want *string
	}{
		{`"mnist"`, ir.Ptr("mnist")},
		{"5", ir.Ptr("5")},
		{"-1.5", ir.Ptr("-1.5")},
		{"True", ir.Ptr("True")},
		{"None", nil},
		{"os.sep", ir.Ptr("```os.sep```")},
		{"np.empty(0)", ir.Ptr("```np.empty(0)```")},
		{"(1, 2)", ir.Ptr("```(1, 2)```")},
		{"{}", ir.Ptr("```{}```")},
		{`f"{x}"`, ir.Ptr("```f\"{x}\"```")},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := syntax.ParseExpr(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, DefaultText(e))
		})
	}
	assert.Nil(t, DefaultText(nil))
}

func TestFromClass(t *testing.T) {
	mod := parse(t, `class Config(object):
    """
    Settings.

    :cvar epochs: passes. Defaults to 0
    :cvar rate: step size.
    :cvar name: run name.
    """
    epochs: int = 0
    rate: float = 0.0
    name: Optional[str] = None
    extra = os.sep
`)
	cls, err := FindClass(mod, "Config")
	require.NoError(t, err)
	r, err := FromClass(cls, docstring.ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Config", r.Name)
	assert.Equal(t, "Settings.", r.ShortDescription)
	assert.Equal(t, []string{"epochs", "rate", "name", "extra"}, r.Params.Names())

	epochs, _ := r.Params.Get("epochs")
	assert.Equal(t, ir.Ptr("0"), epochs.Default, "docstring announces the zero value")
	assert.Equal(t, "passes.", epochs.Doc)

	rate, _ := r.Params.Get("rate")
	assert.Nil(t, rate.Default, "zero value without announcement is no default")
	assert.True(t, rate.Required)

	name, _ := r.Params.Get("name")
	assert.Nil(t, name.Default)
	assert.False(t, name.Required)

	extra, _ := r.Params.Get("extra")
	assert.Equal(t, ir.Ptr(ir.CodeDefault("os.sep")), extra.Default)
	assert.Equal(t, "", extra.Typ)
	assert.Nil(t, r.Returns)
}

func TestFromClass_InferType(t *testing.T) {
	mod := parse(t, "class C(object):\n    a = 5\n    b = \"x\"\n")
	cls, err := FindClass(mod, "")
	require.NoError(t, err)
	r, err := FromClass(cls, docstring.ParseOptions{InferType: true})
	require.NoError(t, err)
	a, _ := r.Params.Get("a")
	b, _ := r.Params.Get("b")
	assert.Equal(t, "int", a.Typ)
	assert.Equal(t, "str", b.Typ)
}

func TestFromClass_BadDocstring(t *testing.T) {
	mod := parse(t, "class C(object):\n    \"\"\"\n    :param a: ok\n    :frobnicate a: doc\n    \"\"\"\n    a = 1\n")
	cls, err := FindClass(mod, "")
	require.NoError(t, err)
	_, err = FromClass(cls, docstring.ParseOptions{})
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "C.docstring", ce.Field)
	assert.True(t, docstring.IsMalformed(err))
}

func TestFromFunction_Kinds(t *testing.T) {
	mod := parse(t, `class K(object):
    def a(self, x):
        pass

    @classmethod
    def b(cls, x):
        pass

    @staticmethod
    def c(x):
        pass


def d(x):
    pass
`)
	tests := []struct {
		name string
		kind ir.Kind
	}{
		{"K.a", ir.KindSelf},
		{"K.b", ir.KindCls},
		{"K.c", ir.KindStatic},
		{"d", ir.KindFunction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := FindFunction(mod, tt.name)
			require.NoError(t, err)
			r, err := FromFunction(fn, docstring.ParseOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.kind, r.Kind)
			assert.Equal(t, []string{"x"}, r.Params.Names())
		})
	}
}

func TestFromFunction_Signature(t *testing.T) {
	mod := parse(t, `def f(a: int, b: str = "x", *args, c: Optional[int] = None, d, **opts) -> bool:
    """
    Summary.

    :param a: first.
    :param opts: extra.
    :return: whether it worked.
    """
    do_work()
    return True
`)
	fn, err := FindFunction(mod, "f")
	require.NoError(t, err)
	r, err := FromFunction(fn, docstring.ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "d", "opts"}, r.Params.Names())
	a, _ := r.Params.Get("a")
	assert.Equal(t, "first.", a.Doc)
	assert.True(t, a.Required)
	b, _ := r.Params.Get("b")
	assert.Equal(t, ir.Ptr("x"), b.Default)
	c, _ := r.Params.Get("c")
	assert.Nil(t, c.Default)
	assert.False(t, c.Required)
	opts, _ := r.Params.Get("opts")
	assert.Equal(t, "dict", opts.Typ)
	assert.Equal(t, "extra.", opts.Doc)

	require.NotNil(t, r.Returns)
	assert.Equal(t, "bool", r.Returns.Typ)
	assert.Equal(t, "whether it worked.", r.Returns.Doc)
	assert.Nil(t, r.Returns.Default, "a body with more than a return has no return default")
}

func TestFromArgparse(t *testing.T) {
	mod := parse(t, `def set_cli_args(argument_parser):
    argument_parser.description = "Tool.\n\nMore detail."
    argument_parser.add_argument("--out-dir", type=str, help="where to write. Defaults to /tmp")
    argument_parser.add_argument("--model", type=globals().__getitem__, required=True)
    argument_parser.add_argument("--mode", choices=["a", "b"], type=str, required=True, default="a")
    argument_parser.add_argument("--n", help="count. Defaults to 3", required=True)
    return argument_parser
`)
	fn, err := FindFunction(mod, "")
	require.NoError(t, err)
	r, err := FromArgparse(fn, docstring.ParseOptions{InferType: true})
	require.NoError(t, err)

	assert.Equal(t, "Tool.", r.ShortDescription)
	assert.Equal(t, "More detail.", r.LongDescription)
	assert.Equal(t, []string{"out_dir", "model", "mode", "n"}, r.Params.Names())

	outDir, _ := r.Params.Get("out_dir")
	assert.Equal(t, "Optional[str]", outDir.Typ)
	assert.Equal(t, ir.Ptr("/tmp"), outDir.Default)
	assert.Equal(t, "where to write.", outDir.Doc)

	model, _ := r.Params.Get("model")
	assert.Equal(t, "", model.Typ, "runtime type lookup names no type")
	assert.True(t, model.Required)

	mode, _ := r.Params.Get("mode")
	assert.Equal(t, `Literal["a", "b"]`, mode.Typ)
	assert.Equal(t, ir.Ptr("a"), mode.Default)

	n, _ := r.Params.Get("n")
	assert.Equal(t, "int", n.Typ)
	assert.Equal(t, ir.Ptr("3"), n.Default)
	assert.Nil(t, r.Returns)
}

func TestFromArgparse_BadCall(t *testing.T) {
	mod := parse(t, "def set_cli_args(argument_parser):\n    argument_parser.add_argument(flag)\n    return argument_parser\n")
	fn, err := FindFunction(mod, "")
	require.NoError(t, err)
	_, err = FromArgparse(fn, docstring.ParseOptions{})
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "set_cli_args.body[0]", ce.Field)
}
