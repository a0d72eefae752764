package engine

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/doctrans/internal/locate"
	"github.com/roach88/doctrans/internal/store"
	"github.com/roach88/doctrans/internal/syntax"
)

const propertySource = `class MyClass(object):
    """Settings."""

    tfds_dir: Optional[str] = "~/tensorflow_datasets"
    K: str = "np"


def other_func(dataset_name: str, tfds_dir: Optional[str] = "~/other"):
    pass
`

const constantsSource = `BASE = 8
BATCH: int = BASE * 4
NAMES = ["a", "b"]
`

func addrs(ss ...string) []locate.Address {
	out := make([]locate.Address, len(ss))
	for i, s := range ss {
		out[i] = locate.MustParseAddress(s)
	}
	return out
}

func TestSyncProperties_DefaultOnly(t *testing.T) {
	st := store.NewMemory(map[string]string{"mod.py": propertySource})

	report, err := newTestEngine(st).SyncProperties(context.Background(), PropertyRequest{
		SourceFile:      "mod.py",
		SourceAddress:   locate.MustParseAddress("MyClass.tfds_dir"),
		Mode:            ModeCopy,
		TargetFile:      "mod.py",
		TargetAddresses: addrs("other_func.tfds_dir"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"mod.py"}, report.Written)

	want := `def other_func(dataset_name: str, tfds_dir: Optional[str] = "~/tensorflow_datasets"):`
	got := st.String("mod.py")
	assert.Contains(t, got, want)
	assert.Contains(t, got, `    tfds_dir: Optional[str] = "~/tensorflow_datasets"`+"\n    K: str = \"np\"\n", "source untouched")
	assert.Contains(t, got, "):\n    pass\n", "body untouched")
}

func TestSyncProperties_Modes(t *testing.T) {
	tests := []struct {
		name string
		mode PropertyMode
		src  string
		wrap string
		want string
	}{
		{"copy keeps the expression", ModeCopy, "BATCH", "", "def train(batch: int = BASE * 4, lr=0.1):"},
		{"eval folds constants", ModeEval, "BATCH", "", "def train(batch: int = 32, lr=0.1):"},
		{"wrapped type", ModeEval, "BATCH", "Optional[{type}]", "def train(batch: Optional[int] = 32, lr=0.1):"},
		{"eval list", ModeEval, "NAMES", "", `def train(batch=["a", "b"], lr=0.1):`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemory(map[string]string{
				"consts.py": constantsSource,
				"train.py":  "def train(batch=1, lr=0.1):\n    pass\n",
			})
			_, err := newTestEngine(st).SyncProperties(context.Background(), PropertyRequest{
				SourceFile:      "consts.py",
				SourceAddress:   locate.MustParseAddress(tt.src),
				Mode:            tt.mode,
				TargetFile:      "train.py",
				TargetAddresses: addrs("train.batch"),
				WrapType:        tt.wrap,
			})
			require.NoError(t, err)
			assert.Contains(t, st.String("train.py"), tt.want)
		})
	}
}

func TestSyncProperties_ParamSourceToFields(t *testing.T) {
	st := store.NewMemory(map[string]string{
		"mod.py": propertySource,
		"cfg.py": "class Cfg(object):\n    a = 1\n    b: int = 2\n",
	})
	_, err := newTestEngine(st).SyncProperties(context.Background(), PropertyRequest{
		SourceFile:      "mod.py",
		SourceAddress:   locate.MustParseAddress("other_func.tfds_dir"),
		TargetFile:      "cfg.py",
		TargetAddresses: addrs("Cfg.a", "Cfg.b"),
	})
	require.NoError(t, err)
	assert.Equal(t,
		"class Cfg(object):\n    a: Optional[str] = \"~/other\"\n    b: Optional[str] = \"~/other\"\n",
		st.String("cfg.py"))
	assert.Equal(t, []string{"cfg.py", "cfg.py"}, st.Writes(), "one write per target")
}

func TestSyncProperties_Errors(t *testing.T) {
	files := map[string]string{"mod.py": propertySource}

	t.Run("missing source", func(t *testing.T) {
		st := store.NewMemory(files)
		_, err := newTestEngine(st).SyncProperties(context.Background(), PropertyRequest{
			SourceFile:      "mod.py",
			SourceAddress:   locate.MustParseAddress("MyClass.nope"),
			TargetFile:      "mod.py",
			TargetAddresses: addrs("other_func.tfds_dir"),
		})
		require.Error(t, err)
		assert.True(t, IsSourceAddressNotFound(err))
		assert.True(t, locate.IsAddressNotFound(err))
		assert.Empty(t, st.Writes())
		assert.Contains(t, errors.FlattenHints(err), "doctrans addresses mod.py")
	})

	t.Run("source is a def", func(t *testing.T) {
		st := store.NewMemory(files)
		_, err := newTestEngine(st).SyncProperties(context.Background(), PropertyRequest{
			SourceFile:      "mod.py",
			SourceAddress:   locate.MustParseAddress("other_func"),
			TargetFile:      "mod.py",
			TargetAddresses: addrs("other_func.tfds_dir"),
		})
		assert.True(t, IsSourceAddressNotFound(err))
	})

	t.Run("missing target keeps earlier writes", func(t *testing.T) {
		st := store.NewMemory(files)
		report, err := newTestEngine(st).SyncProperties(context.Background(), PropertyRequest{
			SourceFile:      "mod.py",
			SourceAddress:   locate.MustParseAddress("MyClass.K"),
			TargetFile:      "mod.py",
			TargetAddresses: addrs("MyClass.tfds_dir", "other_func.K"),
		})
		require.Error(t, err)
		assert.True(t, IsTargetAddressNotFound(err))
		assert.False(t, IsSourceAddressNotFound(err))
		require.NotNil(t, report)
		assert.Equal(t, []string{"mod.py"}, report.Written)
		assert.Contains(t, st.String("mod.py"), `    tfds_dir: str = "np"`)
	})

	t.Run("eval failure", func(t *testing.T) {
		st := store.NewMemory(map[string]string{
			"mod.py": "X = os.getcwd()\n\n\ndef f(x=1):\n    pass\n",
		})
		_, err := newTestEngine(st).SyncProperties(context.Background(), PropertyRequest{
			SourceFile:      "mod.py",
			SourceAddress:   locate.MustParseAddress("X"),
			Mode:            ModeEval,
			TargetFile:      "mod.py",
			TargetAddresses: addrs("f.x"),
		})
		require.Error(t, err)
		assert.Empty(t, st.Writes())
	})
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "None"},
		{true, "True"},
		{"s", `"s"`},
		{42, "42"},
		{int64(-3), "-3"},
		{2.0, "2.0"},
		{0.25, "0.25"},
		{-1.5, "-1.5"},
		{[]any{1, "a"}, `[1, "a"]`},
		{map[string]any{"b": 2, "a": 1}, `{"a": 1, "b": 2}`},
	}
	for _, tt := range tests {
		got, err := literal(tt.in)
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, syntax.FormatValue(got), "%v", tt.in)
	}

	_, err := literal(struct{}{})
	assert.Error(t, err)
}

func TestConstants(t *testing.T) {
	mod, err := syntax.Parse(constantsSource + "BROKEN = os.sep\nLATER = BATCH + 1\n")
	require.NoError(t, err)
	env := constants(mod)
	assert.Equal(t, 8, env["BASE"])
	assert.Equal(t, 32, env["BATCH"])
	assert.Equal(t, 33, env["LATER"])
	assert.NotContains(t, env, "BROKEN")
	assert.Contains(t, env, "None")
}
