package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const propertyModule = `class MyClass(object):
    tfds_dir: Optional[str] = "~/tensorflow_datasets"
    K: str = "np"


def other_func(dataset_name: str, tfds_dir: Optional[str] = "~/other"):
    pass
`

func TestSyncProperties_Copy(t *testing.T) {
	dir := writeTree(t, map[string]string{"mod.py": propertyModule})
	mod := filepath.Join(dir, "mod.py")

	stdout, _, err := execute(t, "sync-properties",
		"--input-file", mod, "--input-param", "MyClass.tfds_dir",
		"--output-file", mod, "--output-param", "other_func.tfds_dir")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote "+mod)

	got := readFile(t, mod)
	assert.Contains(t, got, `tfds_dir: Optional[str] = "~/tensorflow_datasets"):`)
	assert.NotContains(t, got, "~/other")
}

func TestSyncProperties_Wrap(t *testing.T) {
	dir := writeTree(t, map[string]string{"mod.py": propertyModule})
	mod := filepath.Join(dir, "mod.py")

	_, _, err := execute(t, "sync-properties",
		"--input-file", mod, "--input-param", "MyClass.K",
		"--output-file", mod, "--output-param", "MyClass.tfds_dir",
		"--output-param-wrap", "Optional[{type}]")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, mod), `tfds_dir: Optional[str] = "np"`)
}

func TestSyncProperties_DryRun(t *testing.T) {
	dir := writeTree(t, map[string]string{"mod.py": propertyModule})
	mod := filepath.Join(dir, "mod.py")

	stdout, _, err := execute(t, "sync-properties", "--dry-run",
		"--input-file", mod, "--input-param", "MyClass.tfds_dir",
		"--output-file", mod, "--output-param", "other_func.tfds_dir")
	require.NoError(t, err)
	assert.Contains(t, stdout, "would write "+mod)
	assert.Contains(t, stdout, "--- a/"+mod)
	assert.Contains(t, stdout, `- def other_func(dataset_name: str, tfds_dir: Optional[str] = "~/other"):`)
	assert.Equal(t, propertyModule, readFile(t, mod))
}

func TestSyncProperties_MissingTarget(t *testing.T) {
	dir := writeTree(t, map[string]string{"mod.py": propertyModule})
	mod := filepath.Join(dir, "mod.py")

	stdout, _, err := execute(t, "sync-properties",
		"--input-file", mod, "--input-param", "MyClass.K",
		"--output-file", mod, "--output-param", "MyClass.tfds_dir", "--output-param", "MyClass.missing")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "wrote "+mod, "targets before the failure stay written")
	assert.Contains(t, stdout, "Error [TARGET_ADDRESS_NOT_FOUND]")
	assert.Contains(t, readFile(t, mod), `tfds_dir: str = "np"`)
}

func TestSyncProperties_BadAddress(t *testing.T) {
	stdout, _, err := execute(t, "sync-properties",
		"--input-file", "mod.py", "--input-param", "MyClass..K",
		"--output-file", "mod.py", "--output-param", "f.x")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "--input-param")
}

func TestSyncProperties_RequiredFlags(t *testing.T) {
	_, _, err := execute(t, "sync-properties", "--input-file", "mod.py")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s)")
}
