package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddresses(t *testing.T) {
	dir := writeTree(t, map[string]string{"mod.py": `DEFAULT_DIR = "~/data"


` + propertyModule})

	stdout, _, err := execute(t, "addresses", filepath.Join(dir, "mod.py"), "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data []AddressEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, []AddressEntry{
		{Address: "DEFAULT_DIR", Node: "field", Text: `DEFAULT_DIR = "~/data"`},
		{Address: "MyClass", Node: "class"},
		{Address: "MyClass.tfds_dir", Node: "field", Text: `tfds_dir: Optional[str] = "~/tensorflow_datasets"`},
		{Address: "MyClass.K", Node: "field", Text: `K: str = "np"`},
		{Address: "other_func", Node: "function"},
		{Address: "other_func.dataset_name", Node: "param", Text: "dataset_name: str"},
		{Address: "other_func.tfds_dir", Node: "param", Text: `tfds_dir: Optional[str] = "~/other"`},
	}, resp.Data)
}

func TestAddresses_Text(t *testing.T) {
	dir := writeTree(t, map[string]string{"mod.py": propertyModule})

	stdout, _, err := execute(t, "addresses", filepath.Join(dir, "mod.py"))
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^other_func\.tfds_dir\s+param\s+tfds_dir: Optional\[str\] = "~/other"$`, stdout)
}

func TestAddresses_MissingFile(t *testing.T) {
	_, _, err := execute(t, "addresses", filepath.Join(t.TempDir(), "nope.py"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
