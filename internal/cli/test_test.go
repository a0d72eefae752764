package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/doctrans/internal/harness"
)

const scenarioDir = "../harness/testdata/scenarios"

func TestTestCommand_Suite(t *testing.T) {
	stdout, _, err := execute(t, "test", scenarioDir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Passed: 4, Failed: 0, Total: 4")
	assert.NotContains(t, stdout, "✗")
}

func TestTestCommand_JSON(t *testing.T) {
	stdout, _, err := execute(t, "test", scenarioDir, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data harness.SuiteResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, 4, resp.Data.Total)
	assert.Equal(t, 4, resp.Data.Passed)
}

func TestTestCommand_Failure(t *testing.T) {
	dir := writeTree(t, map[string]string{"scenarios/wrong.yaml": `name: wrong
description: "expects a write that never happens"
files:
  mod.py: |
    class MyClass(object):
        K: str = "np"
properties:
  source_file: mod.py
  source: MyClass.K
  target_file: mod.py
  targets: [MyClass.K]
assertions:
  - type: file_contains
    file: mod.py
    text: "not there"
`})

	stdout, _, err := execute(t, "test", filepath.Join(dir, "scenarios"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ wrong (")
	assert.Contains(t, stdout, "Passed: 0, Failed: 1, Total: 1")
}

func TestTestCommand_UpdateGolden(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"scenarios/property_default_only.yaml": readFile(t, filepath.Join(scenarioDir, "property_default_only.yaml")),
	})
	golden := filepath.Join(dir, "golden")
	require.NoError(t, os.Mkdir(golden, 0o755))

	_, _, err := execute(t, "test", filepath.Join(dir, "scenarios"), "--update")
	require.NoError(t, err)
	assert.Equal(t,
		readFile(t, "../harness/testdata/golden/property_default_only.golden"),
		readFile(t, filepath.Join(golden, "property_default_only.golden")))

	_, _, err = execute(t, "test", filepath.Join(dir, "scenarios"))
	assert.NoError(t, err)
}

func TestTestCommand_Errors(t *testing.T) {
	_, _, err := execute(t, "test", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	empty := t.TempDir()
	_, _, err = execute(t, "test", empty, "--update")
	assert.Equal(t, ExitCommandError, GetExitCode(err), "--update needs a golden dir")

	_, _, err = execute(t, "test", empty)
	assert.Equal(t, ExitCommandError, GetExitCode(err), "no scenarios")
}
