package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: pass
description: "copies a default"
files:
  mod.py: |
    x = 1


    def f(a=2):
        pass
properties:
  source_file: mod.py
  source: x
  target_file: mod.py
  targets: [f.a]
assertions:
  - type: file_contains
    file: mod.py
    text: "def f(a=1):"
`

const failingScenario = `name: fail
description: "expects the wrong default"
files:
  mod.py: |
    x = 1


    def f(a=2):
        pass
properties:
  source_file: mod.py
  source: x
  target_file: mod.py
  targets: [f.a]
assertions:
  - type: file_contains
    file: mod.py
    text: "def f(a=3):"
`

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.yaml":    passingScenario,
		"a.yml":     passingScenario,
		"notes.txt": "ignored",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

	paths, err := FindScenarios(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yml"), filepath.Join(dir, "b.yaml")}, paths)
}

func TestFindScenarios_Empty(t *testing.T) {
	dir := t.TempDir()
	_, err := FindScenarios(dir)
	var none *NoScenariosError
	require.True(t, errors.As(err, &none))
	assert.Equal(t, dir, none.Dir)

	_, err = FindScenarios(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestRunSuite(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"1_pass.yaml":    passingScenario,
		"2_fail.yaml":    failingScenario,
		"3_invalid.yaml": "name: broken\n",
	})

	res, err := RunSuite(context.Background(), dir, SuiteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Passed)
	assert.Equal(t, 2, res.Failed)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, "fail", res.Failures[0].Scenario)
	assert.Equal(t, "3_invalid", res.Failures[1].Scenario, "unloadable scenarios are named by file")
}

func TestRunSuite_Golden(t *testing.T) {
	dir := t.TempDir()
	golden := filepath.Join(dir, "golden")
	writeFiles(t, dir, map[string]string{"pass.yaml": passingScenario})

	res, err := RunSuite(context.Background(), dir, SuiteOptions{GoldenDir: golden})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed, "no golden file yet")

	res, err = RunSuite(context.Background(), dir, SuiteOptions{GoldenDir: golden, Update: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Passed)

	data, err := os.ReadFile(filepath.Join(golden, "pass.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "def f(a=1):\n")

	res, err = RunSuite(context.Background(), dir, SuiteOptions{GoldenDir: golden})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Passed)
}
