package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configClass = "class Config(object):\n    dataset_name: str\n"

func TestSync_ClassToArgparse(t *testing.T) {
	dir := writeTree(t, map[string]string{"config.py": configClass})
	config, cli := filepath.Join(dir, "config.py"), filepath.Join(dir, "cli.py")

	stdout, _, err := execute(t, "sync", "--class", config, "--argparse-function", cli, "--truth", "class")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote "+cli)

	got := readFile(t, cli)
	assert.Contains(t, got, "def set_cli_args(argument_parser):")
	assert.Contains(t, got, `argument_parser.add_argument("--dataset-name", type=str`)
	assert.Contains(t, got, "required=True")
	assert.Equal(t, configClass, readFile(t, config), "truth is never written")
}

func TestSync_DryRun(t *testing.T) {
	dir := writeTree(t, map[string]string{"config.py": configClass})
	cli := filepath.Join(dir, "cli.py")

	stdout, _, err := execute(t, "sync", "--class", filepath.Join(dir, "config.py"),
		"--argparse-function", cli, "--truth", "class", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "would write "+cli)
	assert.Contains(t, stdout, "--- /dev/null\n+++ b/"+cli)
	assert.Contains(t, stdout, "+ def set_cli_args(argument_parser):")
	assert.NoFileExists(t, cli)
}

func TestSync_JSON(t *testing.T) {
	dir := writeTree(t, map[string]string{"config.py": configClass})

	stdout, _, err := execute(t, "sync", "--format", "json", "--class", filepath.Join(dir, "config.py"),
		"--argparse-function", filepath.Join(dir, "cli.py"), "--truth", "class")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		RunID  string     `json:"run_id"`
		Data   SyncResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, resp.RunID, resp.Data.RunID)
	assert.Equal(t, []string{filepath.Join(dir, "cli.py")}, resp.Data.Written)
	assert.False(t, resp.Data.DryRun)
}

func TestSync_InsufficientArtifacts(t *testing.T) {
	dir := writeTree(t, map[string]string{"config.py": configClass})

	stdout, _, err := execute(t, "sync", "--class", filepath.Join(dir, "config.py"), "--truth", "class")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "Error [INSUFFICIENT_ARTIFACTS]")
	assert.Contains(t, stdout, "hint: ")
}

func TestSync_FlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown truth", []string{"--class", "a.py", "--argparse-function", "b.py", "--truth", "module"}},
		{"more names than files", []string{"--class", "a.py", "--class-name", "A", "--class-name", "B", "--argparse-function", "b.py", "--truth", "class"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, append([]string{"sync"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestSync_Journal(t *testing.T) {
	dir := writeTree(t, map[string]string{"config.py": configClass})
	db := filepath.Join(dir, "journal.db")
	cli := filepath.Join(dir, "cli.py")

	_, _, err := execute(t, "sync", "--class", filepath.Join(dir, "config.py"),
		"--argparse-function", cli, "--truth", "class", "--journal", db)
	require.NoError(t, err)

	stdout, _, err := execute(t, "journal", db, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data []JournalRun `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 1)
	run := resp.Data[0]
	assert.Equal(t, "ground-truth", run.Operation)
	assert.Equal(t, filepath.Join(dir, "config.py"), run.Truth)
	require.Len(t, run.Entries, 1)
	assert.Equal(t, cli, run.Entries[0].Path)
	assert.Equal(t, int64(1), run.Entries[0].Seq)
	assert.Empty(t, run.Entries[0].BeforeHash)

	stdout, _, err = execute(t, "journal", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "run "+run.ID+" ground-truth")

	_, _, err = execute(t, "journal", db, "--run", "nope")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
