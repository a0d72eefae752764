package harness

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/doctrans/internal/engine"
)

func TestRun_Property(t *testing.T) {
	s := &Scenario{
		Name:        "eval_batch",
		Description: "An evaluated constant replaces a default",
		Files: map[string]string{
			"consts.py": "BASE = 8\nBATCH: int = BASE * 4\n",
			"train.py":  "def train(batch=1, lr=0.1):\n    pass\n",
		},
		Properties: &PropertiesStep{
			SourceFile: "consts.py",
			Source:     "BATCH",
			Mode:       "eval",
			TargetFile: "train.py",
			Targets:    []string{"train.batch"},
		},
		Expect: Expect{Written: []string{"train.py"}},
		Assertions: []Assertion{
			{Type: AssertFileContains, File: "train.py", Text: "def train(batch: int = 32, lr=0.1):"},
			{Type: AssertWarningCount, Count: 0},
		},
	}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "%v", result.Errors)
	assert.Empty(t, result.ErrorCode)
	assert.Equal(t, "BASE = 8\nBATCH: int = BASE * 4\n", result.Files["consts.py"], "source untouched")
}

func TestRun_ExpectedError(t *testing.T) {
	s := &Scenario{
		Name:        "missing_source",
		Description: "An unresolved source address",
		Files:       map[string]string{"mod.py": "x = 1\n\n\ndef f(a=2):\n    pass\n"},
		Properties: &PropertiesStep{
			SourceFile: "mod.py",
			Source:     "y",
			TargetFile: "mod.py",
			Targets:    []string{"f.a"},
		},
		Expect: Expect{Error: string(engine.ErrCodeSourceAddressNotFound)},
	}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "%v", result.Errors)
	assert.Empty(t, result.Written)
}

func TestRun_Failures(t *testing.T) {
	s := &Scenario{
		Name:        "wrong_expectations",
		Description: "Every expectation is wrong",
		Files:       map[string]string{"mod.py": "x = 1\n\n\ndef f(a=2):\n    pass\n"},
		Properties: &PropertiesStep{
			SourceFile: "mod.py",
			Source:     "x",
			TargetFile: "mod.py",
			Targets:    []string{"f.a"},
		},
		Expect: Expect{
			Error:   string(engine.ErrCodeTargetAddressNotFound),
			Written: []string{"other.py"},
		},
		Assertions: []Assertion{
			{Type: AssertFileAbsent, File: "mod.py"},
			{Type: AssertFileContains, File: "mod.py", Text: "a=3"},
		},
	}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "expected error")
	assert.Contains(t, result.Errors[1], "expected writes")
	assert.Contains(t, result.Errors[2], "assertions[0]")
	assert.Contains(t, result.Errors[3], "assertions[1]")
}

func TestRun_BadAddress(t *testing.T) {
	s := &Scenario{
		Name:        "bad_address",
		Description: "The source address does not parse",
		Properties: &PropertiesStep{
			SourceFile: "mod.py",
			Source:     "a..b",
			TargetFile: "mod.py",
			Targets:    []string{"f.a"},
		},
	}
	_, err := Run(context.Background(), s)
	assert.Error(t, err)
}

func TestRun_UnknownTruth(t *testing.T) {
	s := &Scenario{
		Name:        "bad_truth",
		Description: "The truth group is not a group",
		Sync:        &SyncStep{Truth: "module"},
	}
	_, err := Run(context.Background(), s)
	assert.Error(t, err)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, ErrorCodeOther, ErrorCode(errors.New("boom")))
	assert.Equal(t, string(engine.ErrCodeInsufficientArtifacts),
		ErrorCode(engine.NewInsufficientArtifactsError("one group", "a.py")))
}

func TestScenarios_Golden(t *testing.T) {
	paths, err := FindScenarios("testdata/scenarios")
	require.NoError(t, err)

	for _, path := range paths {
		s, err := LoadScenario(path)
		require.NoError(t, err, path)
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(context.Background(), s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "%v", result.Errors)
			require.NoError(t, AssertGolden(t, s.Name, result))
		})
	}
}
