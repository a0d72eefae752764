package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// NoScenariosError is returned when a directory holds no scenario files.
type NoScenariosError struct {
	Dir string
}

// Error implements the error interface.
func (e *NoScenariosError) Error() string {
	return fmt.Sprintf("no scenario files (*.yaml, *.yml) found in %s", e.Dir)
}

// FindScenarios lists the scenario files directly under dir, sorted.
func FindScenarios(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, &NoScenariosError{Dir: dir}
	}
	sort.Strings(paths)
	return paths, nil
}

// SuiteResult summarizes a directory of scenarios.
type SuiteResult struct {
	Total    int            `json:"total"`
	Passed   int            `json:"passed"`
	Failed   int            `json:"failed"`
	Failures []SuiteFailure `json:"failures,omitempty"`
}

// SuiteFailure is one failed scenario.
type SuiteFailure struct {
	Scenario string   `json:"scenario"`
	Path     string   `json:"path"`
	Errors   []string `json:"errors"`
}

// SuiteOptions configure RunSuite.
type SuiteOptions struct {
	// GoldenDir, when set, compares each scenario snapshot against
	// GoldenDir/{name}.golden.
	GoldenDir string
	// Update rewrites golden files instead of comparing them.
	Update bool
}

// RunSuite loads and runs every scenario under dir.
//
// A scenario that fails to load, run, or match its golden file is counted
// as failed; the suite carries on with the next one.
func RunSuite(ctx context.Context, dir string, opts SuiteOptions) (*SuiteResult, error) {
	paths, err := FindScenarios(dir)
	if err != nil {
		return nil, err
	}

	out := &SuiteResult{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out.Total++
		name, errs := runOne(ctx, path, opts)
		if len(errs) > 0 {
			out.Failed++
			out.Failures = append(out.Failures, SuiteFailure{Scenario: name, Path: path, Errors: errs})
			continue
		}
		out.Passed++
	}
	return out, nil
}

func runOne(ctx context.Context, path string, opts SuiteOptions) (string, []string) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, err := LoadScenario(path)
	if err != nil {
		return name, []string{err.Error()}
	}
	name = s.Name

	result, err := Run(ctx, s)
	if err != nil {
		return name, []string{fmt.Sprintf("scenario execution failed: %v", err)}
	}
	errs := result.Errors
	if opts.GoldenDir != "" {
		golden := filepath.Join(opts.GoldenDir, s.Name+".golden")
		if err := CompareGolden(golden, Snapshot(s.Name, result), opts.Update); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return name, errs
}
