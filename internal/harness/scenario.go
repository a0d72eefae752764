package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one sync run over an in-memory file tree and what the
// tree must look like afterwards.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Files is the initial tree, path to content.
	Files map[string]string `yaml:"files"`

	// RunID is the fixed run id. Empty means testutil.DefaultRunID.
	RunID string `yaml:"run_id,omitempty"`

	// Options control how targets are rendered.
	Options Options `yaml:"options,omitempty"`

	// Exactly one of Sync and Properties is set.
	Sync       *SyncStep       `yaml:"sync,omitempty"`
	Properties *PropertiesStep `yaml:"properties,omitempty"`

	// Expect is the outcome of the run itself.
	Expect Expect `yaml:"expect,omitempty"`

	// Assertions validate the final tree.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Options mirror engine.EmitOptions.
type Options struct {
	EmitDefaultDoc bool `yaml:"emit_default_doc,omitempty"`
	CarryDefaults  bool `yaml:"carry_defaults,omitempty"`

	ArgparseDefaultDoc bool `yaml:"argparse_default_doc,omitempty"`
	InlineTypes    bool `yaml:"inline_types,omitempty"`
	LegacyLiterals bool `yaml:"legacy_literals,omitempty"`
	WordWrap       bool `yaml:"word_wrap,omitempty"`
	Width          int  `yaml:"width,omitempty"`
}

// ArtifactRef names one def in one file.
type ArtifactRef struct {
	File string `yaml:"file"`
	Name string `yaml:"name,omitempty"`
}

// SyncStep is a full sync request.
type SyncStep struct {
	Truth    string        `yaml:"truth"`
	Argparse []ArtifactRef `yaml:"argparse,omitempty"`
	Class    []ArtifactRef `yaml:"class,omitempty"`
	Function []ArtifactRef `yaml:"function,omitempty"`
}

// PropertiesStep is a property sync request.
type PropertiesStep struct {
	SourceFile string   `yaml:"source_file"`
	Source     string   `yaml:"source"`
	Mode       string   `yaml:"mode,omitempty"` // copy (default) or eval
	TargetFile string   `yaml:"target_file"`
	Targets    []string `yaml:"targets"`
	WrapType   string   `yaml:"wrap_type,omitempty"`
}

// Expect describes the run outcome.
type Expect struct {
	// Error is the expected SyncError code, or "ERROR" for any other
	// failure. Empty means the run must succeed.
	Error string `yaml:"error,omitempty"`

	// Written is the exact write order, when given.
	Written []string `yaml:"written,omitempty"`
}

// Assertion validates the final tree or the report.
type Assertion struct {
	// Type specifies the assertion type:
	// - "file_contains": File contains Text
	// - "file_not_contains": File does not contain Text
	// - "file_equals": File is exactly Text
	// - "file_absent": File does not exist
	// - "warning_count": the report has exactly Count warnings
	Type string `yaml:"type"`

	File  string `yaml:"file,omitempty"`
	Text  string `yaml:"text,omitempty"`
	Count int    `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertFileContains    = "file_contains"
	AssertFileNotContains = "file_not_contains"
	AssertFileEquals      = "file_equals"
	AssertFileAbsent      = "file_absent"
	AssertWarningCount    = "warning_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if (s.Sync == nil) == (s.Properties == nil) {
		return fmt.Errorf("exactly one of sync and properties is required")
	}

	if p := s.Properties; p != nil {
		if p.SourceFile == "" || p.Source == "" {
			return fmt.Errorf("properties: source_file and source are required")
		}
		if p.TargetFile == "" || len(p.Targets) == 0 {
			return fmt.Errorf("properties: target_file and targets are required")
		}
		if p.Mode != "" && p.Mode != "copy" && p.Mode != "eval" {
			return fmt.Errorf("properties: unknown mode %q", p.Mode)
		}
	}
	if s.Sync != nil && s.Sync.Truth == "" {
		return fmt.Errorf("sync: truth is required")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertFileContains, AssertFileNotContains:
		if a.File == "" || a.Text == "" {
			return fmt.Errorf("assertions[%d]: file and text are required for %s", index, a.Type)
		}
	case AssertFileEquals, AssertFileAbsent:
		if a.File == "" {
			return fmt.Errorf("assertions[%d]: file is required for %s", index, a.Type)
		}
	case AssertWarningCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
