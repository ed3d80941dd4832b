package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one scripted facade run.
type Scenario struct {
	// Name uniquely identifies this scenario; golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Facade is the facade id; actions carry it as the "[id] method" prefix.
	// Defaults to "doc".
	Facade string `yaml:"facade,omitempty"`

	// Path is the mount point path in the root tree. Defaults to the facade id.
	Path string `yaml:"path,omitempty"`

	// Initial seeds the document state. May be empty.
	Initial map[string]any `yaml:"initial,omitempty"`

	// Steps are the mutator dispatches, in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and the final state.
	// Supported types: final_state, trace_order, trace_count
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step dispatches one mutator method with positional arguments.
type Step struct {
	// Dispatch is the mutator method name (e.g. "set", "increment").
	Dispatch string `yaml:"dispatch"`

	// Args are the positional arguments.
	Args []any `yaml:"args,omitempty"`

	// ExpectError, when set, requires the dispatch to fail with the given
	// error code (e.g. "MUTATION_FAILED"). An unexpected success or a
	// different code fails the scenario.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type selects the assertion.
	Type string `yaml:"type"`

	// Expect contains expected final-state field values (final_state).
	// Subset match - only specified keys are validated.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Absent lists keys that must not exist in the final state (final_state).
	Absent []string `yaml:"absent,omitempty"`

	// Actions is the expected action-type order (trace_order).
	Actions []string `yaml:"actions,omitempty"`

	// Count is the expected number of commit records (trace_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalState = "final_state"
	AssertTraceOrder = "trace_order"
	AssertTraceCount = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file. Returns an error if
// the file is missing, malformed, contains unknown fields (typos), or fails
// validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation, which
// catches typos like "assertion:" vs "assertions:".
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

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Dispatch == "" {
			return fmt.Errorf("steps[%d]: dispatch is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertFinalState:
		if len(a.Expect) == 0 && len(a.Absent) == 0 {
			return fmt.Errorf("assertions[%d]: expect or absent is required for final_state", index)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
