package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/transposon/internal/genome"
	"github.com/roach88/transposon/internal/trace"
)

// Scenario is a fixed script of genome operations plus the outcomes it
// must produce.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Size is the initial genome length.
	Size int `yaml:"size"`

	// Kinds lists the representations to run. Empty means all of them.
	Kinds []string `yaml:"kinds,omitempty"`

	// ShiftAtStart enables genome.WithShiftAtStart for every run.
	ShiftAtStart bool `yaml:"shift_at_start,omitempty"`

	// Steps are applied in order to a fresh genome per representation.
	Steps []StepSpec `yaml:"steps"`

	// Assertions are checked against each run's final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// StepSpec is one scripted operation.
type StepSpec struct {
	// Op is "insert", "copy" or "disable".
	Op string `yaml:"op"`

	// Pos and Length are the insert arguments.
	Pos    int `yaml:"pos,omitempty"`
	Length int `yaml:"length,omitempty"`

	// TE is the copy or disable target; Offset the copy offset.
	TE     int `yaml:"te,omitempty"`
	Offset int `yaml:"offset,omitempty"`

	// Expect, if present, is checked after the step.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect pins parts of a step's outcome. Nil fields are not checked.
type Expect struct {
	ID     *int    `yaml:"id,omitempty"`
	None   *bool   `yaml:"none,omitempty"`
	Error  *string `yaml:"error,omitempty"`
	Render *string `yaml:"render,omitempty"`
	Active *[]int  `yaml:"active,omitempty"`
}

// Assertion validates a run's final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Kind limits the assertion to one representation.
	Kind string `yaml:"kind,omitempty"`

	// Render is the expected final rendering (render).
	Render *string `yaml:"render,omitempty"`

	// Active is the expected final active id set (active).
	Active []int `yaml:"active,omitempty"`

	// Length is the expected final genome length (length).
	Length *int `yaml:"length,omitempty"`

	// Op and Count are used by op_count.
	Op    string `yaml:"op,omitempty"`
	Count int    `yaml:"count,omitempty"`

	// Where selects steps rows and Expect lists the column values the
	// latest matching row must hold (final_state).
	Where  map[string]any `yaml:"where,omitempty"`
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertRender     = "render"
	AssertActive     = "active"
	AssertLength     = "length"
	AssertOpCount    = "op_count"
	AssertConsistent = "consistent"
	AssertFinalState = "final_state"
)

// KindList returns the representations the scenario runs against.
func (s *Scenario) KindList() []genome.Kind {
	if len(s.Kinds) == 0 {
		return genome.Kinds
	}
	kinds := make([]genome.Kind, len(s.Kinds))
	for i, k := range s.Kinds {
		kinds[i] = genome.Kind(k)
	}
	return kinds
}

// LoadScenario reads, schema-checks and parses a scenario YAML file.
// Returns an error if the file doesn't exist, does not match the schema,
// contains unknown fields, or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(path, data)
}

// ParseScenario is LoadScenario for a document already in memory.
func ParseScenario(filename string, data []byte) (*Scenario, error) {
	if err := CheckSchema(filename, data); err != nil {
		return nil, err
	}

	// Strict decoding catches typos the schema would also reject, with
	// line numbers from the YAML parser.
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

	if s.Size < 0 {
		return fmt.Errorf("size must be non-negative, got %d", s.Size)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	seen := make(map[string]bool)
	for i, k := range s.Kinds {
		if _, err := genome.ParseKind(k); err != nil {
			return fmt.Errorf("kinds[%d]: %w", i, err)
		}
		if seen[k] {
			return fmt.Errorf("kinds[%d]: duplicate kind %q", i, k)
		}
		seen[k] = true
	}

	for i, step := range s.Steps {
		if _, err := trace.ParseOp(step.Op); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	if a.Kind != "" {
		if _, err := genome.ParseKind(a.Kind); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	}

	switch a.Type {
	case AssertRender:
		if a.Render == nil {
			return fmt.Errorf("assertions[%d]: render is required for render", index)
		}
	case AssertActive:
		// An empty list asserts that nothing is active.
	case AssertLength:
		if a.Length == nil {
			return fmt.Errorf("assertions[%d]: length is required for length", index)
		}
	case AssertOpCount:
		if _, err := trace.ParseOp(a.Op); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for op_count", index)
		}
	case AssertConsistent:
	case AssertFinalState:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
