package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/transposon/internal/trace"
)

// Snapshot captures the step log of a scenario for golden comparison.
// Only kind-independent content is kept, so one golden file covers every
// representation.
type Snapshot struct {
	Scenario string       `json:"scenario"`
	Size     int          `json:"size"`
	Steps    []trace.Step `json:"steps"`
}

func (s *Snapshot) toCanonicalMap() map[string]any {
	steps := make([]any, len(s.Steps))
	for i, step := range s.Steps {
		steps[i] = step.Content()
	}
	return map[string]any{
		"scenario": s.Scenario,
		"size":     s.Size,
		"steps":    steps,
	}
}

// MarshalCanonical renders the snapshot as canonical JSON.
func (s *Snapshot) MarshalCanonical() ([]byte, error) {
	return trace.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its step log against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario could not run. Mismatches fail t.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, scenario.Size, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the first run of result against a golden file.
// The harness fails a scenario whose runs disagree, so the first run
// stands for all of them.
func AssertGolden(t *testing.T, name string, size int, result *Result) error {
	t.Helper()

	snapshot := Snapshot{Scenario: name, Size: size, Steps: []trace.Step{}}
	if len(result.Runs) > 0 {
		snapshot.Steps = result.Runs[0].Steps
	}

	data, err := snapshot.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
