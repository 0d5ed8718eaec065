package harness

import (
	"github.com/roach88/transposon/internal/trace"
)

// RunResult is the outcome of one scenario run against one representation.
type RunResult struct {
	// Run identifies the run in the store.
	Run trace.Run `json:"run"`

	// Steps holds every applied step in seq order.
	Steps []trace.Step `json:"steps"`

	// Render, Active and Length describe the final genome.
	Render string `json:"render"`
	Active []int  `json:"active"`
	Length int    `json:"length"`

	// CheckErr is the final genome.Check result, nil if consistent.
	CheckErr error `json:"-"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expect clause, equivalence check and assertion held.
	Pass bool `json:"pass"`

	// Runs holds one entry per representation, in scenario kind order.
	Runs []RunResult `json:"runs"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Runs:   []RunResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Run returns the result for kind, or nil if the scenario did not run it.
func (r *Result) Run(kind string) *RunResult {
	for i := range r.Runs {
		if r.Runs[i].Run.Kind == kind {
			return &r.Runs[i]
		}
	}
	return nil
}
