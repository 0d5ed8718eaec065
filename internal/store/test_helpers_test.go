package store

import (
	"testing"

	"github.com/roach88/transposon/internal/trace"
)

// createTestStore creates a new in-memory store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open()
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with minimal required fields.
func createTestRun(id, scenario, kind string) trace.Run {
	return trace.Run{
		ID:       id,
		Scenario: scenario,
		Kind:     kind,
		Size:     5,
	}
}

// createTestStep creates an insert step with minimal required fields.
func createTestStep(id, runID string, seq int64, render string, active ...int) trace.Step {
	if active == nil {
		active = []int{}
	}
	return trace.Step{
		ID:     id,
		RunID:  runID,
		Seq:    seq,
		Op:     trace.OpInsert,
		Pos:    0,
		Length: 2,
		Result: trace.Outcome{ID: int(seq)},
		Render: render,
		Active: active,
	}
}
