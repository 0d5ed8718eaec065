package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/transposon/internal/genome"
	"github.com/roach88/transposon/internal/store"
	"github.com/roach88/transposon/internal/testutil"
	"github.com/roach88/transposon/internal/trace"
)

// Harness is the test execution engine.
// It runs scenarios against every genome representation with a
// deterministic step clock and records each step in a store.
type Harness struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a harness that records into st. A nil logger discards output.
func New(st *store.Store, logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{store: st, logger: logger}
}

// Run executes a scenario in a fresh in-memory store and returns the result.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Run every step against each requested representation
// 3. Compare the representations step by step
// 4. Evaluate assertions against each run
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	return New(st, nil).Run(context.Background(), scenario)
}

// Run executes scenario against the harness store.
//
// A returned error means the scenario could not be executed at all; failed
// expectations and assertions are reported through Result.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := NewResult()

	for _, kind := range scenario.KindList() {
		run, err := h.executeRun(ctx, scenario, kind, result)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		result.Runs = append(result.Runs, *run)
	}

	checkEquivalence(result)

	actx := &AssertionContext{Store: h.store, Ctx: ctx}
	for i := range result.Runs {
		for _, errMsg := range EvaluateAssertions(&result.Runs[i], scenario.Assertions, actx) {
			result.AddError(errMsg)
		}
	}

	return result, nil
}

// executeRun applies every scenario step to a fresh genome of kind.
func (h *Harness) executeRun(ctx context.Context, scenario *Scenario, kind genome.Kind, result *Result) (*RunResult, error) {
	runID, err := trace.RunID(scenario.Name, string(kind), scenario.Size, scenario.ShiftAtStart)
	if err != nil {
		return nil, fmt.Errorf("failed to compute run ID: %w", err)
	}

	g, err := genome.New(kind, scenario.Size,
		genome.WithLogger(h.logger),
		genome.WithShiftAtStart(scenario.ShiftAtStart),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create genome: %w", err)
	}

	run := trace.Run{
		ID:           runID,
		Scenario:     scenario.Name,
		Kind:         string(kind),
		Size:         scenario.Size,
		ShiftAtStart: scenario.ShiftAtStart,
	}
	if err := h.store.WriteRun(ctx, run); err != nil {
		return nil, err
	}

	clock := testutil.NewStepClock()
	rr := &RunResult{Run: run, Steps: make([]trace.Step, 0, len(scenario.Steps))}

	for i, spec := range scenario.Steps {
		// Get seq ONCE and reuse for both the step id and the record.
		step := trace.Step{
			RunID:  runID,
			Seq:    clock.Next(),
			Op:     trace.Op(spec.Op),
			Pos:    spec.Pos,
			Length: spec.Length,
			TE:     spec.TE,
			Offset: spec.Offset,
		}
		if err := trace.Apply(g, &step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}

		step.ID, err = trace.StepID(step)
		if err != nil {
			return nil, fmt.Errorf("step %d: failed to compute step ID: %w", i, err)
		}
		if err := h.store.WriteStep(ctx, step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}

		for _, msg := range checkExpect(spec.Expect, step) {
			result.AddError(fmt.Sprintf("%s step %d (%s): %s", kind, i, spec.Op, msg))
		}

		h.logger.Info("step completed",
			"kind", kind,
			"step", i,
			"op", step.Op,
			"step_id", step.ID,
			"render", step.Render,
		)
		rr.Steps = append(rr.Steps, step)
	}

	rr.Render = g.String()
	rr.Active = trace.ActiveInts(g)
	rr.Length = g.Len()
	rr.CheckErr = g.Check()
	if rr.CheckErr != nil {
		h.logger.Warn("genome inconsistent", "kind", kind, "error", rr.CheckErr)
	}

	return rr, nil
}

// checkExpect compares a step's outcome with its expect clause and returns
// one message per mismatch.
func checkExpect(expect *Expect, step trace.Step) []string {
	if expect == nil {
		return nil
	}

	var msgs []string
	if expect.Error != nil && *expect.Error != step.Result.Error {
		msgs = append(msgs, fmt.Sprintf("expected error %q, got %q", *expect.Error, step.Result.Error))
	}
	if expect.Error == nil && step.Result.Error != "" {
		msgs = append(msgs, fmt.Sprintf("unexpected error %q", step.Result.Error))
	}
	if expect.ID != nil && *expect.ID != step.Result.ID {
		msgs = append(msgs, fmt.Sprintf("expected id %d, got %d", *expect.ID, step.Result.ID))
	}
	if expect.None != nil && *expect.None != step.Result.None {
		msgs = append(msgs, fmt.Sprintf("expected none=%t, got none=%t", *expect.None, step.Result.None))
	}
	if expect.Render != nil && *expect.Render != step.Render {
		msgs = append(msgs, fmt.Sprintf("expected render %q, got %q", *expect.Render, step.Render))
	}
	if expect.Active != nil && !slices.Equal(*expect.Active, step.Active) {
		msgs = append(msgs, fmt.Sprintf("expected active %v, got %v", *expect.Active, step.Active))
	}
	return msgs
}

// checkEquivalence compares every run against the first, step by step.
func checkEquivalence(result *Result) {
	if len(result.Runs) < 2 {
		return
	}

	ref := result.Runs[0]
	for _, other := range result.Runs[1:] {
		for i := range ref.Steps {
			a, b := ref.Steps[i], other.Steps[i]
			if !trace.SameState(a, b) {
				result.AddError(fmt.Sprintf(
					"%s diverges from %s at step %d: %s vs %s",
					other.Run.Kind, ref.Run.Kind, i, describe(b), describe(a),
				))
				break
			}
		}
	}
}

func describe(s trace.Step) string {
	return fmt.Sprintf("result=%+v render=%q active=%v", s.Result, s.Render, s.Active)
}
