package harness

import (
	"context"
	"fmt"

	"github.com/roach88/transposon/internal/genome"
	"github.com/roach88/transposon/internal/store"
	"github.com/roach88/transposon/internal/trace"
)

// ReplayError reports the first recorded step that a replay did not
// reproduce.
type ReplayError struct {
	RunID    string
	Seq      int64
	Expected trace.Step
	Actual   trace.Step
}

// Error implements the error interface.
func (e *ReplayError) Error() string {
	return fmt.Sprintf("replay of run %s diverged at seq %d: recorded %s, replayed %s",
		e.RunID, e.Seq, describe(e.Expected), describe(e.Actual))
}

// Replay rebuilds the genome of a recorded run from its stored steps and
// verifies that every step reproduces the recorded outcome and state.
// Recomputed step ids must also match, so tampered rows are reported.
//
// Returns the replayed genome on success.
func Replay(ctx context.Context, st *store.Store, runID string, opts ...genome.Option) (genome.Genome, error) {
	run, err := st.ReadRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", runID, err)
	}

	kind, err := genome.ParseKind(run.Kind)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	opts = append(opts, genome.WithShiftAtStart(run.ShiftAtStart))
	g, err := genome.New(kind, run.Size, opts...)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	steps, err := st.ReadSteps(ctx, runID)
	if err != nil {
		return nil, err
	}

	for _, recorded := range steps {
		replayed := trace.Step{
			RunID:  recorded.RunID,
			Seq:    recorded.Seq,
			Op:     recorded.Op,
			Pos:    recorded.Pos,
			Length: recorded.Length,
			TE:     recorded.TE,
			Offset: recorded.Offset,
		}
		if err := trace.Apply(g, &replayed); err != nil {
			return nil, fmt.Errorf("replay seq %d: %w", recorded.Seq, err)
		}

		replayed.ID, err = trace.StepID(replayed)
		if err != nil {
			return nil, fmt.Errorf("replay seq %d: %w", recorded.Seq, err)
		}

		if !trace.SameState(recorded, replayed) || recorded.ID != replayed.ID {
			return nil, &ReplayError{
				RunID:    runID,
				Seq:      recorded.Seq,
				Expected: recorded,
				Actual:   replayed,
			}
		}
	}

	return g, nil
}
