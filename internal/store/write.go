package store

import (
	"context"
	"fmt"

	"github.com/roach88/transposon/internal/trace"
)

// WriteRun inserts a run record. Duplicate ids are silently ignored.
func (s *Store) WriteRun(ctx context.Context, run trace.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, kind, size, shift_at_start)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Scenario,
		run.Kind,
		run.Size,
		run.ShiftAtStart,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteStep inserts a step record. Duplicate ids are silently ignored.
//
// The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteStep(ctx context.Context, step trace.Step) error {
	active, err := trace.MarshalCanonical(step.Active)
	if err != nil {
		return fmt.Errorf("write step: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO steps
		(id, run_id, seq, op, pos, length, te, copy_offset, result_id, result_none, result_error, render, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		step.ID,
		step.RunID,
		step.Seq,
		string(step.Op),
		step.Pos,
		step.Length,
		step.TE,
		step.Offset,
		step.Result.ID,
		step.Result.None,
		step.Result.Error,
		step.Render,
		string(active),
	)
	if err != nil {
		return fmt.Errorf("write step: %w", err)
	}
	return nil
}
