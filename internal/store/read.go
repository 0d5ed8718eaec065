package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/transposon/internal/trace"
)

// ReadRun retrieves a run by id. Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (trace.Run, error) {
	var run trace.Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, scenario, kind, size, shift_at_start
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.Scenario, &run.Kind, &run.Size, &run.ShiftAtStart)
	if err != nil {
		return trace.Run{}, err
	}
	return run, nil
}

// ReadRuns returns every run ordered by scenario, then kind.
func (s *Store) ReadRuns(ctx context.Context) ([]trace.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scenario, kind, size, shift_at_start
		FROM runs
		ORDER BY scenario ASC, kind ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []trace.Run{}
	for rows.Next() {
		var run trace.Run
		if err := rows.Scan(&run.ID, &run.Scenario, &run.Kind, &run.Size, &run.ShiftAtStart); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadSteps returns the steps of a run ordered by seq ASC, id ASC.
// Returns an empty slice (not nil) if the run has no steps.
func (s *Store) ReadSteps(ctx context.Context, runID string) ([]trace.Step, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, seq, op, pos, length, te, copy_offset,
		       result_id, result_none, result_error, render, active
		FROM steps
		WHERE run_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := []trace.Step{}
	for rows.Next() {
		step, err := scanStep(rows)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return steps, nil
}

// CountSteps returns how many steps of op a run recorded. An empty op counts
// every step.
func (s *Store) CountSteps(ctx context.Context, runID string, op trace.Op) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM steps
		WHERE run_id = ? AND (? = '' OR op = ?)
	`, runID, string(op), string(op)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count steps: %w", err)
	}
	return n, nil
}

func scanStep(rows *sql.Rows) (trace.Step, error) {
	var step trace.Step
	var op, active string

	if err := rows.Scan(
		&step.ID, &step.RunID, &step.Seq, &op, &step.Pos, &step.Length, &step.TE, &step.Offset,
		&step.Result.ID, &step.Result.None, &step.Result.Error, &step.Render, &active,
	); err != nil {
		return trace.Step{}, fmt.Errorf("scan step: %w", err)
	}
	step.Op = trace.Op(op)

	if err := json.Unmarshal([]byte(active), &step.Active); err != nil {
		return trace.Step{}, fmt.Errorf("unmarshal active ids: %w", err)
	}
	return step, nil
}
