package harness

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/transposon/internal/genome"
	"github.com/roach88/transposon/internal/store"
	"github.com/roach88/transposon/internal/trace"
)

func TestReplay_ReproducesRecordedRuns(t *testing.T) {
	st, err := store.Open()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	scenario, err := LoadScenario("testdata/scenarios/wraparound_copy.yaml")
	require.NoError(t, err)

	result, err := New(st, nil).Run(ctx, scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	for _, rr := range result.Runs {
		g, err := Replay(ctx, st, rr.Run.ID)
		require.NoError(t, err, rr.Run.Kind)

		assert.Equal(t, genome.Kind(rr.Run.Kind), g.Kind())
		assert.Equal(t, rr.Render, g.String())
		assert.Equal(t, rr.Active, trace.ActiveInts(g))
		assert.NoError(t, g.Check())
	}
}

func TestReplay_HonorsShiftAtStart(t *testing.T) {
	st, err := store.Open()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	scenario, err := LoadScenario("testdata/scenarios/start_coincident_shifted.yaml")
	require.NoError(t, err)
	scenario.Steps = scenario.Steps[:3]

	result, err := New(st, nil).Run(ctx, scenario)
	require.NoError(t, err)

	g, err := Replay(ctx, st, result.Runs[0].Run.ID)
	require.NoError(t, err)

	sp, ok := g.Span(1)
	require.True(t, ok)
	assert.Equal(t, genome.Span{Start: 2, Length: 2}, sp)
}

func TestReplay_DetectsDivergence(t *testing.T) {
	st, err := store.Open()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	runID, err := trace.RunID("forged", "array", 3, false)
	require.NoError(t, err)
	require.NoError(t, st.WriteRun(ctx, trace.Run{ID: runID, Scenario: "forged", Kind: "array", Size: 3}))

	// The recorded render claims the insert landed at the end.
	forged := trace.Step{
		RunID:  runID,
		Seq:    1,
		Op:     trace.OpInsert,
		Pos:    0,
		Length: 1,
		Result: trace.Outcome{ID: 1},
		Render: "---A",
		Active: []int{1},
	}
	forged.ID, err = trace.StepID(forged)
	require.NoError(t, err)
	require.NoError(t, st.WriteStep(ctx, forged))

	_, err = Replay(ctx, st, runID)
	require.Error(t, err)

	var re *ReplayError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, int64(1), re.Seq)
	assert.Equal(t, "---A", re.Expected.Render)
	assert.Equal(t, "A---", re.Actual.Render)
	assert.Contains(t, err.Error(), "diverged at seq 1")
}

func TestReplay_DetectsForeignStepID(t *testing.T) {
	st, err := store.Open()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	runID, err := trace.RunID("renamed", "linked", 2, false)
	require.NoError(t, err)
	require.NoError(t, st.WriteRun(ctx, trace.Run{ID: runID, Scenario: "renamed", Kind: "linked", Size: 2}))

	step := trace.Step{
		ID:     "not-a-content-hash",
		RunID:  runID,
		Seq:    1,
		Op:     trace.OpDisable,
		TE:     4,
		Render: "--",
		Active: []int{},
	}
	require.NoError(t, st.WriteStep(ctx, step))

	_, err = Replay(ctx, st, runID)
	var re *ReplayError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "not-a-content-hash", re.Expected.ID)
}

func TestReplay_UnknownRun(t *testing.T) {
	st, err := store.Open()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	_, err = Replay(context.Background(), st, "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}
