package genome

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forEachKind runs fn as a subtest against every representation.
func forEachKind(t *testing.T, fn func(t *testing.T, newGenome func(n int, opts ...Option) Genome)) {
	t.Helper()
	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			fn(t, func(n int, opts ...Option) Genome {
				t.Helper()
				g, err := New(kind, n, opts...)
				require.NoError(t, err)
				return g
			})
		})
	}
}

func mustInsert(t *testing.T, g Genome, pos, length int) TEID {
	t.Helper()
	id, err := g.InsertTE(pos, length)
	require.NoError(t, err)
	return id
}

func TestNew_Fresh(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		for _, n := range []int{0, 1, 5, 17} {
			g := newGenome(n)

			assert.Equal(t, n, g.Len())
			assert.Empty(t, g.ActiveTEs())
			assert.Equal(t, strings.Repeat("-", n), g.String())
			assert.NoError(t, g.Check())
		}
	})
}

func TestNew_NegativeLength(t *testing.T) {
	for _, kind := range Kinds {
		g, err := New(kind, -1)
		require.Error(t, err)
		assert.Nil(t, g)
		assert.True(t, IsInvalidLength(err))
	}
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New("rope", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown genome kind")
}

func TestKind(t *testing.T) {
	a, err := NewArray(1)
	require.NoError(t, err)
	l, err := NewLinked(1)
	require.NoError(t, err)

	assert.Equal(t, KindArray, a.Kind())
	assert.Equal(t, KindLinked, l.Kind())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("linked")
	require.NoError(t, err)
	assert.Equal(t, KindLinked, k)

	_, err = ParseKind("Linked")
	assert.Error(t, err)
}

func TestInsertTE_CollisionScenario(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		g := newGenome(5)

		id1 := mustInsert(t, g, 0, 2)
		assert.Equal(t, TEID(1), id1)
		assert.Equal(t, "AA-----", g.String())
		assert.Equal(t, []TEID{1}, g.ActiveTEs())

		// Position 1 falls inside TE 1's span (0, 2].
		id2 := mustInsert(t, g, 1, 1)
		assert.Equal(t, TEID(2), id2)
		assert.Equal(t, "xAx-----", g.String())
		assert.Equal(t, 8, g.Len())
		assert.Equal(t, []TEID{2}, g.ActiveTEs())

		sp, ok := g.Span(id2)
		require.True(t, ok)
		assert.Equal(t, Span{Start: 1, Length: 1}, sp)
		assert.NoError(t, g.Check())
	})
}

func TestInsertTE_ShiftsDownstream(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		g := newGenome(10)
		id1 := mustInsert(t, g, 5, 2)
		id2 := mustInsert(t, g, 2, 3)

		assert.Equal(t, "--AAA---AA-----", g.String())
		assert.Equal(t, []TEID{id1, id2}, g.ActiveTEs())

		sp, _ := g.Span(id1)
		assert.Equal(t, Span{Start: 8, Length: 2}, sp)
		sp, _ = g.Span(id2)
		assert.Equal(t, Span{Start: 2, Length: 3}, sp)
		assert.NoError(t, g.Check())
	})
}

func TestInsertTE_UpstreamUntouched(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		g := newGenome(3)
		id1 := mustInsert(t, g, 0, 1)
		id2 := mustInsert(t, g, 3, 2)

		assert.Equal(t, "A--AA-", g.String())
		sp, _ := g.Span(id1)
		assert.Equal(t, Span{Start: 0, Length: 1}, sp)
		sp, _ = g.Span(id2)
		assert.Equal(t, Span{Start: 3, Length: 2}, sp)
	})
}

func TestInsertTE_EndBoundaryDisables(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		g := newGenome(4)
		mustInsert(t, g, 1, 2)
		require.Equal(t, "-AA---", g.String())

		// pos == start+length is inside the closed upper bound.
		id2 := mustInsert(t, g, 3, 1)

		assert.Equal(t, "-xxA---", g.String())
		assert.Equal(t, []TEID{id2}, g.ActiveTEs())
		assert.NoError(t, g.Check())
	})
}

func TestInsertTE_AtEnd(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		g := newGenome(3)
		id := mustInsert(t, g, 3, 2)

		assert.Equal(t, "---AA", g.String())
		sp, _ := g.Span(id)
		assert.Equal(t, Span{Start: 3, Length: 2}, sp)
	})
}

func TestInsertTE_ZeroLengthConsumesID(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		g := newGenome(3)

		id1 := mustInsert(t, g, 1, 0)
		assert.Equal(t, TEID(1), id1)
		assert.Equal(t, "---", g.String())
		assert.Equal(t, 3, g.Len())

		id2 := mustInsert(t, g, 2, 1)
		assert.Equal(t, TEID(2), id2)
		assert.Equal(t, "--A-", g.String())
	})
}

func TestInsertTE_StartCoincident(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		g := newGenome(3)
		id1 := mustInsert(t, g, 1, 2)
		id2 := mustInsert(t, g, 1, 1)

		assert.Equal(t, "-AAA--", g.String())
		assert.Equal(t, []TEID{id1, id2}, g.ActiveTEs())

		// TE 1 keeps start 1, which now holds TE 2's symbol.
		sp, _ := g.Span(id1)
		assert.Equal(t, Span{Start: 1, Length: 2}, sp)

		g.DisableTE(id2)
		assert.Equal(t, "-xAA--", g.String())

		err := g.Check()
		require.Error(t, err)
		assert.True(t, IsInvariantViolation(err))
		assert.Contains(t, err.Error(), "te=1")
	})
}

func TestInsertTE_StartCoincidentShifted(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		g := newGenome(3, WithShiftAtStart(true))
		id1 := mustInsert(t, g, 1, 2)
		id2 := mustInsert(t, g, 1, 1)

		assert.Equal(t, "-AAA--", g.String())
		sp, _ := g.Span(id1)
		assert.Equal(t, Span{Start: 2, Length: 2}, sp)

		g.DisableTE(id2)
		assert.Equal(t, "-xAA--", g.String())
		assert.NoError(t, g.Check())

		g.DisableTE(id1)
		assert.Equal(t, "-xxx--", g.String())
	})
}

func TestInsertTE_InvalidArguments(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		g := newGenome(4)

		_, err := g.InsertTE(-1, 1)
		assert.True(t, IsInvalidPosition(err))

		_, err = g.InsertTE(5, 1)
		assert.True(t, IsInvalidPosition(err))
		assert.Contains(t, err.Error(), "position 5 outside [0, 4]")

		_, err = g.InsertTE(0, -1)
		assert.True(t, IsInvalidLength(err))

		// Rejected inserts leave the genome and the id counter alone.
		assert.Equal(t, "----", g.String())
		assert.Equal(t, TEID(1), mustInsert(t, g, 0, 1))
	})
}

func TestDisableTE_RoundTrip(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		g := newGenome(6)
		id := mustInsert(t, g, 2, 3)
		before := g.Len()

		g.DisableTE(id)

		assert.Equal(t, before, g.Len())
		assert.Equal(t, "--xxx----", g.String())
		assert.NotContains(t, g.ActiveTEs(), id)
		_, ok := g.Span(id)
		assert.False(t, ok)
	})
}

func TestDisableTE_Idempotent(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		g := newGenome(4)
		id1 := mustInsert(t, g, 0, 2)
		id2 := mustInsert(t, g, 6, 1)

		g.DisableTE(id1)
		once := g.String()
		g.DisableTE(id1)

		assert.Equal(t, once, g.String())
		assert.Equal(t, []TEID{id2}, g.ActiveTEs())
	})
}

func TestDisableTE_UnknownIsNoop(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		g := newGenome(3)
		mustInsert(t, g, 1, 1)

		g.DisableTE(0)
		g.DisableTE(42)

		assert.Equal(t, "-A--", g.String())
		assert.Len(t, g.ActiveTEs(), 1)
	})
}

func TestCopyTE_Inactive(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		g := newGenome(5)
		id := mustInsert(t, g, 0, 1)
		g.DisableTE(id)

		_, ok := g.CopyTE(id, 2)
		assert.False(t, ok)
		_, ok = g.CopyTE(99, 2)
		assert.False(t, ok)

		assert.Equal(t, "x-----", g.String())
		// No id was consumed by the failed copies.
		assert.Equal(t, TEID(2), mustInsert(t, g, 0, 0))
	})
}

func TestCopyTE_NegativeOffsetWraps(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		g := newGenome(10)
		id1 := mustInsert(t, g, 2, 3)

		id2, ok := g.CopyTE(id1, -4)
		require.True(t, ok)

		// (2 - 4) mod 13 = 11
		assert.Equal(t, "--AAA------AAA--", g.String())
		sp, _ := g.Span(id2)
		assert.Equal(t, Span{Start: 11, Length: 3}, sp)
		assert.Equal(t, []TEID{id1, id2}, g.ActiveTEs())
		assert.NoError(t, g.Check())
	})
}

func TestCopyTE_PositiveOffsetWraps(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		g := newGenome(4)
		id1 := mustInsert(t, g, 3, 1)

		// (3 + 3) mod 5 = 1
		id2, ok := g.CopyTE(id1, 3)
		require.True(t, ok)

		assert.Equal(t, "-A--A-", g.String())
		sp, _ := g.Span(id1)
		assert.Equal(t, Span{Start: 4, Length: 1}, sp)
		sp, _ = g.Span(id2)
		assert.Equal(t, Span{Start: 1, Length: 1}, sp)
	})
}

func TestCopyTE_IntoItselfDisablesSource(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		g := newGenome(6)
		id1 := mustInsert(t, g, 1, 3)

		id2, ok := g.CopyTE(id1, 1)
		require.True(t, ok)

		assert.Equal(t, "-xAAAxx-----", g.String())
		assert.Equal(t, []TEID{id2}, g.ActiveTEs())
	})
}

func TestCopyTE_MatchesInsert(t *testing.T) {
	offsets := []int{-30, -7, -1, 0, 1, 4, 12, 29, math.MaxInt, math.MinInt}

	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		for _, offset := range offsets {
			copied := newGenome(8)
			inserted := newGenome(8)
			mustInsert(t, copied, 5, 2)
			mustInsert(t, inserted, 5, 2)
			mustInsert(t, copied, 1, 1)
			mustInsert(t, inserted, 1, 1)

			sp, _ := copied.Span(1)
			n := copied.Len()
			pos := ((sp.Start+offset%n)%n + n) % n

			_, ok := copied.CopyTE(1, offset)
			require.True(t, ok)
			mustInsert(t, inserted, pos, sp.Length)

			assert.Equal(t, inserted.String(), copied.String(), "offset %d", offset)
			assert.Equal(t, inserted.ActiveTEs(), copied.ActiveTEs(), "offset %d", offset)
		}
	})
}

func TestCopyTE_EmptyGenome(t *testing.T) {
	forEachKind(t, func(t *testing.T, newGenome func(int, ...Option) Genome) {
		g := newGenome(0)
		id1 := mustInsert(t, g, 0, 0)

		id2, ok := g.CopyTE(id1, -3)
		require.True(t, ok)

		sp, _ := g.Span(id2)
		assert.Equal(t, Span{Start: 0, Length: 0}, sp)
		assert.Equal(t, 0, g.Len())
		assert.Equal(t, "", g.String())
	})
}

func TestWithLogger_LogsDisruption(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	g, err := NewLinked(5, WithLogger(logger))
	require.NoError(t, err)
	mustInsert(t, g, 0, 2)
	mustInsert(t, g, 1, 1)

	out := buf.String()
	assert.Contains(t, out, "te inserted")
	assert.Contains(t, out, "te disrupted")
	assert.Contains(t, out, "kind=linked")
}

func TestWithLogger_NilKeepsDefault(t *testing.T) {
	g, err := NewArray(2, WithLogger(nil))
	require.NoError(t, err)

	assert.NotPanics(t, func() { mustInsert(t, g, 0, 1) })
}
