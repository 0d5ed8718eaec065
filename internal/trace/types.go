package trace

import (
	"fmt"
	"slices"

	"github.com/roach88/transposon/internal/genome"
)

// Op names a genome operation.
type Op string

const (
	OpInsert  Op = "insert"
	OpCopy    Op = "copy"
	OpDisable Op = "disable"
)

// ParseOp converts an operation name to an Op.
func ParseOp(s string) (Op, error) {
	switch op := Op(s); op {
	case OpInsert, OpCopy, OpDisable:
		return op, nil
	default:
		return "", fmt.Errorf("unknown op %q", s)
	}
}

// Run identifies one execution of a script against one representation.
type Run struct {
	ID           string `json:"id"`
	Scenario     string `json:"scenario"`
	Kind         string `json:"kind"`
	Size         int    `json:"size"`
	ShiftAtStart bool   `json:"shift_at_start"`
}

// Outcome is what an operation returned.
type Outcome struct {
	// ID is the id returned by insert or copy; 0 otherwise.
	ID int `json:"id,omitempty"`

	// None is true when copy found no active TE.
	None bool `json:"none,omitempty"`

	// Error is the genome error code, if the operation was rejected.
	Error string `json:"error,omitempty"`
}

// Step is a single recorded operation and the genome state after it.
type Step struct {
	ID     string  `json:"id"`
	RunID  string  `json:"run_id"`
	Seq    int64   `json:"seq"`
	Op     Op      `json:"op"`
	Pos    int     `json:"pos,omitempty"`
	Length int     `json:"length,omitempty"`
	TE     int     `json:"te,omitempty"`
	Offset int     `json:"offset,omitempty"`
	Result Outcome `json:"result"`
	Render string  `json:"render"`
	Active []int   `json:"active"`
}

// Args returns the arguments relevant to the step's op.
func (s Step) Args() map[string]any {
	switch s.Op {
	case OpInsert:
		return map[string]any{"pos": s.Pos, "length": s.Length}
	case OpCopy:
		return map[string]any{"te": s.TE, "offset": s.Offset}
	case OpDisable:
		return map[string]any{"te": s.TE}
	default:
		return map[string]any{}
	}
}

// Content returns the step's operation, outcome and resulting state as a
// canonical-JSON-ready map. Ids and the run id are left out, so steps from
// different representations of the same script have equal content.
func (s Step) Content() map[string]any {
	result := map[string]any{}
	if s.Result.ID != 0 {
		result["id"] = s.Result.ID
	}
	if s.Result.None {
		result["none"] = true
	}
	if s.Result.Error != "" {
		result["error"] = s.Result.Error
	}

	active := make([]any, len(s.Active))
	for i, id := range s.Active {
		active[i] = id
	}

	return map[string]any{
		"seq":    s.Seq,
		"op":     string(s.Op),
		"args":   s.Args(),
		"result": result,
		"render": s.Render,
		"active": active,
	}
}

// canonicalMap is the content hashed into the step id.
func (s Step) canonicalMap() map[string]any {
	m := s.Content()
	m["run_id"] = s.RunID
	return m
}

// Apply performs the step's operation on g, then fills in Result, Render
// and Active from the genome.
func Apply(g genome.Genome, s *Step) error {
	s.Result = Outcome{}
	switch s.Op {
	case OpInsert:
		id, err := g.InsertTE(s.Pos, s.Length)
		if err != nil {
			code := genome.CodeOf(err)
			if code == "" {
				return fmt.Errorf("apply insert: %w", err)
			}
			s.Result.Error = string(code)
		} else {
			s.Result.ID = int(id)
		}
	case OpCopy:
		id, ok := g.CopyTE(genome.TEID(s.TE), s.Offset)
		if ok {
			s.Result.ID = int(id)
		} else {
			s.Result.None = true
		}
	case OpDisable:
		g.DisableTE(genome.TEID(s.TE))
	default:
		return fmt.Errorf("apply: unknown op %q", s.Op)
	}

	s.Render = g.String()
	s.Active = ActiveInts(g)
	return nil
}

// ActiveInts returns g's active ids as plain ints.
func ActiveInts(g genome.Genome) []int {
	ids := g.ActiveTEs()
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

// SameState reports whether two steps left their genomes in the same
// observable state with the same outcome.
func SameState(a, b Step) bool {
	return a.Result == b.Result && a.Render == b.Render && slices.Equal(a.Active, b.Active)
}
