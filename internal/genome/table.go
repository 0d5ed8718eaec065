package genome

import (
	"fmt"
	"maps"
	"slices"
)

// sequence is the storage a table runs its bookkeeping over. Positions
// passed to insert and fill have already been validated.
type sequence interface {
	Len() int
	// insert splices n copies of sym in before position pos.
	insert(pos, n int, sym Symbol)
	// fill overwrites positions [start, start+n) with sym.
	fill(start, n int, sym Symbol)
	// symbols returns a copy of every position in order.
	symbols() []Symbol
	String() string
}

// table implements the Genome operations on top of a sequence. ArrayGenome
// and LinkedGenome embed it and differ only in the sequence they supply.
type table struct {
	kind   Kind
	seq    sequence
	spans  map[TEID]Span
	nextID TEID
	opts   options
}

func newTable(kind Kind, seq sequence, opts []Option) table {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return table{
		kind:  kind,
		seq:   seq,
		spans: make(map[TEID]Span),
		opts:  o,
	}
}

// InsertTE implements Genome.
func (t *table) InsertTE(pos, length int) (TEID, error) {
	if length < 0 {
		return 0, newLengthError("insert", length)
	}
	if n := t.seq.Len(); pos < 0 || pos > n {
		return 0, newPositionError(pos, n)
	}
	return t.insert(pos, length), nil
}

func (t *table) insert(pos, length int) TEID {
	t.nextID++
	id := t.nextID

	// Walk a snapshot of the ids: disabling deletes from the map mid-pass.
	for _, other := range t.ActiveTEs() {
		sp := t.spans[other]
		if sp.Start < pos && pos <= sp.End() {
			t.opts.logger.Debug("te disrupted",
				"kind", t.kind,
				"te", other,
				"by", id,
				"pos", pos,
			)
			t.disable(other, sp)
			continue
		}
		if pos < sp.Start || (t.opts.shiftAtStart && pos == sp.Start) {
			sp.Start += length
			t.spans[other] = sp
		}
	}

	t.seq.insert(pos, length, Active)
	t.spans[id] = Span{Start: pos, Length: length}

	t.opts.logger.Debug("te inserted",
		"kind", t.kind,
		"te", id,
		"pos", pos,
		"length", length,
	)
	return id
}

// CopyTE implements Genome.
func (t *table) CopyTE(te TEID, offset int) (TEID, bool) {
	sp, ok := t.spans[te]
	if !ok {
		return 0, false
	}

	pos := 0
	if n := t.seq.Len(); n > 0 {
		pos = (sp.Start + offset%n) % n
		if pos < 0 {
			pos += n
		}
	}

	t.opts.logger.Debug("te copied",
		"kind", t.kind,
		"te", te,
		"offset", offset,
		"pos", pos,
	)
	return t.insert(pos, sp.Length), true
}

// DisableTE implements Genome.
func (t *table) DisableTE(te TEID) {
	sp, ok := t.spans[te]
	if !ok {
		return
	}
	t.disable(te, sp)
	t.opts.logger.Debug("te disabled", "kind", t.kind, "te", te)
}

func (t *table) disable(te TEID, sp Span) {
	if sp.Start < 0 || sp.Length < 0 || sp.End() > t.seq.Len() {
		panic(fmt.Sprintf("genome: te %d span [%d, %d) outside sequence of length %d",
			te, sp.Start, sp.End(), t.seq.Len()))
	}
	t.seq.fill(sp.Start, sp.Length, Disabled)
	delete(t.spans, te)
}

// ActiveTEs implements Genome.
func (t *table) ActiveTEs() []TEID {
	return slices.Sorted(maps.Keys(t.spans))
}

// Span implements Genome.
func (t *table) Span(te TEID) (Span, bool) {
	sp, ok := t.spans[te]
	return sp, ok
}

// Len implements Genome.
func (t *table) Len() int {
	return t.seq.Len()
}

// String implements Genome.
func (t *table) String() string {
	return t.seq.String()
}

// Kind implements Genome.
func (t *table) Kind() Kind {
	return t.kind
}

// Check implements Genome. It reports the first disagreement between the
// table and the sequence: an unknown symbol, an id that was never issued, a
// span outside the sequence, or a span position not holding Active.
func (t *table) Check() error {
	syms := t.seq.symbols()
	if len(syms) != t.seq.Len() {
		return newInvariantError(0, "sequence holds %d symbols but reports length %d", len(syms), t.seq.Len())
	}
	for i, s := range syms {
		if !s.Valid() {
			return newInvariantError(0, "position %d holds unknown symbol %q", i, byte(s))
		}
	}

	for _, id := range t.ActiveTEs() {
		sp := t.spans[id]
		if id <= 0 || id > t.nextID {
			return newInvariantError(id, "id was never issued (next id %d)", t.nextID+1)
		}
		if sp.Start < 0 || sp.Length < 0 || sp.End() > len(syms) {
			return newInvariantError(id, "span [%d, %d) outside sequence of length %d", sp.Start, sp.End(), len(syms))
		}
		for i := sp.Start; i < sp.End(); i++ {
			if syms[i] != Active {
				return newInvariantError(id, "position %d holds %q, want %q", i, byte(syms[i]), byte(Active))
			}
		}
	}
	return nil
}

func renderSymbols(syms []Symbol) string {
	buf := make([]byte, len(syms))
	for i, s := range syms {
		buf[i] = byte(s)
	}
	return string(buf)
}
