package genome

import "slices"

// ArrayGenome backs a genome with a slice of symbols. Inserts shift every
// later symbol; disables rewrite a contiguous range in place.
type ArrayGenome struct {
	table
}

var _ Genome = (*ArrayGenome)(nil)

// NewArray creates an array-backed genome of n empty positions.
func NewArray(n int, opts ...Option) (*ArrayGenome, error) {
	if n < 0 {
		return nil, newLengthError("new", n)
	}
	seq := &arraySeq{syms: slices.Repeat([]Symbol{Empty}, n)}
	return &ArrayGenome{table: newTable(KindArray, seq, opts)}, nil
}

type arraySeq struct {
	syms []Symbol
}

func (a *arraySeq) Len() int {
	return len(a.syms)
}

func (a *arraySeq) insert(pos, n int, sym Symbol) {
	if n == 0 {
		return
	}
	a.syms = slices.Insert(a.syms, pos, slices.Repeat([]Symbol{sym}, n)...)
}

func (a *arraySeq) fill(start, n int, sym Symbol) {
	for i := start; i < start+n; i++ {
		a.syms[i] = sym
	}
}

func (a *arraySeq) symbols() []Symbol {
	return slices.Clone(a.syms)
}

func (a *arraySeq) String() string {
	return renderSymbols(a.syms)
}
