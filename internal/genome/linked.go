package genome

import (
	"github.com/roach88/transposon/internal/dllist"
)

// LinkedGenome backs a genome with a circular doubly-linked list of symbol
// nodes behind a sentinel. Inserts walk to the splice point and link in a
// new chain; nothing else in the list moves. Disables walk to the span and
// rewrite its nodes in place. Len is O(1) because the list keeps a count.
type LinkedGenome struct {
	table
}

var _ Genome = (*LinkedGenome)(nil)

// NewLinked creates a list-backed genome of n empty positions.
func NewLinked(n int, opts ...Option) (*LinkedGenome, error) {
	if n < 0 {
		return nil, newLengthError("new", n)
	}
	list := dllist.New[Symbol]()
	list.SpliceAfter(dllist.Sentinel, Empty, n)
	return &LinkedGenome{table: newTable(KindLinked, &linkedSeq{list: list}, opts)}, nil
}

type linkedSeq struct {
	list *dllist.List[Symbol]
}

func (l *linkedSeq) Len() int {
	return l.list.Len()
}

func (l *linkedSeq) insert(pos, n int, sym Symbol) {
	// Seek(pos) is the node before position pos; the sentinel when pos is 0.
	l.list.SpliceAfter(l.list.Seek(pos), sym, n)
}

func (l *linkedSeq) fill(start, n int, sym Symbol) {
	if n == 0 {
		return
	}
	h := l.list.Seek(start + 1)
	for i := 0; i < n; i++ {
		if h == dllist.Sentinel {
			panic("genome: fill wrapped past the end of the sequence")
		}
		l.list.Set(h, sym)
		h = l.list.Next(h)
	}
}

func (l *linkedSeq) symbols() []Symbol {
	return l.list.Values()
}

func (l *linkedSeq) String() string {
	return renderSymbols(l.list.Values())
}
