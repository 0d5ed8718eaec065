package genome

import (
	"fmt"
	"io"
	"log/slog"
)

// TEID identifies a transposable element. Ids are positive and never reused
// within one genome.
type TEID int

// Symbol is the content of a single genome position.
type Symbol byte

// Position symbols.
const (
	Empty    Symbol = '-'
	Active   Symbol = 'A'
	Disabled Symbol = 'x'
)

// Valid reports whether s is one of the three position symbols.
func (s Symbol) Valid() bool {
	return s == Empty || s == Active || s == Disabled
}

// Span is the TE table record for an active TE.
type Span struct {
	Start  int
	Length int
}

// End returns the first position past the span.
func (s Span) End() int {
	return s.Start + s.Length
}

// Kind names a genome representation.
type Kind string

const (
	KindArray  Kind = "array"
	KindLinked Kind = "linked"
)

// Kinds lists every representation, in a stable order.
var Kinds = []Kind{KindArray, KindLinked}

// ParseKind converts a representation name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindArray, KindLinked:
		return k, nil
	default:
		return "", fmt.Errorf("unknown genome kind %q", s)
	}
}

// Genome is the capability set shared by every representation.
type Genome interface {
	// InsertTE inserts length new active symbols before position pos and
	// returns the new TE's id. pos must be in [0, Len()] and length >= 0.
	InsertTE(pos, length int) (TEID, error)

	// CopyTE inserts a copy of te at (start+offset) mod Len(). It returns
	// false without touching the genome if te is not active.
	CopyTE(te TEID, offset int) (TEID, bool)

	// DisableTE marks te's span disabled and drops it from the table.
	// Unknown or already disabled ids are ignored.
	DisableTE(te TEID)

	// ActiveTEs returns the active ids in ascending order.
	ActiveTEs() []TEID

	// Span returns the table record for te, if it is active.
	Span(te TEID) (Span, bool)

	// Len returns the number of positions.
	Len() int

	// String renders every position from 0 to Len()-1.
	String() string

	// Kind reports the representation.
	Kind() Kind

	// Check verifies the table against the sequence.
	Check() error
}

// Option configures a genome at construction.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	shiftAtStart bool
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger used for Debug-level operation logs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithShiftAtStart controls TEs that start exactly at an insertion point.
// When false (the default) they are neither disabled nor shifted. When true
// they are shifted past the inserted block like any TE further downstream.
func WithShiftAtStart(shift bool) Option {
	return func(o *options) {
		o.shiftAtStart = shift
	}
}

// New creates a genome of n empty positions using the given representation.
func New(kind Kind, n int, opts ...Option) (Genome, error) {
	switch kind {
	case KindArray:
		g, err := NewArray(n, opts...)
		if err != nil {
			return nil, err
		}
		return g, nil
	case KindLinked:
		g, err := NewLinked(n, opts...)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown genome kind %q", kind)
	}
}
