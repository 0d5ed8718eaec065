package dllist

import (
	"fmt"
	"iter"
)

// Handle addresses a node in a List.
type Handle int

// Sentinel is the handle of the list's dummy head node.
const Sentinel Handle = 0

type node[T any] struct {
	val  T
	prev Handle
	next Handle
}

// List is a circular doubly-linked list of T.
type List[T any] struct {
	nodes []node[T]
	free  []Handle
	n     int
}

// New creates a list holding vals in order.
func New[T any](vals ...T) *List[T] {
	// The zero node links to itself, which is exactly the empty sentinel.
	l := &List[T]{nodes: make([]node[T], 1, len(vals)+1)}
	for _, v := range vals {
		l.InsertBefore(Sentinel, v)
	}
	return l
}

// Len returns the number of elements, excluding the sentinel. O(1).
func (l *List[T]) Len() int {
	return l.n
}

// Next returns the handle following h. The successor of the last element is
// the Sentinel.
func (l *List[T]) Next(h Handle) Handle {
	return l.nodes[h].next
}

// Prev returns the handle preceding h.
func (l *List[T]) Prev(h Handle) Handle {
	return l.nodes[h].prev
}

// Value returns the value stored at h.
func (l *List[T]) Value(h Handle) T {
	return l.nodes[h].val
}

// Set overwrites the value stored at h in place.
func (l *List[T]) Set(h Handle, v T) {
	if h == Sentinel {
		panic("dllist: set on sentinel")
	}
	l.nodes[h].val = v
}

// Seek returns the node i steps forward from the sentinel: Seek(0) is the
// Sentinel, Seek(1) the first element and Seek(Len()) the last one.
//
// The walk starts from whichever side of the sentinel is nearer, so it costs
// at most Len()/2+1 steps. Panics if i is outside [0, Len()].
func (l *List[T]) Seek(i int) Handle {
	if i < 0 || i > l.n {
		panic(fmt.Sprintf("dllist: seek %d out of range [0, %d]", i, l.n))
	}
	h := Sentinel
	if i <= l.n/2 {
		for ; i > 0; i-- {
			h = l.nodes[h].next
		}
		return h
	}
	for k := l.n + 1 - i; k > 0; k-- {
		h = l.nodes[h].prev
	}
	return h
}

// InsertAfter links a new node holding v directly after at and returns its
// handle.
func (l *List[T]) InsertAfter(at Handle, v T) Handle {
	h := l.alloc(v)
	next := l.nodes[at].next
	l.nodes[h].prev = at
	l.nodes[h].next = next
	l.nodes[at].next = h
	l.nodes[next].prev = h
	l.n++
	return h
}

// InsertBefore links a new node holding v directly before at and returns its
// handle. InsertBefore(Sentinel, v) appends.
func (l *List[T]) InsertBefore(at Handle, v T) Handle {
	return l.InsertAfter(l.nodes[at].prev, v)
}

// SpliceAfter builds a detached chain of count nodes holding v and links the
// whole chain in after at. Nodes already in the list are not touched apart
// from at and its old successor.
func (l *List[T]) SpliceAfter(at Handle, v T, count int) {
	if count <= 0 {
		return
	}
	first := l.alloc(v)
	last := first
	for i := 1; i < count; i++ {
		h := l.alloc(v)
		l.nodes[last].next = h
		l.nodes[h].prev = last
		last = h
	}

	next := l.nodes[at].next
	l.nodes[first].prev = at
	l.nodes[at].next = first
	l.nodes[last].next = next
	l.nodes[next].prev = last
	l.n += count
}

// Remove unlinks h and releases its slot for reuse.
func (l *List[T]) Remove(h Handle) {
	if h == Sentinel {
		panic("dllist: remove sentinel")
	}
	nd := l.nodes[h]
	l.nodes[nd.prev].next = nd.next
	l.nodes[nd.next].prev = nd.prev
	var zero T
	l.nodes[h] = node[T]{val: zero}
	l.free = append(l.free, h)
	l.n--
}

// All yields the values in forward order, starting after the sentinel and
// stopping when traversal wraps back to it.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for h := l.nodes[Sentinel].next; h != Sentinel; h = l.nodes[h].next {
			if !yield(l.nodes[h].val) {
				return
			}
		}
	}
}

// Values returns the elements as a slice, in forward order.
func (l *List[T]) Values() []T {
	out := make([]T, 0, l.n)
	for v := range l.All() {
		out = append(out, v)
	}
	return out
}

func (l *List[T]) alloc(v T) Handle {
	if k := len(l.free); k > 0 {
		h := l.free[k-1]
		l.free = l.free[:k-1]
		l.nodes[h] = node[T]{val: v}
		return h
	}
	l.nodes = append(l.nodes, node[T]{val: v})
	return Handle(len(l.nodes) - 1)
}
