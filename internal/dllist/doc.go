// Package dllist implements a circular doubly-linked list with a fixed
// sentinel node.
//
// Nodes live in a growable arena and are addressed by integer handles
// instead of pointers. Handle 0 is the sentinel: it is both the head and the
// tail reference, never holds a value, and traversal wraps when it lands back
// on it. Removed nodes go on a free list and their slots are reused by later
// inserts, so a Handle is only meaningful while its node is linked.
//
// A List is not safe for concurrent use.
package dllist
