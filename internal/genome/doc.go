// Package genome models a circular genome annotated with transposable
// elements (TEs).
//
// A genome is a sequence of position symbols: '-' where no TE was ever
// present, 'A' where an active TE sits, and 'x' where a TE was disabled.
// Position len-1 is adjacent to position 0; String renders the sequence
// linearly from position 0.
//
// # Representations
//
// Two types implement the Genome interface with identical observable
// behavior:
//
//   - ArrayGenome stores the symbols in a slice. Inserts shift the tail.
//   - LinkedGenome stores them in a circular doubly-linked list with a
//     sentinel (see internal/dllist). Inserts splice a fresh chain of nodes.
//
// Both delegate TE bookkeeping to the same table algorithm; only the splice
// and fill primitives differ.
//
// # TE table
//
// Active TEs live in a table from id to Span. Ids start at 1, increase by one
// per insert and are never reused. Disabling removes the entry; the only
// record of a disabled TE is the 'x' symbols it leaves behind.
//
// Inserting at pos disables every active TE with start < pos <= start+length
// and shifts every active TE with pos < start forward by the new length. A TE
// whose start equals pos is left alone by default, so afterwards its span
// covers the new TE's symbols instead of its own. WithShiftAtStart(true)
// shifts it as well.
//
// # Errors
//
// Out of range positions and negative lengths fail fast with *Error. Copying
// or disabling a TE that is not active is a normal no-op outcome, not an
// error. A table span reaching past the end of the sequence is a bug and
// panics.
//
// Genomes are not safe for concurrent use; guard each instance with its own
// lock if it is shared.
package genome
