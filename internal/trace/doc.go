// Package trace defines the records produced when a script of genome
// operations runs: one Run per (scenario, representation) pair and one Step
// per operation, stamped with a logical seq.
//
// Records are content-addressed. Step ids are SHA-256 digests of the step's
// canonical JSON (RFC 8785: sorted keys, NFC strings, integers only) with a
// domain prefix; run ids are name-based UUIDs (version 5) over the run's
// canonical JSON. Running the same script twice yields the same ids, which
// keeps golden snapshots and replays stable.
package trace
