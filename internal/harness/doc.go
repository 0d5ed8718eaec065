// Package harness runs fixed scripts of genome operations against every
// genome representation and checks that they agree.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: concrete_collision
//	description: "Inserting inside an active TE disables it"
//	size: 5
//	kinds: [array, linked]   # optional, defaults to every representation
//	shift_at_start: false    # optional, see genome.WithShiftAtStart
//	steps:
//	  - op: insert
//	    pos: 0
//	    length: 2
//	    expect:
//	      id: 1
//	      render: "AA-----"
//	      active: [1]
//	  - op: copy
//	    te: 1
//	    offset: -1
//	  - op: disable
//	    te: 1
//	assertions:
//	  - type: render
//	    render: "xx----AA-"
//
// Documents are checked against an embedded CUE schema before they are
// decoded, then validated field by field.
//
// # Expectations
//
// A step's expect clause may pin the returned id, a "none" copy result, an
// error code, the rendered genome, and the active ids after the step. Only
// the fields present are checked.
//
// # Assertion Types
//
//   - render: final rendering equals render
//   - active: final active ids equal active
//   - length: final genome length equals length
//   - op_count: the run recorded exactly count steps of op
//   - consistent: the final genome passes genome.Check
//   - final_state: the latest steps row matching where has the expect columns
//
// An assertion with kind set applies to that representation only.
//
// # Equivalence
//
// Every step of every representation is compared with the first
// representation's step at the same seq. Any difference in outcome, render
// or active ids fails the scenario.
//
// # Deterministic Execution
//
// Steps are stamped by a logical clock (testutil.StepClock) and written to
// an in-memory store (internal/store) under content-addressed ids, so the
// same scenario always yields the same log. That log backs final_state
// assertions, Replay, and golden snapshots.
package harness
