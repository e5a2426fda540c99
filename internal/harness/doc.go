// Package harness runs YAML scenarios against a fresh simpledb engine.
//
// A scenario is a list of steps, each one engine call (set, get, delete,
// keys, ...) or a clock movement (advance). Steps may carry an expect clause
// checked against the call's outcome; assertions at the end inspect the
// final state of the database.
//
// Every call is recorded in a trace. Traces are deterministic: each scenario
// runs in an in-memory database with a manual clock starting at
// testutil.Epoch and a fixed GUID generator, so the trace of a scenario can
// be compared byte for byte against a golden file.
//
// # Scenario format
//
//	name: expire_on_read
//	description: An expired key reads as auto-deleted
//	steps:
//	  - op: set
//	    table: sessions
//	    key: s1
//	    value: '{"user":"ada"}'
//	    expires_in: 1m
//	  - op: advance
//	    duration: 2m
//	  - op: get
//	    table: sessions
//	    key: s1
//	    expect:
//	      status: KeyAutoDeleted
//	assertions:
//	  - type: live_keys
//	    table: sessions
//	    keys: []
package harness
