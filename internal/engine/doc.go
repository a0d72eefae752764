// Package engine orchestrates the two sync operations.
//
// A full sync (GroundTruth) parses one artifact, the truth, into an IR
// and regenerates every other artifact from it: argparse functions,
// classes and function signatures. A property sync (SyncProperties)
// copies one annotation and value onto a list of addresses.
//
// Both operations read and write through a store.Store, so the CLI's
// dry-run mode is a store.Recorder and tests use store.Memory.
//
// PATTERNS:
//
// Logical clock:
// Writes within a run are numbered by Clock.Next(), and the optional
// journal orders entries by that number, never by wall-clock time.
//
// Run ids:
// Every run is tagged with an id from a RunIDGenerator. The id is the
// run_id attribute on every log line and the key of the run's journal
// entries.
//
// No rollback:
// Targets are written one at a time in request order. A failure stops
// the loop and the Report lists what was already written.
package engine
