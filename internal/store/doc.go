// Package store reads and writes artifact files and journals sync runs.
//
// Store is the storage collaborator used by the emitters and the sync
// engine:
//   - FS: the filesystem, with atomic replace-by-rename writes
//   - Memory: an in-memory map for tests
//   - Recorder: the dry-run store, capturing writes over a base store
//
// Journal is an optional SQLite log of which files each sync run wrote.
// It stores content hashes only; IR records are never persisted.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Entries are ordered by run, then by the run's logical seq, never by
// wall time.
package store
