package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - no journal tables
// 1 - runs and writes
const currentSchemaVersion = 1

// Journal records which artifacts each sync run wrote, in a SQLite
// database. IR records are not stored; only content hashes are.
type Journal struct {
	db *sql.DB
}

// Run identifies one sync invocation.
type Run struct {
	ID        string
	Operation string // "ground-truth" or "sync-properties"
	Truth     string
	DryRun    bool
}

// Entry is one recorded write.
type Entry struct {
	RunID      string `json:"run_id" yaml:"run_id"`
	Seq        int64  `json:"seq" yaml:"seq"`
	Path       string `json:"path" yaml:"path"`
	BeforeHash string `json:"before_hash" yaml:"before_hash"` // "" when the file was created
	AfterHash  string `json:"after_hash" yaml:"after_hash"`
	ShapeHash  string `json:"shape_hash,omitempty" yaml:"shape_hash,omitempty"` // "" when the artifact has no IR
}

// OpenJournal creates or opens the journal at path and applies migrations.
func OpenJournal(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version >= currentSchemaVersion {
		return nil
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// BeginRun records a run. Recording the same run twice is a no-op.
func (j *Journal) BeginRun(ctx context.Context, r Run) error {
	dry := 0
	if r.DryRun {
		dry = 1
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs (id, operation, truth, dry_run)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, r.ID, r.Operation, r.Truth, dry)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// RecordWrite appends an entry. The entry id is derived from run and seq,
// so recording the same entry twice is a no-op.
func (j *Journal) RecordWrite(ctx context.Context, e Entry) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO writes (id, run_id, seq, path, before_hash, after_hash, shape_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, fmt.Sprintf("%s/%d", e.RunID, e.Seq), e.RunID, e.Seq, e.Path, e.BeforeHash, e.AfterHash, e.ShapeHash)
	if err != nil {
		return fmt.Errorf("record write: %w", err)
	}
	return nil
}

// Entries returns the writes of one run, or of every run when runID is "",
// ordered by run then seq.
func (j *Journal) Entries(ctx context.Context, runID string) ([]Entry, error) {
	query := `
		SELECT w.run_id, w.seq, w.path, w.before_hash, w.after_hash, w.shape_hash
		FROM writes w
		JOIN runs r ON w.run_id = r.id`
	var args []any
	if runID != "" {
		query += ` WHERE w.run_id = ?`
		args = append(args, runID)
	}
	query += ` ORDER BY r.rowid ASC, w.seq ASC, w.id COLLATE BINARY ASC`

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query writes: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.RunID, &e.Seq, &e.Path, &e.BeforeHash, &e.AfterHash, &e.ShapeHash); err != nil {
			return nil, fmt.Errorf("scan write: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate writes: %w", err)
	}
	return entries, nil
}

// Runs returns every recorded run in insertion order.
func (j *Journal) Runs(ctx context.Context) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, operation, truth, dry_run FROM runs ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		var dry int
		if err := rows.Scan(&r.ID, &r.Operation, &r.Truth, &dry); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.DryRun = dry != 0
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ContentHash is the hex SHA-256 of data, or "" for nil data.
func ContentHash(data []byte) string {
	if data == nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
