package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/roach88/doctrans/internal/docstring"
	"github.com/roach88/doctrans/internal/emit"
	"github.com/roach88/doctrans/internal/store"
)

// Operation names recorded in the journal.
const (
	OpGroundTruth    = "ground-truth"
	OpSyncProperties = "sync-properties"
)

// EmitOptions control how sync targets are rendered.
type EmitOptions struct {
	EmitDefaultDoc bool
	WordWrap       bool
	Width          int
	InlineTypes    bool // annotate function targets instead of documenting types
	CarryDefaults  bool // argparse targets carry default=
	File           emit.FileOptions

	// ArgparseDefaultDoc adds "Defaults to" phrases to argparse help texts.
	// EmitDefaultDoc does not reach argparse targets, so a default that is
	// not carried is dropped.
	ArgparseDefaultDoc bool
}

// DefaultEmitOptions matches the emitters' own defaults.
func DefaultEmitOptions() EmitOptions {
	return EmitOptions{
		EmitDefaultDoc: true,
		Width:          docstring.DefaultWidth,
		InlineTypes:    true,
	}
}

// Engine runs sync operations against a store.
//
// Everything is synchronous and single goroutine: targets are processed
// strictly in order and each is written before the next is read, so two
// targets in one file see each other's edits. Nothing is rolled back when
// a run fails part way.
type Engine struct {
	store   store.Store
	logger  *slog.Logger
	runIDs  RunIDGenerator
	journal *store.Journal
	parse   docstring.ParseOptions
	emit    EmitOptions
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithRunIDs sets the run id source. Tests pass a FixedGenerator.
func WithRunIDs(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.runIDs = g
	}
}

// WithJournal records every write in j. The engine does not close it.
func WithJournal(j *store.Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithParseOptions sets how artifacts are read.
func WithParseOptions(o docstring.ParseOptions) Option {
	return func(e *Engine) {
		e.parse = o
	}
}

// WithEmitOptions sets how targets are rendered.
func WithEmitOptions(o EmitOptions) Option {
	return func(e *Engine) {
		e.emit = o
	}
}

// New creates an Engine over st.
func New(st store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  st,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		runIDs: UUIDv7Generator{},
		emit:   DefaultEmitOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Report describes what one run did.
type Report struct {
	RunID    string
	Written  []string // paths in write order, with repeats
	Warnings []string
}

// run is the state of one sync invocation.
type run struct {
	e      *Engine
	clock  *Clock
	log    *slog.Logger
	report *Report
}

func (e *Engine) begin(ctx context.Context, op, truth string) (*run, error) {
	id := e.runIDs.Generate()
	r := &run{
		e:      e,
		clock:  NewClock(),
		log:    e.logger.With("run_id", id, "operation", op),
		report: &Report{RunID: id},
	}
	if e.journal != nil {
		_, dry := e.store.(*store.Recorder)
		if err := e.journal.BeginRun(ctx, store.Run{ID: id, Operation: op, Truth: truth, DryRun: dry}); err != nil {
			return nil, errors.Wrapf(err, "begin run %s", id)
		}
	}
	r.log.Info("sync started", "truth", truth)
	return r, nil
}

// write stores data at path and journals it. shape is the IR shape hash
// of the artifact, or "" when there is none.
func (r *run) write(ctx context.Context, path string, data []byte, shape string) error {
	var before []byte
	if r.e.store.Exists(path) {
		b, err := r.e.store.Read(path)
		if err != nil {
			return errors.Wrapf(err, "read %s before writing", path)
		}
		before = b
	}
	if err := r.e.store.Write(path, data); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	r.report.Written = append(r.report.Written, path)

	seq := r.clock.Next()
	r.log.Debug("artifact written", "path", path, "seq", seq, "bytes", len(data))
	if r.e.journal == nil {
		return nil
	}
	err := r.e.journal.RecordWrite(ctx, store.Entry{
		RunID:      r.report.RunID,
		Seq:        seq,
		Path:       path,
		BeforeHash: store.ContentHash(before),
		AfterHash:  store.ContentHash(data),
		ShapeHash:  shape,
	})
	return errors.Wrapf(err, "journal write of %s", path)
}

func (r *run) warn(msg string, args ...any) {
	r.log.Warn(msg, args...)
	r.report.Warnings = append(r.report.Warnings, msg+formatArgs(args))
}

func (r *run) finish(err error) (*Report, error) {
	if err != nil {
		r.log.Error("sync failed", "error", err, "written", len(r.report.Written))
		return r.report, err
	}
	r.log.Info("sync finished", "written", len(r.report.Written), "warnings", len(r.report.Warnings))
	return r.report, nil
}

// formatArgs renders slog-style key/value pairs for a report line.
func formatArgs(args []any) string {
	var b strings.Builder
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	return b.String()
}
