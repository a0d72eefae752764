package cli

import (
	"github.com/cockroachdb/errors"

	"github.com/roach88/doctrans/internal/engine"
	"github.com/roach88/doctrans/internal/store"
)

// SyncOptions are the flags shared by the commands that write artifacts.
type SyncOptions struct {
	DryRun  bool
	Journal string // overrides the config journal path
}

// session is the store, engine and journal of one writing command.
type session struct {
	store    store.Store
	recorder *store.Recorder // set for dry runs
	journal  *store.Journal
	engine   *engine.Engine
}

func (o *RootOptions) openSession(so SyncOptions) (*session, error) {
	s := &session{store: store.NewFS("")}
	if so.DryRun {
		s.recorder = store.NewRecorder(s.store)
		s.store = s.recorder
	}

	path := so.Journal
	if path == "" {
		path = o.Config.Journal
	}
	if path != "" {
		j, err := store.OpenJournal(path)
		if err != nil {
			return nil, errors.WithHint(errors.Wrap(err, "opening journal"),
				"pass --journal with a writable path, or unset journal in the config")
		}
		s.journal = j
	}

	opts := []engine.Option{
		engine.WithLogger(o.Logger),
		engine.WithParseOptions(o.Config.ParseOptions()),
		engine.WithEmitOptions(o.Config.EngineOptions()),
	}
	if s.journal != nil {
		opts = append(opts, engine.WithJournal(s.journal))
	}
	s.engine = engine.New(s.store, opts...)
	return s, nil
}

func (s *session) Close() error {
	return s.journal.Close()
}

// SyncResult is the command output of a sync run.
type SyncResult struct {
	RunID    string     `json:"run_id" yaml:"run_id"`
	DryRun   bool       `json:"dry_run" yaml:"dry_run"`
	Written  []string   `json:"written" yaml:"written"`
	Warnings []string   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Diffs    []FileDiff `json:"diffs,omitempty" yaml:"diffs,omitempty"`
}

func (s *session) result(r *engine.Report) SyncResult {
	out := SyncResult{DryRun: s.recorder != nil, Written: []string{}}
	if r != nil {
		out.RunID = r.RunID
		out.Written = append(out.Written, r.Written...)
		out.Warnings = r.Warnings
	}
	if s.recorder != nil {
		out.Diffs = diffs(s.recorder.Changes())
	}
	return out
}
