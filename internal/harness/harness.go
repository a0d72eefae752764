package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/roach88/doctrans/internal/docstring"
	"github.com/roach88/doctrans/internal/emit"
	"github.com/roach88/doctrans/internal/engine"
	"github.com/roach88/doctrans/internal/locate"
	"github.com/roach88/doctrans/internal/store"
	"github.com/roach88/doctrans/internal/testutil"
)

// ErrorCodeOther is the error code of a failed run whose error is not a
// SyncError.
const ErrorCodeOther = "ERROR"

// Harness runs scenarios against an in-memory store.
type Harness struct {
	store  *store.Memory
	engine *engine.Engine
}

// New creates a harness over the scenario's initial tree.
func New(s *Scenario) *Harness {
	st := store.NewMemory(s.Files)
	eng := engine.New(st,
		engine.WithRunIDs(testutil.NewFixedRunIDGenerator(s.RunID)),
		engine.WithEmitOptions(s.Options.emitOptions()),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return &Harness{store: st, engine: eng}
}

func (o Options) emitOptions() engine.EmitOptions {
	width := o.Width
	if width == 0 {
		width = docstring.DefaultWidth
	}
	return engine.EmitOptions{
		EmitDefaultDoc: o.EmitDefaultDoc,
		WordWrap:       o.WordWrap,
		Width:          width,
		InlineTypes:    o.InlineTypes,
		CarryDefaults:  o.CarryDefaults,
		File:           emit.FileOptions{LegacyLiterals: o.LegacyLiterals},

		ArgparseDefaultDoc: o.ArgparseDefaultDoc,
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory tree with a fixed run id.
// A failing sync is not an error here: it is recorded in Result.ErrorCode
// and checked against Expect.Error. Run only returns an error when the
// scenario itself cannot be turned into a request.
func Run(ctx context.Context, s *Scenario) (*Result, error) {
	return New(s).Run(ctx, s)
}

// Run executes s against the harness store.
func (h *Harness) Run(ctx context.Context, s *Scenario) (*Result, error) {
	var (
		report *engine.Report
		runErr error
	)
	switch {
	case s.Sync != nil:
		req, err := s.Sync.request()
		if err != nil {
			return nil, err
		}
		report, runErr = h.engine.GroundTruth(ctx, req)
	case s.Properties != nil:
		req, err := s.Properties.request()
		if err != nil {
			return nil, err
		}
		report, runErr = h.engine.SyncProperties(ctx, req)
	default:
		return nil, fmt.Errorf("scenario %q has no step", s.Name)
	}

	result := NewResult()
	result.ErrorCode = ErrorCode(runErr)
	if report != nil {
		result.Written = append(result.Written, report.Written...)
		result.Warnings = append(result.Warnings, report.Warnings...)
	}
	for _, p := range h.store.Paths() {
		result.Files[p] = h.store.String(p)
	}

	if result.ErrorCode != s.Expect.Error {
		result.AddError(fmt.Sprintf("expected error %q, got %q (%v)", s.Expect.Error, result.ErrorCode, runErr))
	}
	if s.Expect.Written != nil && !slices.Equal(s.Expect.Written, result.Written) {
		result.AddError(fmt.Sprintf("expected writes %v, got %v", s.Expect.Written, result.Written))
	}
	for i, a := range s.Assertions {
		if err := evaluate(result, a); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return result, nil
}

// ErrorCode maps a run error onto its scenario code.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var se *engine.SyncError
	if errors.As(err, &se) {
		return string(se.Code)
	}
	return ErrorCodeOther
}

func (s *SyncStep) request() (engine.GroundTruthRequest, error) {
	truth, err := engine.ParseGroup(s.Truth)
	if err != nil {
		return engine.GroundTruthRequest{}, err
	}
	return engine.GroundTruthRequest{
		Argparse: artifacts(s.Argparse),
		Class:    artifacts(s.Class),
		Function: artifacts(s.Function),
		Truth:    truth,
	}, nil
}

func artifacts(refs []ArtifactRef) []engine.Artifact {
	out := make([]engine.Artifact, len(refs))
	for i, r := range refs {
		out[i] = engine.Artifact{File: r.File, Name: r.Name}
	}
	return out
}

func (p *PropertiesStep) request() (engine.PropertyRequest, error) {
	src, err := locate.ParseAddress(p.Source)
	if err != nil {
		return engine.PropertyRequest{}, fmt.Errorf("source: %w", err)
	}
	req := engine.PropertyRequest{
		SourceFile:    p.SourceFile,
		SourceAddress: src,
		Mode:          engine.ModeCopy,
		TargetFile:    p.TargetFile,
		WrapType:      p.WrapType,
	}
	if p.Mode == string(engine.ModeEval) {
		req.Mode = engine.ModeEval
	}
	for _, t := range p.Targets {
		addr, err := locate.ParseAddress(t)
		if err != nil {
			return engine.PropertyRequest{}, fmt.Errorf("target %q: %w", t, err)
		}
		req.TargetAddresses = append(req.TargetAddresses, addr)
	}
	return req, nil
}
