package store

import (
	"errors"
)

// Change is one captured write.
type Change struct {
	Path   string
	Before []byte // nil when the file did not exist
	After  []byte
}

// Recorder is the dry-run store. Reads go to the captured content first and
// then to Base; writes are captured and never reach Base.
type Recorder struct {
	Base    Store
	pending map[string][]byte
	order   []string
	before  map[string][]byte
}

// NewRecorder wraps base.
func NewRecorder(base Store) *Recorder {
	return &Recorder{
		Base:    base,
		pending: make(map[string][]byte),
		before:  make(map[string][]byte),
	}
}

func (r *Recorder) Read(path string) ([]byte, error) {
	if data, ok := r.pending[path]; ok {
		return append([]byte(nil), data...), nil
	}
	return r.Base.Read(path)
}

func (r *Recorder) Write(path string, data []byte) error {
	if _, seen := r.pending[path]; !seen {
		prev, err := r.Base.Read(path)
		switch {
		case err == nil:
			r.before[path] = prev
		case errors.Is(err, ErrNotFound):
			r.before[path] = nil
		default:
			return err
		}
		r.order = append(r.order, path)
	}
	r.pending[path] = append([]byte(nil), data...)
	return nil
}

func (r *Recorder) Exists(path string) bool {
	if _, ok := r.pending[path]; ok {
		return true
	}
	return r.Base.Exists(path)
}

// Changes returns one entry per written path, in first-write order, holding
// the original content and the last captured content.
func (r *Recorder) Changes() []Change {
	out := make([]Change, 0, len(r.order))
	for _, p := range r.order {
		out = append(out, Change{Path: p, Before: r.before[p], After: r.pending[p]})
	}
	return out
}

// Commit replays the captured writes into dst.
func (r *Recorder) Commit(dst Store) error {
	for _, p := range r.order {
		if err := dst.Write(p, r.pending[p]); err != nil {
			return err
		}
	}
	return nil
}
