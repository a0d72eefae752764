package testutil

// FixedRunIDGenerator hands out the same run id every time, so a scenario
// replayed any number of times produces identical journal entries and log
// lines.
//
// Unlike engine.FixedGenerator, which returns ids in sequence and panics
// when they run out, this generator never runs dry.
type FixedRunIDGenerator struct {
	id string
}

// DefaultRunID is used when a scenario does not name one.
const DefaultRunID = "test-run-default"

// NewFixedRunIDGenerator creates a generator for id, or DefaultRunID when
// id is empty.
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = DefaultRunID
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed id.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
