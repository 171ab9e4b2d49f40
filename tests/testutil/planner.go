package testutil

import (
	"fmt"
	gosync "sync"
	"testing"
	"time"

	"github.com/nhle/packlist/internal/clock"
	"github.com/nhle/packlist/internal/logger"
	"github.com/nhle/packlist/internal/planner"
	"github.com/nhle/packlist/internal/store"
)

// Now is the instant reported by the fixed clock of test planners.
var Now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// SeqIDs returns a generator yielding "id-1", "id-2", ...
func SeqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// Recorder is a planner persister that keeps the latest payload per document.
type Recorder struct {
	mu    gosync.Mutex
	Docs  map[store.Document][]byte
	Calls int
}

func NewRecorder() *Recorder {
	return &Recorder{Docs: make(map[store.Document][]byte)}
}

func (r *Recorder) Schedule(doc store.Document, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Docs[doc] = payload
	r.Calls++
}

// Payload returns the last payload scheduled for doc.
func (r *Recorder) Payload(doc store.Document) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Docs[doc]
}

// NewTestPlanner returns a planner with a fixed clock, sequential ids, the
// built-in catalog, and rec as its persister (rec may be nil).
func NewTestPlanner(t *testing.T, rec *Recorder) *planner.Planner {
	t.Helper()

	opts := planner.Options{
		Clock:  clock.Fixed{At: Now},
		NewID:  SeqIDs(),
		Logger: logger.Nop(),
	}
	if rec != nil {
		opts.Persister = rec
	}
	p := planner.New(opts)
	if err := p.SeedBuiltins(); err != nil {
		t.Fatalf("seeding built-ins: %v", err)
	}
	return p
}
