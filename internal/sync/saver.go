// Package sync persists state snapshots in the background so that in-memory
// mutations never wait on disk.
package sync

import (
	"context"
	"slices"
	gosync "sync"
	"time"

	"github.com/nhle/packlist/internal/logger"
	"github.com/nhle/packlist/internal/store"
)

// SaveState represents the current state of a document's persistence.
type SaveState int

const (
	SaveIdle SaveState = iota
	SaveRunning
	SaveError
)

// SaveStatus holds the persistence state for a single document.
type SaveStatus struct {
	Document store.Document
	State    SaveState
	LastSave time.Time
	Error    error
}

// writeTimeout is the maximum time allowed for a single document write.
const writeTimeout = 10 * time.Second

// Saver writes scheduled document snapshots on a background goroutine.
// Only the latest snapshot of each document is kept, so bursts of mutations
// collapse into one write per document.
type Saver struct {
	store    store.Store
	log      *logger.Logger
	pending  map[store.Document][]byte
	statuses map[store.Document]*SaveStatus

	triggerCh chan struct{}
	flushCh   chan chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}

	mu      gosync.Mutex
	running bool
	stopped bool
}

// New creates a Saver writing to s.
func New(s store.Store, log *logger.Logger) *Saver {
	statuses := make(map[store.Document]*SaveStatus, len(store.Documents))
	for _, doc := range store.Documents {
		statuses[doc] = &SaveStatus{Document: doc, State: SaveIdle}
	}
	return &Saver{
		store:     s,
		log:       log,
		pending:   make(map[store.Document][]byte),
		statuses:  statuses,
		triggerCh: make(chan struct{}, 1),
		flushCh:   make(chan chan struct{}),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start launches the writer goroutine. Calling Start twice, or after Stop,
// is a no-op.
func (p *Saver) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running || p.stopped {
		return
	}
	p.running = true
	go p.loop()
}

// Stop writes everything still pending and halts the writer goroutine.
// A stopped Saver never starts again; later writes happen inline on Flush.
func (p *Saver) Stop() {
	p.mu.Lock()
	if !p.running {
		p.stopped = true
		p.mu.Unlock()
		p.drain()
		return
	}
	p.running = false
	p.stopped = true
	p.mu.Unlock()

	close(p.stopCh)
	<-p.doneCh
}

// Schedule queues payload as the next version of doc. The payload must not
// be modified by the caller afterwards.
func (p *Saver) Schedule(doc store.Document, payload []byte) {
	p.mu.Lock()
	p.pending[doc] = payload
	p.mu.Unlock()

	select {
	case p.triggerCh <- struct{}{}:
	default:
		// A write pass is already queued and will pick this up.
	}
}

// Flush blocks until every snapshot scheduled before the call is written.
func (p *Saver) Flush(ctx context.Context) error {
	p.mu.Lock()
	running := p.running
	p.mu.Unlock()
	if !running {
		p.drain()
		return nil
	}

	// The writer may exit between the check above and the send below.
	reply := make(chan struct{})
	select {
	case p.flushCh <- reply:
	case <-p.doneCh:
		p.drain()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-p.doneCh:
		p.drain()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Statuses returns the persistence status of every document.
func (p *Saver) Statuses() []SaveStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	statuses := make([]SaveStatus, 0, len(p.statuses))
	for _, doc := range store.Documents {
		statuses = append(statuses, *p.statuses[doc])
	}
	return statuses
}

func (p *Saver) loop() {
	defer close(p.doneCh)
	for {
		select {
		case <-p.stopCh:
			p.drain()
			return
		case <-p.triggerCh:
			p.drain()
		case reply := <-p.flushCh:
			p.drain()
			close(reply)
		}
	}
}

// drain writes pending snapshots until none are left.
func (p *Saver) drain() {
	for {
		p.mu.Lock()
		batch := p.pending
		p.pending = make(map[store.Document][]byte)
		p.mu.Unlock()

		if len(batch) == 0 {
			return
		}

		docs := make([]store.Document, 0, len(batch))
		for doc := range batch {
			docs = append(docs, doc)
		}
		slices.Sort(docs)
		for _, doc := range docs {
			p.write(doc, batch[doc])
		}
	}
}

func (p *Saver) write(doc store.Document, payload []byte) {
	p.setStatus(doc, SaveRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := p.store.Put(ctx, doc, payload); err != nil {
		p.setStatus(doc, SaveError, err)
		p.log.Error("saving document failed", "document", doc, "error", err)
		return
	}
	p.setStatus(doc, SaveIdle, nil)
	p.log.Debug("document saved", "document", doc, "bytes", len(payload))
}

// setStatus updates the persistence status for a document.
func (p *Saver) setStatus(doc store.Document, state SaveState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	status, ok := p.statuses[doc]
	if !ok {
		status = &SaveStatus{Document: doc}
		p.statuses[doc] = status
	}

	status.State = state
	status.Error = err
	if state == SaveIdle && err == nil {
		status.LastSave = time.Now()
	}
}
