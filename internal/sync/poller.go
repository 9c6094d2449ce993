// Package sync polls the document store in the background and reports how
// concepts moved between polls.
package sync

import (
	"context"
	gosync "sync"
	"time"

	"github.com/nhle/content-hub/internal/logging"
	"github.com/nhle/content-hub/internal/model"
)

// SyncState represents the current state of the poller.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

// SyncStatus holds the state of the last poll.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Error    error
}

// Fetcher returns a fresh, uncached concept list.
type Fetcher interface {
	Reload(ctx context.Context, userID string) ([]model.Concept, error)
}

// ChangeKind says what happened to a concept between two polls.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeStage   ChangeKind = "stage"
	ChangeRemoved ChangeKind = "removed"
)

// Change is one concept difference between two polls.
type Change struct {
	Kind      ChangeKind
	ConceptID string
	Name      string
	From      model.Status
	To        model.Status
}

// Result is sent after every poll. The first poll only records a baseline
// and carries no changes.
type Result struct {
	Concepts int
	Changes  []Change
	Error    error
	At       time.Time
}

// fetchTimeout is the maximum time allowed for a single poll.
const fetchTimeout = 30 * time.Second

// Poller refetches the concept list on an interval.
type Poller struct {
	fetcher  Fetcher
	userID   string
	interval time.Duration
	log      *logging.Logger

	known     map[string]model.Concept
	baseline  bool
	status    SyncStatus
	resultCh  chan Result
	triggerCh chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}
	cancel    context.CancelFunc
	mu        gosync.Mutex
	running   bool
}

// New creates a Poller for the concepts owned by userID.
func New(f Fetcher, userID string, interval time.Duration, log *logging.Logger) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Poller{
		fetcher:   f,
		userID:    userID,
		interval:  interval,
		log:       log,
		known:     make(map[string]model.Concept),
		resultCh:  make(chan Result, 16),
		triggerCh: make(chan struct{}, 1),
	}
}

// Start launches the polling goroutine and returns the result channel.
// Calling Start on a running poller returns the same channel; a stopped
// poller can be started again.
func (p *Poller) Start() <-chan Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		ctx, cancel := context.WithCancel(context.Background())
		p.stopCh = make(chan struct{})
		p.doneCh = make(chan struct{})
		p.cancel = cancel
		p.running = true
		go p.loop(ctx, p.stopCh, p.doneCh)
	}
	return p.resultCh
}

// Stop halts the polling goroutine, cancels an in-flight fetch and waits
// for the goroutine to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	close(p.stopCh)
	p.cancel()
	done := p.doneCh
	p.running = false
	p.mu.Unlock()

	<-done
}

// Refresh triggers an immediate poll.
func (p *Poller) Refresh() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// A poll is already pending.
	}
}

// Status returns the state of the last poll.
func (p *Poller) Status() SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Poller) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.poll(ctx)
		case <-p.triggerCh:
			p.poll(ctx)
		}
	}
}

// poll fetches once, diffs against the previous poll and sends a Result.
func (p *Poller) poll(parent context.Context) {
	p.setStatus(SyncRunning, nil)

	ctx, cancel := context.WithTimeout(parent, fetchTimeout)
	defer cancel()

	concepts, err := p.fetcher.Reload(ctx, p.userID)
	if err != nil && parent.Err() != nil {
		// Stopped mid-fetch.
		p.setStatus(SyncIdle, parent.Err())
		return
	}
	if err != nil {
		p.setStatus(SyncError, err)
		p.log.Warn("poll failed", "error", err)
		p.sendResult(Result{Error: err, At: time.Now()})
		return
	}

	current := make(map[string]model.Concept, len(concepts))
	for _, c := range concepts {
		current[c.ID] = c
	}

	var changes []Change
	if p.baseline {
		changes = diff(p.known, current)
	}
	p.known = current
	p.baseline = true

	p.setStatus(SyncIdle, nil)
	p.sendResult(Result{Concepts: len(concepts), Changes: changes, At: time.Now()})
}

// diff lists added concepts, stage moves and removals, in that order.
func diff(before, after map[string]model.Concept) []Change {
	var changes []Change
	for id, c := range after {
		old, ok := before[id]
		switch {
		case !ok:
			changes = append(changes, Change{Kind: ChangeAdded, ConceptID: id, Name: c.Name, To: c.Status})
		case old.Status != c.Status:
			changes = append(changes, Change{Kind: ChangeStage, ConceptID: id, Name: c.Name, From: old.Status, To: c.Status})
		}
	}
	for id, c := range before {
		if _, ok := after[id]; !ok {
			changes = append(changes, Change{Kind: ChangeRemoved, ConceptID: id, Name: c.Name, From: c.Status})
		}
	}
	return changes
}

func (p *Poller) setStatus(state SyncState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == SyncIdle && err == nil {
		p.status.LastSync = time.Now()
	}
}

// sendResult sends a Result without blocking.
func (p *Poller) sendResult(r Result) {
	select {
	case p.resultCh <- r:
	default:
		p.log.Debug("dropping poll result, reader is behind")
	}
}
