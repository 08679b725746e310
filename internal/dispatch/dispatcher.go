package dispatch

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/leadscope/leadscope/internal/entity"
	"github.com/leadscope/leadscope/internal/store"
	"github.com/leadscope/leadscope/internal/triage"
)

// LeadWriter is the durability side of a status change. Calls are
// fire-and-forget from the dispatcher's point of view.
type LeadWriter interface {
	UpdateStatus(ctx context.Context, pk int64, status entity.Status) error
}

// Dispatcher applies a status change to the in-memory store first and
// persists it in the background. A failed persistence call is not
// retried; the pk stays in the drifted set until the next refresh
// drops it, so divergence is at least observable.
type Dispatcher struct {
	store  *store.LeadStore
	writer LeadWriter

	mu      sync.Mutex
	pending map[int64]struct{}
	drifted map[int64]struct{}

	timeout time.Duration
}

func NewDispatcher(st *store.LeadStore, writer LeadWriter) *Dispatcher {
	return &Dispatcher{
		store:   st,
		writer:  writer,
		pending: make(map[int64]struct{}),
		drifted: make(map[int64]struct{}),
		timeout: 10 * time.Second,
	}
}

// SetStatus is the single entry point for classification changes.
// The optimistic update happens synchronously; the network write does
// not block the caller.
func (d *Dispatcher) SetStatus(pk int64, status entity.Status) bool {
	if !status.Valid() {
		return false
	}
	ok := d.store.UpdateOne(pk, func(l *entity.Lead) {
		l.Status = triage.Transition(l.Status, status)
	})
	if !ok {
		return false
	}

	d.mu.Lock()
	d.pending[pk] = struct{}{}
	d.mu.Unlock()

	go d.persist(pk, status)
	return true
}

// ToggleFavorite applies the favorite toggle to whatever status the
// lead currently has.
func (d *Dispatcher) ToggleFavorite(pk int64) bool {
	return d.toggle(pk, triage.ToggleFavorite)
}

func (d *Dispatcher) ToggleHidden(pk int64) bool {
	return d.toggle(pk, triage.ToggleHidden)
}

func (d *Dispatcher) ToggleFlagged(pk int64) bool {
	return d.toggle(pk, triage.ToggleFlagged)
}

func (d *Dispatcher) toggle(pk int64, fn func(entity.Status) entity.Status) bool {
	lead, ok := d.store.Get(pk)
	if !ok {
		return false
	}
	return d.SetStatus(pk, fn(lead.Status))
}

func (d *Dispatcher) persist(pk int64, status entity.Status) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	err := d.writer.UpdateStatus(ctx, pk, status)

	d.mu.Lock()
	delete(d.pending, pk)
	if err != nil {
		d.drifted[pk] = struct{}{}
		log.Printf("[dispatch] persist status=%s pk=%d failed: %v", status, pk, err)
	}
	d.mu.Unlock()
}

// Drifted lists pks whose optimistic state is known to disagree with
// the backend. A full refresh should surface these and then call
// ClearDrift.
func (d *Dispatcher) Drifted() []int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]int64, 0, len(d.drifted))
	for pk := range d.drifted {
		out = append(out, pk)
	}
	return out
}

func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *Dispatcher) ClearDrift() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drifted = make(map[int64]struct{})
}
