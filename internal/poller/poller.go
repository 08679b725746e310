package poller

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/leadscope/leadscope/internal/entity"
)

// JobStatusClient fetches the current state of a tracked job.
type JobStatusClient interface {
	JobStatus(ctx context.Context, id string) (entity.Job, error)
}

// Poller tracks at most one in-flight backend job. While the job is
// non-terminal it polls once per interval; on a terminal status it
// fires one refresh so newly written leads land in the store, then
// clears the job after a grace period the operator can read the final
// message in. Starting a new job replaces the old one outright; this
// is a deliberate simplification, not a queue.
type Poller struct {
	client   JobStatusClient
	refresh  func()
	interval time.Duration
	grace    time.Duration

	mu     sync.Mutex
	job    *entity.Job
	cancel context.CancelFunc
	graceT *time.Timer
}

func New(client JobStatusClient, refresh func()) *Poller {
	return &Poller{
		client:   client,
		refresh:  refresh,
		interval: time.Second,
		grace:    5 * time.Second,
	}
}

// Track starts polling the given job, abandoning any prior one.
func (p *Poller) Track(job entity.Job) {
	p.mu.Lock()
	p.stopLocked()

	j := job
	p.job = &j

	if job.Status.Terminal() {
		p.armGraceLocked()
		p.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()

	go p.loop(ctx, job.ID)
}

// Current returns a copy of the tracked job, if any.
func (p *Poller) Current() (entity.Job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.job == nil {
		return entity.Job{}, false
	}
	return *p.job, true
}

// Stop abandons the tracked job and both timers.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.job = nil
}

func (p *Poller) loop(ctx context.Context, id string) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		job, err := p.client.JobStatus(ctx, id)
		if err != nil {
			// Background failure stays silent for the operator.
			log.Printf("[poller] job %s status: %v", id, err)
			continue
		}

		p.mu.Lock()
		if p.job == nil || p.job.ID != id {
			// Replaced while we were polling.
			p.mu.Unlock()
			return
		}
		j := job
		p.job = &j
		terminal := job.Status.Terminal()
		if terminal {
			p.stopLocked()
			p.armGraceLocked()
		}
		p.mu.Unlock()

		if terminal {
			if p.refresh != nil {
				p.refresh()
			}
			return
		}
	}
}

func (p *Poller) stopLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.graceT != nil {
		p.graceT.Stop()
		p.graceT = nil
	}
}

func (p *Poller) armGraceLocked() {
	id := p.job.ID
	p.graceT = time.AfterFunc(p.grace, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.job != nil && p.job.ID == id {
			p.job = nil
			p.graceT = nil
		}
	})
}
