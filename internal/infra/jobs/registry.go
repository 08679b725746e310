package jobs

import (
	"sync"
	"time"

	"github.com/leadscope/leadscope/internal/entity"
)

// Registry is the in-memory table of tracked backend jobs, keyed by
// job id (the target username for scans, a generated id for bulk
// runs). Workers write progress here; GET /job-status reads it.
type Registry struct {
	mu   sync.Mutex
	jobs map[string]entity.Job
}

func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]entity.Job)}
}

// Create registers a fresh job in the starting state, replacing any
// previous run under the same id.
func (r *Registry) Create(id, username, message string) entity.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	job := entity.Job{
		ID:        id,
		Username:  username,
		Status:    entity.JobStarting,
		Message:   message,
		StartTime: time.Now(),
	}
	r.jobs[id] = job
	return job
}

func (r *Registry) Get(id string) (entity.Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	return job, ok
}

// Progress bumps the running counters. Found never decreases.
func (r *Registry) Progress(id string, found int, message string) {
	r.update(id, func(j *entity.Job) {
		j.Status = entity.JobRunning
		if found > j.Found {
			j.Found = found
		}
		j.Message = message
	})
}

func (r *Registry) SetTotal(id string, total int) {
	r.update(id, func(j *entity.Job) { j.Total = total })
}

func (r *Registry) Finish(id, message string) {
	r.update(id, func(j *entity.Job) {
		j.Status = entity.JobFinished
		j.Message = message
	})
}

func (r *Registry) Fail(id, message string) {
	r.update(id, func(j *entity.Job) {
		j.Status = entity.JobError
		j.Message = message
	})
}

func (r *Registry) update(id string, fn func(*entity.Job)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return
	}
	fn(&job)
	r.jobs[id] = job
}
