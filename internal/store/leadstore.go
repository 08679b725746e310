package store

import (
	"sync"

	"github.com/leadscope/leadscope/internal/entity"
)

// LeadStore owns the in-memory collection the dashboard works on. The
// only mutation discipline is wholesale replacement on refresh and
// single-record patching by pk; both are atomic under the mutex.
// Storage order carries no meaning, ordering is a view concern.
type LeadStore struct {
	mu      sync.RWMutex
	leads   []entity.Lead
	index   map[int64]int
	targets []entity.Target
}

func NewLeadStore() *LeadStore {
	return &LeadStore{index: make(map[int64]int)}
}

// ReplaceAll swaps in a fresh collection, e.g. after a backend refresh.
func (s *LeadStore) ReplaceAll(leads []entity.Lead, targets []entity.Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = make([]entity.Lead, len(leads))
	copy(s.leads, leads)
	s.targets = make([]entity.Target, len(targets))
	copy(s.targets, targets)
	s.index = make(map[int64]int, len(leads))
	for i, l := range s.leads {
		s.index[l.PK] = i
	}
}

// UpdateOne patches a single record by pk. Returns false when the pk
// is unknown.
func (s *LeadStore) UpdateOne(pk int64, patch func(*entity.Lead)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[pk]
	if !ok {
		return false
	}
	patch(&s.leads[i])
	return true
}

func (s *LeadStore) Get(pk int64) (entity.Lead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[pk]
	if !ok {
		return entity.Lead{}, false
	}
	return s.leads[i], true
}

// Snapshot returns a copy the derivation chain can filter and sort
// without racing writers.
func (s *LeadStore) Snapshot() []entity.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

func (s *LeadStore) Targets() []entity.Target {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Target, len(s.targets))
	copy(out, s.targets)
	return out
}

func (s *LeadStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads)
}
