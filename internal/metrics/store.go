package metrics

import (
	"sync"
	"time"
)

type memStore struct {
	mu        sync.RWMutex
	cpu       *Percent
	memory    *Percent
	network   *Millisecond
	updatedAt map[Kind]time.Time
	now       func() time.Time
}

// NewStore returns an empty in-memory Store.
func NewStore() Store {
	return &memStore{
		updatedAt: make(map[Kind]time.Time, len(Kinds)),
		now:       time.Now,
	}
}

func (s *memStore) Read() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	updated := make(map[Kind]time.Time, len(s.updatedAt))
	for k, v := range s.updatedAt {
		updated[k] = v
	}

	return Snapshot{
		CPU:       s.cpu,
		Memory:    s.memory,
		Network:   s.network,
		UpdatedAt: updated,
	}
}

// Write stores a fresh copy so snapshots handed out earlier stay unchanged.
func (s *memStore) Write(kind Kind, value float64) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case KindCPU:
		v := Percent(value)
		s.cpu = &v
	case KindMemory:
		v := Percent(value)
		s.memory = &v
	case KindNetwork:
		v := Millisecond(value)
		s.network = &v
	default:
		return
	}
	s.updatedAt[kind] = now
}
