package history

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]RunInfo
	samples     map[string][]Sample
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]RunInfo)
	s.samples = make(map[string][]Sample)
	return nil
}

func (s *MemoryStore) BeginRun(_ context.Context, run RunInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) Record(_ context.Context, runID string, samples []Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}
	s.samples[runID] = append(s.samples[runID], samples...)
	return nil
}

func (s *MemoryStore) Samples(_ context.Context, runID string) ([]Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	if _, ok := s.runs[runID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}
	return slices.Clone(s.samples[runID]), nil
}

func (s *MemoryStore) Runs(_ context.Context) ([]RunInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	out := make([]RunInfo, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
