package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aescanero/rxplay/pkg/domain"
	"github.com/aescanero/rxplay/pkg/ports"
)

// RunStorage implements RunStorage using an in-memory map.
// Records live as long as the process.
type RunStorage struct {
	runs map[string]*domain.Run
	mu   sync.RWMutex
}

// NewRunStorage creates a new in-memory run storage
func NewRunStorage() *RunStorage {
	return &RunStorage{
		runs: make(map[string]*domain.Run),
	}
}

// SaveRun stores a copy of the run
func (s *RunStorage) SaveRun(ctx context.Context, run *domain.Run) error {
	if run.ID == "" {
		return fmt.Errorf("run ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run.Clone()
	return nil
}

// GetRun retrieves a copy of a stored run
func (s *RunStorage) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
	}

	return run.Clone(), nil
}

// ListRuns returns copies of all stored runs ordered by start time
func (s *RunStorage) ListRuns(ctx context.Context) ([]*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]*domain.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run.Clone())
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})

	return runs, nil
}

// DeleteRun removes a run
func (s *RunStorage) DeleteRun(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.runs, id)
	return nil
}

var _ ports.RunStorage = (*RunStorage)(nil)
