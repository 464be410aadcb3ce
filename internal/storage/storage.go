package storage

import (
	"sort"
	"sync"

	"github.com/sudhirvr/keyworder/internal/models"
)

// RunStore keeps completed enrichment runs in memory for the HTTP API.
type RunStore struct {
	runs map[string]*models.EnrichmentRun
	mu   sync.RWMutex
}

func New() *RunStore {
	return &RunStore{
		runs: make(map[string]*models.EnrichmentRun),
	}
}

func (s *RunStore) Get(runID string) (*models.EnrichmentRun, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, exists := s.runs[runID]
	return run, exists
}

func (s *RunStore) Set(runID string, run *models.EnrichmentRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runID] = run
}

// GetAll returns all runs, newest first.
func (s *RunStore) GetAll() []*models.EnrichmentRun {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.EnrichmentRun, 0, len(s.runs))
	for _, run := range s.runs {
		result = append(result, run)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (s *RunStore) Delete(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
}
