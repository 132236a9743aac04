package store

import (
	"context"
	"sync"

	"circle-stats/src/stats"
)

// MemoryStore is an in-memory implementation of Store.
// Useful for testing and for the MCP server.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]RunInfo
	data map[string]*stats.Result
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs: make(map[string]RunInfo),
		data: make(map[string]*stats.Result),
	}
}

// SaveRun stores a copy of the result under the run ID.
func (s *MemoryStore) SaveRun(ctx context.Context, run RunInfo, result *stats.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.RunID] = run
	s.data[run.RunID] = copyResult(result)
	return nil
}

// GetRun returns a copy of the records saved for a run.
func (s *MemoryStore) GetRun(ctx context.Context, runID string) (*stats.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.data[runID]
	if !ok {
		return nil, ErrNotFound{RunID: runID}
	}
	return copyResult(result), nil
}

func copyResult(r *stats.Result) *stats.Result {
	return &stats.Result{
		Builds: append([]stats.BuildRecord(nil), r.Builds...),
		Tests:  append([]stats.TestResultRecord(nil), r.Tests...),
	}
}

// Run returns the metadata of a saved run.
func (s *MemoryStore) Run(runID string) (RunInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	return run, ok
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
