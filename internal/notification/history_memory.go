package notification

import (
	"context"
	"sync"
)

// InMemoryHistory keeps dispatch summaries in process.
type InMemoryHistory struct {
	mu      sync.RWMutex
	entries []HistoryEntry
}

func NewInMemoryHistory() *InMemoryHistory {
	return &InMemoryHistory{}
}

func (s *InMemoryHistory) Record(_ context.Context, entry HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *InMemoryHistory) List(_ context.Context, limit int) ([]HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]HistoryEntry, 0, n)
	for i := len(s.entries) - 1; i >= len(s.entries)-n; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}
