package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore keeps audit records in process. Used in tests and when no
// durable storage is configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []Record
	clock   func() time.Time
}

// InMemoryOption configures an InMemoryStore.
type InMemoryOption func(*InMemoryStore)

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) InMemoryOption {
	return func(s *InMemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Append(_ context.Context, input RecordInput) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := input.Timestamp
	if ts.IsZero() {
		ts = s.clock()
	}
	// Timestamps never decrease with insertion order.
	if n := len(s.records); n > 0 && ts.Before(s.records[n-1].Timestamp) {
		ts = s.records[n-1].Timestamp
	}

	record := Record{
		ID:             uuid.NewString(),
		ActorID:        input.ActorID,
		ActorLabel:     input.ActorLabel,
		Action:         input.Action,
		TargetID:       input.TargetID,
		TargetLabel:    input.TargetLabel,
		CollectionName: input.CollectionName,
		Status:         input.Status,
		Reason:         input.Reason,
		Notes:          input.Notes,
		RecordCount:    input.RecordCount,
		Filters:        cloneFilters(input.Filters),
		Timestamp:      ts,
	}
	s.records = append(s.records, record)
	return record, nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Record, 0, n)
	for i := len(s.records) - 1; i >= len(s.records)-n; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

func cloneFilters(filters map[string]string) map[string]string {
	if len(filters) == 0 {
		return nil
	}
	out := make(map[string]string, len(filters))
	for k, v := range filters {
		out[k] = v
	}
	return out
}
