package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/platform/sentinel"
)

// PostgresStore persists audit records in the admin_logs table.
type PostgresStore struct {
	db    *sql.DB
	clock func() time.Time

	mu     sync.Mutex
	lastTS time.Time
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithPostgresClock sets the clock function for testability.
func WithPostgresClock(clock func() time.Time) PostgresOption {
	return func(s *PostgresStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewPostgresStore constructs a PostgreSQL-backed audit store.
func NewPostgresStore(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PostgresStore) Append(ctx context.Context, input RecordInput) (Record, error) {
	ts := input.Timestamp
	if ts.IsZero() {
		ts = s.clock()
	}
	s.mu.Lock()
	if ts.Before(s.lastTS) {
		ts = s.lastTS
	}
	s.lastTS = ts
	s.mu.Unlock()

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

	var filtersJSON []byte
	if len(record.Filters) > 0 {
		var err error
		filtersJSON, err = json.Marshal(record.Filters)
		if err != nil {
			return Record{}, fmt.Errorf("marshal audit filters: %w", err)
		}
	}

	query := `
		INSERT INTO admin_logs (
			id, actor_id, actor_label, action, target_id, target_label,
			collection_name, status, reason, notes, record_count, filters, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.ActorID,
		record.ActorLabel,
		string(record.Action),
		record.TargetID,
		record.TargetLabel,
		record.CollectionName,
		record.Status,
		record.Reason,
		record.Notes,
		record.RecordCount,
		nullableJSON(filtersJSON),
		record.Timestamp,
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert admin log (%v): %w", err, sentinel.ErrUnavailable)
	}
	return record, nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	query := `
		SELECT id, actor_id, actor_label, action, target_id, target_label,
		       collection_name, status, reason, notes, record_count, filters, created_at
		FROM admin_logs
		ORDER BY created_at DESC, id DESC
		LIMIT NULLIF($1, 0)
	`
	if limit < 0 {
		limit = 0
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query admin logs (%v): %w", err, sentinel.ErrUnavailable)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record

	for rows.Next() {
		var (
			record      Record
			action      string
			filtersJSON []byte
		)

		err := rows.Scan(
			&record.ID,
			&record.ActorID,
			&record.ActorLabel,
			&action,
			&record.TargetID,
			&record.TargetLabel,
			&record.CollectionName,
			&record.Status,
			&record.Reason,
			&record.Notes,
			&record.RecordCount,
			&filtersJSON,
			&record.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan admin log: %w", err)
		}

		record.Action = Action(action)
		if len(filtersJSON) > 0 {
			if err := json.Unmarshal(filtersJSON, &record.Filters); err != nil {
				return nil, fmt.Errorf("unmarshal audit filters: %w", err)
			}
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin logs: %w", err)
	}

	return records, nil
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
