package notification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/platform/sentinel"
)

// PostgresHistory persists dispatch summaries in the notification_history table.
type PostgresHistory struct {
	db *sql.DB
}

func NewPostgresHistory(db *sql.DB) *PostgresHistory {
	return &PostgresHistory{db: db}
}

func (s *PostgresHistory) Record(ctx context.Context, entry HistoryEntry) error {
	query := `
		INSERT INTO notification_history (
			id, title, body, target_type, topic, success_count, failed_count, sent_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.Title,
		entry.Body,
		string(entry.TargetType),
		entry.Topic,
		entry.Tally.Success,
		entry.Tally.Failed,
		entry.SentAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification history (%v): %w", err, sentinel.ErrUnavailable)
	}
	return nil
}

func (s *PostgresHistory) List(ctx context.Context, limit int) ([]HistoryEntry, error) {
	query := `
		SELECT id, title, body, target_type, topic, success_count, failed_count, sent_at
		FROM notification_history
		ORDER BY sent_at DESC, id DESC
		LIMIT NULLIF($1, 0)
	`
	if limit < 0 {
		limit = 0
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query notification history (%v): %w", err, sentinel.ErrUnavailable)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var (
			entry      HistoryEntry
			targetType string
		)
		err := rows.Scan(
			&entry.ID,
			&entry.Title,
			&entry.Body,
			&targetType,
			&entry.Topic,
			&entry.Tally.Success,
			&entry.Tally.Failed,
			&entry.SentAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification history: %w", err)
		}
		entry.TargetType = TargetType(targetType)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification history: %w", err)
	}

	return entries, nil
}
