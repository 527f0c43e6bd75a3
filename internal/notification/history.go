package notification

import "context"

// HistoryStore is the append-only persistence port for dispatch summaries.
// Entries are terminal once written; there is no update or delete.
type HistoryStore interface {
	Record(ctx context.Context, entry HistoryEntry) error

	// List returns up to limit entries, newest first by sent time.
	List(ctx context.Context, limit int) ([]HistoryEntry, error)
}
