package audit

import "context"

// Store is the append-only persistence port for audit records.
//
// Append assigns the record ID and, when the input carries no timestamp, the
// write time; the stored timestamp never decreases across appends. There is
// deliberately no update or delete operation.
//
// Stores return sentinel.ErrUnavailable (wrapped) when the backing
// persistence is unreachable.
type Store interface {
	Append(ctx context.Context, input RecordInput) (Record, error)

	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}
