package audit

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaMirrorRecordShape(t *testing.T) {
	mirror := &KafkaMirror{topic: "admin-audit-records", logger: slog.New(slog.DiscardHandler)}

	record := Record{
		ID:          "rec-42",
		ActorID:     "op-1",
		ActorLabel:  "alice@filmgrid.dev",
		Action:      ActionBanUser,
		TargetID:    "user-9",
		TargetLabel: "mallory",
		Reason:      "spam",
		Filters:     map[string]string{"region": "EU"},
		Timestamp:   time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	msg, err := mirror.buildRecord(record)
	require.NoError(t, err)

	assert.Equal(t, "admin-audit-records", msg.Topic)
	assert.Equal(t, []byte("rec-42"), msg.Key, "keyed by record ID")

	// Downstream consumers read the same JSON shape the HTTP layer serves.
	var decoded Record
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, record, decoded)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &raw))
	assert.Contains(t, raw, "actorLabel")
	assert.Contains(t, raw, "targetLabel")
	assert.Equal(t, "BAN_USER", raw["action"])
}
