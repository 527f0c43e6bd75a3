package audit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_Append(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and timestamp", func(t *testing.T) {
		now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		store := NewInMemoryStore(WithClock(func() time.Time { return now }))

		record, err := store.Append(ctx, RecordInput{Action: ActionBanUser, ActorLabel: "a@x.com"})
		require.NoError(t, err)
		assert.NotEmpty(t, record.ID)
		assert.Equal(t, now, record.Timestamp)
	})

	t.Run("keeps caller-supplied timestamp", func(t *testing.T) {
		store := NewInMemoryStore()
		supplied := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)

		record, err := store.Append(ctx, RecordInput{Action: ActionVerifyUser, ActorLabel: "a@x.com", Timestamp: supplied})
		require.NoError(t, err)
		assert.Equal(t, supplied, record.Timestamp)
	})

	t.Run("timestamps never decrease with insertion order", func(t *testing.T) {
		store := NewInMemoryStore()
		later := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		earlier := later.Add(-time.Hour)

		first, err := store.Append(ctx, RecordInput{Action: ActionBanUser, ActorLabel: "a@x.com", Timestamp: later})
		require.NoError(t, err)
		second, err := store.Append(ctx, RecordInput{Action: ActionUnbanUser, ActorLabel: "a@x.com", Timestamp: earlier})
		require.NoError(t, err)

		assert.False(t, second.Timestamp.Before(first.Timestamp))
	})

	t.Run("filters map is copied, not shared", func(t *testing.T) {
		store := NewInMemoryStore()
		filters := map[string]string{"city": "Hyderabad"}

		record, err := store.Append(ctx, RecordInput{
			Action:         ActionMarketingExport,
			ActorLabel:     "a@x.com",
			CollectionName: "users",
			RecordCount:    1200,
			Filters:        filters,
		})
		require.NoError(t, err)

		filters["city"] = "mutated"
		assert.Equal(t, "Hyderabad", record.Filters["city"])
	})
}

func TestInMemoryStore_ListRecent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	for i := 0; i < 5; i++ {
		_, err := store.Append(ctx, RecordInput{
			Action:     ActionVerifyUser,
			ActorLabel: fmt.Sprintf("op-%d@x.com", i),
		})
		require.NoError(t, err)
	}

	t.Run("newest first", func(t *testing.T) {
		records, err := store.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, records, 5)
		assert.Equal(t, "op-4@x.com", records[0].ActorLabel)
		assert.Equal(t, "op-0@x.com", records[4].ActorLabel)
	})

	t.Run("truncates to limit", func(t *testing.T) {
		records, err := store.ListRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "op-4@x.com", records[0].ActorLabel)
	})
}

func TestInMemoryStore_ConcurrentAppendsLoseNothing(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	const goroutines = 50
	const perGoroutine = 20

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				_, err := store.Append(ctx, RecordInput{
					Action:     ActionBanUser,
					ActorLabel: fmt.Sprintf("op-%d", g),
				})
				assert.NoError(t, err)
			}
		}(g)
	}
	wg.Wait()

	records, err := store.ListRecent(ctx, goroutines*perGoroutine)
	require.NoError(t, err)
	assert.Len(t, records, goroutines*perGoroutine)

	for i := 1; i < len(records); i++ {
		assert.False(t, records[i-1].Timestamp.Before(records[i].Timestamp),
			"listing is newest first")
	}
}
