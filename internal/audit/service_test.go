package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/livefeed"
	dErrors "github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/domain-errors"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/platform/sentinel"
)

type failingStore struct{}

func (failingStore) Append(context.Context, RecordInput) (Record, error) {
	return Record{}, fmt.Errorf("insert admin log: %w", sentinel.ErrUnavailable)
}

func (failingStore) ListRecent(context.Context, int) ([]Record, error) {
	return nil, fmt.Errorf("query admin logs: %w", sentinel.ErrUnavailable)
}

type recordingMirror struct {
	published []Record
}

func (m *recordingMirror) Publish(_ context.Context, record Record) {
	m.published = append(m.published, record)
}

func newTestService(t *testing.T, store Store, opts ...Option) (*Service, *livefeed.Hub[Record]) {
	t.Helper()
	hub := livefeed.NewHub[Record](50)
	return NewService(store, hub, slog.New(slog.DiscardHandler), opts...), hub
}

func TestService_Append(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes to feed and mirror", func(t *testing.T) {
		mirror := &recordingMirror{}
		svc, hub := newTestService(t, NewInMemoryStore(), WithMirror(mirror))

		record, err := svc.Append(ctx, RecordInput{Action: ActionBanUser, ActorLabel: "a@x.com"})
		require.NoError(t, err)
		assert.NotEmpty(t, record.ID)

		snapshot := hub.Snapshot(0)
		require.Len(t, snapshot, 1)
		assert.Equal(t, record.ID, snapshot[0].ID)

		require.Len(t, mirror.published, 1)
		assert.Equal(t, record.ID, mirror.published[0].ID)
	})

	t.Run("rejects missing action", func(t *testing.T) {
		svc, hub := newTestService(t, NewInMemoryStore())
		_, err := svc.Append(ctx, RecordInput{ActorLabel: "a@x.com"})
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
		assert.Empty(t, hub.Snapshot(0))
	})

	t.Run("rejects missing actor", func(t *testing.T) {
		svc, _ := newTestService(t, NewInMemoryStore())
		_, err := svc.Append(ctx, RecordInput{Action: ActionBanUser})
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	})

	t.Run("translates store outage", func(t *testing.T) {
		svc, hub := newTestService(t, failingStore{})
		_, err := svc.Append(ctx, RecordInput{Action: ActionBanUser, ActorLabel: "a@x.com"})
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnavailable))
		assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
		assert.Empty(t, hub.Snapshot(0), "failed appends never reach the feed")
	})
}

func TestService_LogNeverFails(t *testing.T) {
	ctx := context.Background()

	// Log against an unavailable store must return normally.
	svc, _ := newTestService(t, failingStore{})
	svc.Log(ctx, RecordInput{Action: ActionBanUser, ActorLabel: "a@x.com"})

	// And against a healthy store it records.
	healthy, hub := newTestService(t, NewInMemoryStore())
	healthy.Log(ctx, RecordInput{Action: ActionBanUser, ActorLabel: "a@x.com"})
	assert.Len(t, hub.Snapshot(0), 1)
}

func TestService_SubscribeObservesAppendOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, NewInMemoryStore())

	sub := svc.Subscribe(10)
	defer sub.Cancel()
	<-sub.Updates()

	var appended []string
	for i := 0; i < 5; i++ {
		record, err := svc.Append(ctx, RecordInput{
			Action:     ActionVerifyUser,
			ActorLabel: fmt.Sprintf("op-%d@x.com", i),
		})
		require.NoError(t, err)
		appended = append(appended, record.ID)

		snapshot := <-sub.Updates()
		require.Len(t, snapshot, i+1)
		// Reverse chronological: the latest append is first.
		for j := range snapshot {
			assert.Equal(t, appended[len(appended)-1-j], snapshot[j].ID)
		}
	}
}

func TestService_Search(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, NewInMemoryStore())

	_, err := svc.Append(ctx, RecordInput{Action: ActionBanUser, ActorLabel: "a@x.com"})
	require.NoError(t, err)
	_, err = svc.Append(ctx, RecordInput{Action: ActionVerifyUser, ActorLabel: "b@x.com"})
	require.NoError(t, err)

	page, actions, err := svc.Search(ctx, Criteria{FreeText: "ban", Action: ActionAll, PageIndex: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, ActionBanUser, page.Rows[0].Action)
	assert.Equal(t, []string{"all", "BAN_USER", "VERIFY_USER"}, actions)
}

func TestService_WarmSeedsFeed(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	for i := 0; i < 3; i++ {
		_, err := store.Append(ctx, RecordInput{Action: ActionVerifyUser, ActorLabel: fmt.Sprintf("op-%d", i)})
		require.NoError(t, err)
	}

	svc, hub := newTestService(t, store)
	require.NoError(t, svc.Warm(ctx, 10))

	snapshot := hub.Snapshot(0)
	require.Len(t, snapshot, 3)
	assert.Equal(t, "op-2", snapshot[0].ActorLabel)
}
