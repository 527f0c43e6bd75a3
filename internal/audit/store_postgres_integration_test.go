//go:build integration

package audit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/testutil/containers"
)

// PostgresStoreSuite runs the audit store against a real PostgreSQL.
type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresStore
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())

	schema, err := os.ReadFile("../../migrations/001_init.sql")
	require.NoError(s.T(), err)
	s.pg.Exec(s.T(), string(schema))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.pg.Exec(s.T(), "TRUNCATE admin_logs")
	s.store = NewPostgresStore(s.pg.DB)
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) TestAppendAssignsIdentity() {
	ctx := context.Background()

	record, err := s.store.Append(ctx, RecordInput{
		ActorID:    "op-1",
		ActorLabel: "alice@filmgrid.dev",
		Action:     ActionBanUser,
		TargetID:   "user-9",
		Reason:     "spam",
	})
	require.NoError(s.T(), err)
	assert.NotEmpty(s.T(), record.ID)
	assert.False(s.T(), record.Timestamp.IsZero())

	listed, err := s.store.ListRecent(ctx, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), listed, 1)
	assert.Equal(s.T(), record.ID, listed[0].ID)
	assert.Equal(s.T(), ActionBanUser, listed[0].Action)
	assert.Equal(s.T(), "spam", listed[0].Reason)
}

func (s *PostgresStoreSuite) TestFiltersRoundTrip() {
	ctx := context.Background()

	_, err := s.store.Append(ctx, RecordInput{
		ActorID: "op-1",
		Action:  ActionMarketingExport,
		Filters: map[string]string{"region": "EU", "opt_in": "true"},
	})
	require.NoError(s.T(), err)

	listed, err := s.store.ListRecent(ctx, 1)
	require.NoError(s.T(), err)
	require.Len(s.T(), listed, 1)
	assert.Equal(s.T(), map[string]string{"region": "EU", "opt_in": "true"}, listed[0].Filters)
}

func (s *PostgresStoreSuite) TestListRecentNewestFirstWithLimit() {
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	for i := range 5 {
		_, err := s.store.Append(ctx, RecordInput{
			ActorID:   "op-1",
			Action:    ActionVerifyUser,
			TargetID:  string(rune('a' + i)),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(s.T(), err)
	}

	listed, err := s.store.ListRecent(ctx, 3)
	require.NoError(s.T(), err)
	require.Len(s.T(), listed, 3)
	assert.Equal(s.T(), "e", listed[0].TargetID)
	assert.Equal(s.T(), "d", listed[1].TargetID)
	assert.Equal(s.T(), "c", listed[2].TargetID)
}

func (s *PostgresStoreSuite) TestTimestampsNeverDecrease() {
	ctx := context.Background()

	late := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	first, err := s.store.Append(ctx, RecordInput{ActorID: "op-1", Action: ActionBanUser, Timestamp: late})
	require.NoError(s.T(), err)

	// A client-supplied timestamp earlier than the latest stored one is
	// clamped so the log stays reverse-chronological.
	second, err := s.store.Append(ctx, RecordInput{
		ActorID:   "op-1",
		Action:    ActionUnbanUser,
		Timestamp: late.Add(-time.Hour),
	})
	require.NoError(s.T(), err)
	assert.False(s.T(), second.Timestamp.Before(first.Timestamp))
}
