package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults when unset", func(t *testing.T) {
		cfg := FromEnv()
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, 15*time.Second, cfg.DispatchTimeout)
		assert.Equal(t, 200, cfg.FeedWindow)
		assert.Empty(t, cfg.KafkaBrokers)
	})

	t.Run("reads overrides", func(t *testing.T) {
		t.Setenv("FILMGRID_ADMIN_ADDR", ":9090")
		t.Setenv("FILMGRID_ADMIN_DISPATCH_TIMEOUT", "3s")
		t.Setenv("FILMGRID_ADMIN_KAFKA_BROKERS", "broker-1:9092, broker-2:9092")

		cfg := FromEnv()
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, 3*time.Second, cfg.DispatchTimeout)
		assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	})

	t.Run("ignores malformed numbers", func(t *testing.T) {
		t.Setenv("FILMGRID_ADMIN_FEED_WINDOW", "not-a-number")
		cfg := FromEnv()
		assert.Equal(t, 200, cfg.FeedWindow)
	})
}
