package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string

	// PostgresURL selects the durable stores; empty keeps everything in memory.
	PostgresURL string

	// RedisURL enables the cross-instance live-feed bridge when set.
	RedisURL string

	// KafkaBrokers enables the audit mirror when non-empty.
	KafkaBrokers []string
	KafkaTopic   string

	// Delivery gateway settings.
	GatewayURL      string
	GatewayAPIKey   string
	DispatchTimeout time.Duration

	// FeedWindow bounds how many recent records a live feed retains.
	FeedWindow int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:            getenv("FILMGRID_ADMIN_ADDR", ":8080"),
		JWTSigningKey:   getenv("FILMGRID_ADMIN_JWT_KEY", "dev-secret-key-change-in-production"),
		PostgresURL:     os.Getenv("FILMGRID_ADMIN_POSTGRES_URL"),
		RedisURL:        os.Getenv("FILMGRID_ADMIN_REDIS_URL"),
		KafkaTopic:      getenv("FILMGRID_ADMIN_KAFKA_TOPIC", "admin-audit-records"),
		GatewayURL:      os.Getenv("FILMGRID_ADMIN_GATEWAY_URL"),
		GatewayAPIKey:   os.Getenv("FILMGRID_ADMIN_GATEWAY_KEY"),
		DispatchTimeout: getduration("FILMGRID_ADMIN_DISPATCH_TIMEOUT", 15*time.Second),
		FeedWindow:      getint("FILMGRID_ADMIN_FEED_WINDOW", 200),
	}

	if brokers := os.Getenv("FILMGRID_ADMIN_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
