package livefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Bridge propagates hub publishes across instances over a Redis channel.
// Each instance announces its own appends and replays announcements from
// peers into the local hub, so feed subscribers see appends made anywhere.
type Bridge[T any] struct {
	hub        *Hub[T]
	rdb        *redis.Client
	channel    string
	instanceID string
	logger     *slog.Logger
}

type envelope struct {
	Source  string          `json:"source"`
	Payload json.RawMessage `json:"payload"`
}

// NewBridge creates a bridge between hub and the named Redis channel.
func NewBridge[T any](hub *Hub[T], rdb *redis.Client, channel string, logger *slog.Logger) *Bridge[T] {
	return &Bridge[T]{
		hub:        hub,
		rdb:        rdb,
		channel:    channel,
		instanceID: uuid.NewString(),
		logger:     logger,
	}
}

// Announce publishes item to peers. Local delivery already happened via the
// hub; failures are logged and do not affect the append that triggered them.
func (b *Bridge[T]) Announce(ctx context.Context, item T) {
	msg, err := b.envelope(item)
	if err != nil {
		b.logger.ErrorContext(ctx, "marshal feed announcement", "channel", b.channel, "error", err.Error())
		return
	}
	if err := b.rdb.Publish(ctx, b.channel, msg).Err(); err != nil {
		b.logger.WarnContext(ctx, "publish feed announcement", "channel", b.channel, "error", err.Error())
	}
}

// envelope wraps item in this instance's announcement envelope, the wire
// form handle expects from peers.
func (b *Bridge[T]) envelope(item T) ([]byte, error) {
	payload, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("marshal feed item: %w", err)
	}
	return json.Marshal(envelope{Source: b.instanceID, Payload: payload})
}

// Run consumes peer announcements until ctx is cancelled.
func (b *Bridge[T]) Run(ctx context.Context) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("feed channel %s closed", b.channel)
			}
			b.handle(ctx, msg.Payload)
		}
	}
}

func (b *Bridge[T]) handle(ctx context.Context, raw string) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		b.logger.WarnContext(ctx, "malformed feed announcement", "channel", b.channel, "error", err.Error())
		return
	}
	if env.Source == b.instanceID {
		return
	}
	var item T
	if err := json.Unmarshal(env.Payload, &item); err != nil {
		b.logger.WarnContext(ctx, "malformed feed payload", "channel", b.channel, "error", err.Error())
		return
	}
	b.hub.Publish(item)
}
