package livefeed

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// ErrStreamingUnsupported is returned when the response writer cannot flush
// incrementally, which SSE requires.
var ErrStreamingUnsupported = errors.New("response writer does not support streaming")

// sseHeartbeat keeps idle connections alive through proxies that reap
// quiet streams.
const sseHeartbeat = 25 * time.Second

// ServeSSE streams a subscription over Server-Sent Events until the client
// disconnects or the subscription closes. Each update becomes one "snapshot"
// event whose data is the JSON-encoded window, newest first. The caller owns
// the subscription; ServeSSE cancels it on return.
func ServeSSE[T any](ctx context.Context, w http.ResponseWriter, sub *Subscription[T], logger *slog.Logger) error {
	defer sub.Cancel()

	flusher, ok := w.(http.Flusher)
	if !ok {
		return ErrStreamingUnsupported
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-heartbeat.C:
			if _, err := w.Write([]byte(": keep-alive\n\n")); err != nil {
				return nil
			}
			flusher.Flush()
		case snapshot, open := <-sub.Updates():
			if !open {
				return nil
			}
			if err := writeSnapshotEvent(w, snapshot); err != nil {
				logger.DebugContext(ctx, "feed client write failed", "error", err)
				return nil
			}
			flusher.Flush()
		}
	}
}

func writeSnapshotEvent[T any](w http.ResponseWriter, snapshot []T) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte("event: snapshot\ndata: ")); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n\n"))
	return err
}
