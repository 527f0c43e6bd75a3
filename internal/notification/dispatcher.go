package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/audit"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/livefeed"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/platform/metrics"
	dErrors "github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/domain-errors"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/requestcontext"
)

// Gateway delivers one message to a resolved audience and reports
// per-recipient outcomes. Implementations live in the gateway subpackage.
type Gateway interface {
	Send(ctx context.Context, audience Audience, title, body string) (Tally, error)
}

// Dispatcher resolves a request, invokes the delivery gateway once, and
// persists the summary of a successful dispatch. It holds no state between
// calls: each dispatch is a stateless transaction against current
// subscriber state.
type Dispatcher struct {
	gateway  Gateway
	history  HistoryStore
	feed     *livefeed.Hub[HistoryEntry]
	auditLog *audit.Service
	announce func(ctx context.Context, entry HistoryEntry)
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	timeout  time.Duration
	clock    func() time.Time
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithAuditLog records a SEND_NOTIFICATION audit entry (fire-and-forget)
// for every successful dispatch.
func WithAuditLog(svc *audit.Service) DispatcherOption {
	return func(d *Dispatcher) { d.auditLog = svc }
}

// WithAnnounce attaches a cross-instance feed announcement hook.
func WithAnnounce(fn func(ctx context.Context, entry HistoryEntry)) DispatcherOption {
	return func(d *Dispatcher) { d.announce = fn }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) DispatcherOption {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithTimeout bounds each gateway call.
func WithTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithDispatcherClock sets the clock function for testability.
func WithDispatcherClock(clock func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// NewDispatcher creates a dispatcher over gw and history.
func NewDispatcher(gw Gateway, history HistoryStore, feed *livefeed.Hub[HistoryEntry], logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		gateway: gw,
		history: history,
		feed:    feed,
		logger:  logger,
		tracer:  otel.Tracer("notification"),
		timeout: 15 * time.Second,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Warm seeds the history live feed from durable storage.
func (d *Dispatcher) Warm(ctx context.Context, window int) error {
	entries, err := d.history.List(ctx, window)
	if err != nil {
		return err
	}
	d.feed.Seed(entries)
	return nil
}

// Dispatch sends one message to the request's audience.
//
// Validation failures surface before the gateway is touched. A gateway
// failure (transport, authorization, timeout) yields a dispatch error and
// writes no history: a dispatch that never reached recipients must not
// masquerade as one where every recipient failed. A tally with Failed > 0
// from a completed gateway call is a success and is recorded as such.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Tally, error) {
	ctx, span := d.tracer.Start(ctx, "notification.dispatch",
		trace.WithAttributes(attribute.String("notification.target", string(req.TargetType))))
	defer span.End()

	audience, err := Resolve(req)
	if err != nil {
		d.countDispatch("rejected")
		return Tally{}, err
	}

	title := strings.TrimSpace(req.Title)
	body := strings.TrimSpace(req.Body)

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	tally, err := d.gateway.Send(sendCtx, audience, title, body)
	if d.metrics != nil {
		d.metrics.DispatchDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		span.SetStatus(codes.Error, "gateway call failed")
		d.countDispatch("failed")
		reason := "delivery gateway failure"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "delivery gateway timeout"
		}
		return Tally{}, dErrors.Wrap(dErrors.CodeDispatchFailed, reason, err)
	}

	entry := HistoryEntry{
		ID:         uuid.NewString(),
		Title:      title,
		Body:       body,
		TargetType: audience.Type,
		Topic:      audience.Topic,
		Tally:      tally,
		SentAt:     d.clock(),
	}
	if err := d.history.Record(ctx, entry); err != nil {
		// The message went out; hiding that behind a plain failure would
		// invite a duplicate send. Surface the tally with the error.
		d.countDispatch("history_write_failed")
		d.logger.ErrorContext(ctx, "dispatch succeeded but history write failed",
			"entry_id", entry.ID,
			"error", err.Error(),
		)
		return tally, dErrors.Wrap(dErrors.CodeUnavailable,
			fmt.Sprintf("notification sent (success=%d, failed=%d) but history could not be recorded", tally.Success, tally.Failed),
			err)
	}

	d.feed.Publish(entry)
	if d.announce != nil {
		d.announce(ctx, entry)
	}
	d.countDispatch("ok")
	if d.metrics != nil {
		d.metrics.DeliveryOutcomes.WithLabelValues("success").Add(float64(tally.Success))
		d.metrics.DeliveryOutcomes.WithLabelValues("failed").Add(float64(tally.Failed))
	}

	if d.auditLog != nil {
		d.auditLog.Log(ctx, audit.RecordInput{
			ActorID:     requestcontext.OperatorID(ctx),
			ActorLabel:  requestcontext.OperatorEmail(ctx),
			Action:      audit.ActionSendNotification,
			TargetID:    entry.ID,
			TargetLabel: title,
			Status:      fmt.Sprintf("success=%d failed=%d", tally.Success, tally.Failed),
			Notes:       audienceLabel(audience),
		})
	}

	return tally, nil
}

// History returns up to limit dispatch summaries, newest first.
func (d *Dispatcher) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	entries, err := d.history.List(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "notification history unavailable", err)
	}
	return entries, nil
}

// Subscribe opens a live feed over the dispatch history.
func (d *Dispatcher) Subscribe(limit int) *livefeed.Subscription[HistoryEntry] {
	return d.feed.Subscribe(limit)
}

func (d *Dispatcher) countDispatch(outcome string) {
	if d.metrics != nil {
		d.metrics.Dispatches.WithLabelValues(outcome).Inc()
	}
}

func audienceLabel(audience Audience) string {
	if audience.Type == TargetTopic {
		return "topic:" + audience.Topic
	}
	return "all recipients"
}
