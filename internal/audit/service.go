package audit

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/livefeed"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/platform/metrics"
	dErrors "github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/domain-errors"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/platform/sentinel"
)

// Mirror receives every appended record for out-of-band consumers. Mirroring
// is best-effort; implementations log their own failures.
type Mirror interface {
	Publish(ctx context.Context, record Record)
}

// Service is the audit log facade: append with identity assignment, the
// bounded live feed, and snapshot queries.
type Service struct {
	store    Store
	feed     *livefeed.Hub[Record]
	mirror   Mirror
	announce func(ctx context.Context, record Record)
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithMirror attaches a best-effort mirror of appended records.
func WithMirror(m Mirror) Option {
	return func(s *Service) { s.mirror = m }
}

// WithAnnounce attaches a cross-instance feed announcement hook.
func WithAnnounce(fn func(ctx context.Context, record Record)) Option {
	return func(s *Service) { s.announce = fn }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates the audit service over store and feed.
func NewService(store Store, feed *livefeed.Hub[Record], logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		feed:   feed,
		logger: logger,
		tracer: otel.Tracer("audit"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Warm seeds the live feed from durable storage. Call once before serving.
func (s *Service) Warm(ctx context.Context, window int) error {
	records, err := s.store.ListRecent(ctx, window)
	if err != nil {
		return err
	}
	s.feed.Seed(records)
	return nil
}

// Append validates minimally, persists the record, and publishes it to the
// live feed and mirror. The returned record carries its assigned ID and
// timestamp.
func (s *Service) Append(ctx context.Context, input RecordInput) (Record, error) {
	ctx, span := s.tracer.Start(ctx, "audit.append",
		trace.WithAttributes(attribute.String("audit.action", string(input.Action))))
	defer span.End()

	if input.Action == "" {
		return Record{}, dErrors.New(dErrors.CodeBadRequest, "missing action")
	}
	if input.ActorID == "" && input.ActorLabel == "" {
		return Record{}, dErrors.New(dErrors.CodeBadRequest, "missing actor")
	}

	record, err := s.store.Append(ctx, input)
	if err != nil {
		span.SetStatus(codes.Error, "append failed")
		if errors.Is(err, sentinel.ErrUnavailable) {
			return Record{}, dErrors.Wrap(dErrors.CodeUnavailable, "audit store unavailable", err)
		}
		return Record{}, err
	}

	s.feed.Publish(record)
	if s.announce != nil {
		s.announce(ctx, record)
	}
	if s.mirror != nil {
		s.mirror.Publish(ctx, record)
	}
	if s.metrics != nil {
		s.metrics.AuditAppends.Inc()
	}
	return record, nil
}

// Log appends fire-and-forget: a failed audit write must never block the
// administrative action it records, so failures are logged and counted, not
// returned.
func (s *Service) Log(ctx context.Context, input RecordInput) {
	if _, err := s.Append(ctx, input); err != nil {
		if s.metrics != nil {
			s.metrics.AuditAppendDrops.Inc()
		}
		s.logger.WarnContext(ctx, "audit record dropped",
			"action", string(input.Action),
			"actor", input.ActorLabel,
			"error", err.Error(),
		)
	}
}

// Subscribe opens a live feed bounded to the limit most recent records.
func (s *Service) Subscribe(limit int) *livefeed.Subscription[Record] {
	return s.feed.Subscribe(limit)
}

// Search filters and paginates the current record window and derives the
// action vocabulary for it. Both are recomputed from the snapshot on every
// call.
func (s *Service) Search(_ context.Context, criteria Criteria) (Page, []string, error) {
	snapshot := s.feed.Snapshot(0)
	page, err := Query(snapshot, criteria)
	if err != nil {
		return Page{}, nil, err
	}
	return page, ActionOptions(snapshot), nil
}
