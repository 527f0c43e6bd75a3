package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/audit"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/livefeed"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/platform/metrics"
	dErrors "github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/domain-errors"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/platform/httputil"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/requestcontext"
)

// Service defines the interface for audit log operations.
type Service interface {
	Append(ctx context.Context, input audit.RecordInput) (audit.Record, error)
	Search(ctx context.Context, criteria audit.Criteria) (audit.Page, []string, error)
	Subscribe(limit int) *livefeed.Subscription[audit.Record]
}

// Handler wires audit log endpoints to the audit service.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs an audit handler with its dependencies. metrics may be nil.
func New(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: m,
	}
}

// Register mounts the request/response audit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/audit-logs", h.HandleSearch)
	r.Post("/audit-logs", h.HandleAppend)
}

// RegisterFeed mounts the SSE endpoint. Kept separate so the router can
// mount it outside the request timeout.
func (h *Handler) RegisterFeed(r chi.Router) {
	r.Get("/audit-logs/feed", h.HandleFeed)
}

// HandleSearch handles GET /audit-logs requests.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	criteria, err := parseSearchCriteria(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, actions, err := h.service.Search(ctx, criteria)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit search failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, searchResponse{
		Rows:       rowsOrEmpty(page.Rows),
		TotalCount: page.TotalCount,
		PageCount:  page.PageCount,
		Actions:    actions,
	})
}

// HandleAppend handles POST /audit-logs requests.
func (h *Handler) HandleAppend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var input audit.RecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	// The authenticated operator is the actor unless the payload names one,
	// e.g. a batch job replaying actions on an operator's behalf.
	if input.ActorID == "" {
		input.ActorID = requestcontext.OperatorID(ctx)
	}
	if input.ActorLabel == "" {
		input.ActorLabel = requestcontext.OperatorEmail(ctx)
	}

	record, err := h.service.Append(ctx, input)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit append failed",
			"request_id", requestID,
			"action", string(input.Action),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "audit record appended",
		"request_id", requestID,
		"record_id", record.ID,
		"action", string(record.Action),
	)
	httputil.WriteJSON(w, http.StatusCreated, record)
}

// HandleFeed handles GET /audit-logs/feed requests, streaming the bounded
// record window over Server-Sent Events. Each event carries a full snapshot,
// newest first; a slow client skips intermediate snapshots rather than
// lagging behind.
func (h *Handler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := parseFeedLimit(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.FeedSubscriptions.Inc()
		defer h.metrics.FeedSubscriptions.Dec()
	}

	if err := livefeed.ServeSSE(ctx, w, h.service.Subscribe(limit), h.logger); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "streaming unsupported"))
	}
}

func rowsOrEmpty(rows []audit.Record) []audit.Record {
	if rows == nil {
		return []audit.Record{}
	}
	return rows
}
