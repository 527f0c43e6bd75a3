package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/livefeed"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/notification"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/platform/metrics"
	dErrors "github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/domain-errors"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/platform/httputil"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/requestcontext"
)

const defaultHistoryLimit = 50

// Service defines the interface for notification operations.
type Service interface {
	Dispatch(ctx context.Context, req notification.Request) (notification.Tally, error)
	History(ctx context.Context, limit int) ([]notification.HistoryEntry, error)
	Subscribe(limit int) *livefeed.Subscription[notification.HistoryEntry]
}

// Handler wires notification endpoints to the dispatcher.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a notification handler with its dependencies. metrics may
// be nil.
func New(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: m,
	}
}

// Register mounts the request/response notification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/notifications", h.HandleDispatch)
	r.Get("/notifications/history", h.HandleHistory)
}

// RegisterFeed mounts the SSE endpoint. Kept separate so the router can
// mount it outside the request timeout.
func (h *Handler) RegisterFeed(r chi.Router) {
	r.Get("/notifications/feed", h.HandleFeed)
}

// HandleDispatch handles POST /notifications requests.
func (h *Handler) HandleDispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	var req notification.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	tally, err := h.service.Dispatch(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "notification dispatch failed",
			"request_id", requestID,
			"operator", requestcontext.OperatorEmail(ctx),
			"target_type", string(req.TargetType),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "notification dispatched",
		"request_id", requestID,
		"operator", requestcontext.OperatorEmail(ctx),
		"target_type", string(req.TargetType),
		"success", tally.Success,
		"failed", tally.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, tally)
}

// HandleHistory handles GET /notifications/history requests.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.service.History(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "notification history lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []notification.HistoryEntry{}
	}

	httputil.WriteJSON(w, http.StatusOK, historyResponse{Entries: entries})
}

// HandleFeed handles GET /notifications/feed requests as an SSE stream of
// dispatch history snapshots.
func (h *Handler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	if h.metrics != nil {
		h.metrics.FeedSubscriptions.Inc()
		defer h.metrics.FeedSubscriptions.Dec()
	}

	if err := livefeed.ServeSSE(ctx, w, h.service.Subscribe(limit), h.logger); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "streaming unsupported"))
	}
}

type historyResponse struct {
	Entries []notification.HistoryEntry `json:"entries"`
}
