// Package httptransport assembles the HTTP surface: middleware stack,
// admin route group, and the unauthenticated health and metrics endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	audithandler "github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/audit/handler"
	notifhandler "github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/notification/handler"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/platform/middleware"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/platform/httputil"
)

const requestTimeout = 30 * time.Second

// Deps carries everything the router mounts.
type Deps struct {
	Logger        *slog.Logger
	Validator     middleware.TokenValidator
	Audit         *audithandler.Handler
	Notifications *notifhandler.Handler

	// Health reports backing store reachability; nil means always healthy.
	Health func(ctx context.Context) error
}

// NewRouter wires all endpoints. Administrative routes sit behind the JWT
// admin guard; the SSE feeds mount outside the request timeout so streams
// are not reaped mid-subscription.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))

	r.Get("/healthz", handleHealth(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(deps.Validator, deps.Logger))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			deps.Audit.Register(r)
			deps.Notifications.Register(r)
		})

		deps.Audit.RegisterFeed(r)
		deps.Notifications.RegisterFeed(r)
	})

	return r
}

func handleHealth(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"reason": err.Error(),
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
