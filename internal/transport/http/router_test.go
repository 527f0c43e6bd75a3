package httptransport

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/adminauth"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/audit"
	audithandler "github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/audit/handler"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/livefeed"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/notification"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/notification/gateway"
	notifhandler "github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/notification/handler"
)

func newTestRouter(t *testing.T, health func(ctx context.Context) error) (http.Handler, *adminauth.JWTService) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	tokens := adminauth.NewJWTService("test-signing-key", "filmgrid-admin")

	auditSvc := audit.NewService(audit.NewInMemoryStore(), livefeed.NewHub[audit.Record](50), logger)
	dispatcher := notification.NewDispatcher(
		&gateway.Fake{Tally: notification.Tally{Success: 1}},
		notification.NewInMemoryHistory(),
		livefeed.NewHub[notification.HistoryEntry](50),
		logger,
	)

	router := NewRouter(Deps{
		Logger:        logger,
		Validator:     tokens,
		Audit:         audithandler.New(auditSvc, logger, nil),
		Notifications: notifhandler.New(dispatcher, logger, nil),
		Health:        health,
	})
	return router, tokens
}

func adminToken(t *testing.T, tokens *adminauth.JWTService, role string) string {
	t.Helper()
	token, err := tokens.GenerateToken("op-1", "ops@filmgrid.dev", role, time.Hour)
	require.NoError(t, err)
	return token
}

func TestRouterHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		router, _ := newTestRouter(t, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("degraded", func(t *testing.T) {
		router, _ := newTestRouter(t, func(context.Context) error {
			return errors.New("postgres unreachable")
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "degraded")
	})
}

func TestRouterMetricsExposed(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterAdminGuard(t *testing.T) {
	router, tokens := newTestRouter(t, nil)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/audit-logs", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/audit-logs", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-admin role rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/audit-logs", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken(t, tokens, "viewer"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/audit-logs", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken(t, tokens, "admin"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouterDispatchStampsActor(t *testing.T) {
	// A send through the full stack picks the operator identity out of the
	// verified token, not the request body.
	router, tokens := newTestRouter(t, nil)

	body := bytes.NewReader([]byte(`{"title":"t","body":"b","targetType":"all"}`))
	req := httptest.NewRequest(http.MethodPost, "/admin/notifications", body)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, tokens, "admin"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":1,"failed":0}`, rec.Body.String())
}

func TestRouterUnknownRoute(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
