package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/domain-errors"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/platform/httputil"
	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/requestcontext"
)

// OperatorClaims represents the claims we expect from the token validator.
type OperatorClaims struct {
	OperatorID string
	Email      string
	Role       string
}

// TokenValidator defines the interface for validating operator bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*OperatorClaims, error)
}

// RequireAdmin validates the bearer token and requires the admin role.
// On success the operator identity is stored in the request context via
// pkg/requestcontext, where services read it without importing this package.
func RequireAdmin(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "operator token rejected",
					"request_id", requestcontext.RequestID(ctx),
					"error", err.Error(),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
				return
			}
			if claims.Role != "admin" {
				logger.WarnContext(ctx, "operator lacks admin role",
					"request_id", requestcontext.RequestID(ctx),
					"operator_id", claims.OperatorID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin role required"))
				return
			}

			ctx = requestcontext.WithOperator(ctx, claims.OperatorID, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
