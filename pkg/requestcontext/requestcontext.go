// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// This package defines context keys and getter/setter functions for values
// that are typically set by middleware but consumed by services. By keeping
// this package free of net/http dependencies, services can import only what
// they need without pulling in HTTP-related code.
//
// Usage in services (read values):
//
//	operatorID := requestcontext.OperatorID(ctx)
//	requestID := requestcontext.RequestID(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithOperator(ctx, operatorID, email)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
package requestcontext

import "context"

// Context key types (unexported for encapsulation).
type (
	requestIDKey     struct{}
	operatorIDKey    struct{}
	operatorEmailKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyRequestID     = requestIDKey{}
	ContextKeyOperatorID    = operatorIDKey{}
	ContextKeyOperatorEmail = operatorEmailKey{}
)

// RequestID retrieves the request correlation ID from the context.
func RequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithRequestID injects a request correlation ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// OperatorID retrieves the authenticated operator ID from the context.
func OperatorID(ctx context.Context) string {
	if operatorID, ok := ctx.Value(ContextKeyOperatorID).(string); ok {
		return operatorID
	}
	return ""
}

// OperatorEmail retrieves the authenticated operator email from the context.
func OperatorEmail(ctx context.Context) string {
	if email, ok := ctx.Value(ContextKeyOperatorEmail).(string); ok {
		return email
	}
	return ""
}

// WithOperator injects the authenticated operator identity into the context.
// Useful for service unit tests that don't run the full middleware chain.
func WithOperator(ctx context.Context, operatorID, email string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyOperatorID, operatorID)
	return context.WithValue(ctx, ContextKeyOperatorEmail, email)
}
