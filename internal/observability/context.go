package observability

import (
	"context"

	"github.com/rs/zerolog"
)

// Context keys for observability data.
type contextKey string

const (
	requestIDKey     contextKey = "request_id"
	correlationIDKey contextKey = "correlation_id"
	searchKindKey    contextKey = "search_kind"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if not present.
func RequestIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, requestIDKey)
}

// WithCorrelationID adds a correlation ID to the context.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// CorrelationIDFromContext retrieves the correlation ID from context.
// Returns empty string if not present.
func CorrelationIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, correlationIDKey)
}

// WithSearchKind tags the context with the entry point serving the request.
func WithSearchKind(ctx context.Context, kind string) context.Context {
	return context.WithValue(ctx, searchKindKey, kind)
}

// SearchKindFromContext retrieves the search kind from context.
func SearchKindFromContext(ctx context.Context) string {
	return stringFromContext(ctx, searchKindKey)
}

// LoggerFromContext returns logger enriched with the ids carried by ctx.
func LoggerFromContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	logger = WithRequestContext(logger, RequestIDFromContext(ctx), CorrelationIDFromContext(ctx))
	if kind := SearchKindFromContext(ctx); kind != "" {
		logger = logger.With().Str("search_kind", kind).Logger()
	}
	return logger
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if v := ctx.Value(key); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
