package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	visitorIDKey ctxKey = "visitor_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

func WithVisitorID(ctx context.Context, visitorID string) context.Context {
	return context.WithValue(ctx, visitorIDKey, visitorID)
}

func VisitorIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(visitorIDKey).(string)
	return v
}

// FromCtx returns the global logger annotated with the request and visitor ids
// found on ctx.
func FromCtx(ctx context.Context) *zap.Logger {
	l := L()
	if reqID := RequestIDFrom(ctx); reqID != "" {
		l = l.With(zap.String("request_id", reqID))
	}
	if visitor := VisitorIDFrom(ctx); visitor != "" {
		l = l.With(zap.String("visitor_id", visitor))
	}
	return l
}
