package logging

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	evaluationIDKey contextKey = "evaluation_id"
	requestIDKey    contextKey = "request_id"
)

// WithEvaluationID returns a context carrying the given evaluation ID.
func WithEvaluationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, evaluationIDKey, id)
}

// EvaluationID returns the evaluation ID stored in ctx, or "" when absent.
func EvaluationID(ctx context.Context) string {
	id, _ := ctx.Value(evaluationIDKey).(string)
	return id
}

// WithRequestID returns a context carrying the given HTTP request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID stored in ctx, or "" when absent.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// contextHandler decorates log records with correlation IDs found in the
// context the record was emitted under.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, record slog.Record) error {
	if id := EvaluationID(ctx); id != "" {
		record.AddAttrs(slog.String("evaluation_id", id))
	}
	if id := RequestID(ctx); id != "" {
		record.AddAttrs(slog.String("request_id", id))
	}
	return h.Handler.Handle(ctx, record)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}
