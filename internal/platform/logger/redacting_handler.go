package logger

import (
	"context"
	"log/slog"

	"github.com/phrazzld/podscript/internal/redact"
)

// RedactedKeys lists the attribute keys whose values are scrubbed before output.
var RedactedKeys = map[string]bool{
	"error": true,
	"err":   true,
	"url":   true,
}

// SecretKeys lists the attribute keys whose values are never written.
var SecretKeys = map[string]bool{
	"api_key":        true,
	"gemini_api_key": true,
}

// RedactingHandler wraps another slog.Handler and runs sensitive attribute
// values through the redact package.
type RedactingHandler struct {
	handler slog.Handler
}

// NewRedactingHandler wraps handler.
func NewRedactingHandler(handler slog.Handler) *RedactingHandler {
	return &RedactingHandler{handler: handler}
}

// Enabled implements the slog.Handler interface.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements the slog.Handler interface.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scrubbed := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		scrubbed[i] = scrub(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(scrubbed)}
}

// WithGroup implements the slog.Handler interface.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name)}
}

// Handle implements the slog.Handler interface.
func (h *RedactingHandler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(scrub(a))
		return true
	})
	return h.handler.Handle(ctx, clean)
}

func scrub(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		group := v.Group()
		out := make([]slog.Attr, len(group))
		for i, g := range group {
			out[i] = scrub(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	if SecretKeys[a.Key] {
		return slog.String(a.Key, redact.RedactedKeyPlaceholder)
	}
	if !RedactedKeys[a.Key] {
		return a
	}
	if err, ok := v.Any().(error); ok {
		return slog.String(a.Key, redact.Error(err))
	}
	return slog.String(a.Key, redact.String(v.String()))
}
