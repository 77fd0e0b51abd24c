package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// sensitiveKeywords mark attribute keys and environment variable names
// whose values are masked. Matching is case-insensitive and by substring.
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "auth",
	"credential", "private", "cookie", "session", "apikey", "api_key",
}

// sensitivePatterns match values that are masked whatever their key.
var sensitivePatterns = []*regexp.Regexp{
	// JWT
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	// GitHub personal access tokens
	regexp.MustCompile(`^gh[pousr]_[A-Za-z0-9]{20,}$`),
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`),
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
}

// RedactingHandler wraps an slog.Handler and masks sensitive attribute
// values before passing records on.
type RedactingHandler struct {
	handler slog.Handler
}

// NewRedactingHandler wraps handler. A nil handler wraps the default
// logger's handler.
func NewRedactingHandler(handler slog.Handler) *RedactingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactingHandler{handler: handler}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(redacted)}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			redacted[i] = redactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	case slog.KindString:
		if IsSensitiveKey(a.Key) {
			return slog.String(a.Key, MaskValue)
		}
		return slog.String(a.Key, RedactValue(a.Value.String()))
	case slog.KindAny:
		if IsSensitiveKey(a.Key) {
			return slog.String(a.Key, MaskValue)
		}
		if list, ok := a.Value.Any().([]string); ok {
			return slog.Any(a.Key, RedactEnv(list))
		}
		return a
	default:
		if IsSensitiveKey(a.Key) {
			return slog.String(a.Key, MaskValue)
		}
		return a
	}
}

// IsSensitiveKey reports whether an attribute key or variable name names a
// secret.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// RedactValue masks a single value. KEY=VALUE pairs keep their key.
func RedactValue(value string) string {
	if k, _, ok := strings.Cut(value, "="); ok && k != "" && !strings.ContainsAny(k, " \t") {
		if IsSensitiveKey(k) {
			return k + "=" + MaskValue
		}
	}
	for _, p := range sensitivePatterns {
		if p.MatchString(value) {
			return MaskValue
		}
	}
	return value
}

// RedactEnv returns a copy of env with sensitive values masked.
func RedactEnv(env []string) []string {
	out := make([]string, len(env))
	for i, kv := range env {
		out[i] = RedactValue(kv)
	}
	return out
}

// NewLogger creates a redacting logger writing to w. Verbose lowers the
// level from Warn to Debug; jsonOutput selects the JSON handler.
func NewLogger(w io.Writer, verbose, jsonOutput bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(NewRedactingHandler(handler))
}
