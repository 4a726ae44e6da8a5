// Package observability provides structured logging for blockfront.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/m-mizutani/masq"

	"github.com/jmylchreest/blockfront/internal/config"
)

// LevelTrace is below debug and logs upstream payload details.
const LevelTrace = slog.Level(-8)

// RedactedValue replaces secrets in log output.
const RedactedValue = "[REDACTED]"

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"
	// SiteKey is the context key for the site serving a request.
	SiteKey contextKey = "site"
	// LocaleKey is the context key for the request locale.
	LocaleKey contextKey = "locale"

	loggerKey contextKey = "logger"
)

// sensitiveFields are attribute names whose values never reach the log.
var sensitiveFields = []string{
	"password", "secret", "token", "apikey", "api_key", "credential",
	"storefront_token", "builder_api_key", "access_token",
}

// sensitiveParam matches secret query parameters inside logged URLs.
var sensitiveParam = regexp.MustCompile(`(?i)([?&](?:password|secret|token|apikey|api_key|credential|access_token)=)[^&#\s"]*`)

// NewLogger creates a new slog.Logger based on the provided configuration.
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	return NewLoggerWithWriter(cfg, os.Stdout)
}

// NewLoggerWithWriter creates a new slog.Logger that writes to w.
// Request-scoped values stored with ContextWithRequestID, ContextWithSite and
// ContextWithLocale are added to records logged with a context.
func NewLoggerWithWriter(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	redact := masq.New(redactOptions()...)

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch {
			case a.Key == slog.TimeKey && len(groups) == 0 && cfg.TimeFormat != "":
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.String(slog.TimeKey, t.Format(cfg.TimeFormat))
				}
			case a.Key == slog.LevelKey && len(groups) == 0:
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl <= LevelTrace {
					return slog.String(slog.LevelKey, "TRACE")
				}
				return a
			}
			if a.Value.Kind() == slog.KindString {
				if s := a.Value.String(); strings.Contains(s, "=") {
					a.Value = slog.StringValue(RedactURL(s))
				}
			}
			return redact(groups, a)
		},
	}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(&contextHandler{Handler: handler})
}

func redactOptions() []masq.Option {
	opts := []masq.Option{
		masq.WithTag("secret"),
		masq.WithRedactMessage(RedactedValue),
	}
	for _, name := range sensitiveFields {
		for _, variant := range nameVariants(name) {
			opts = append(opts, masq.WithFieldName(variant))
		}
	}
	return opts
}

// Redact returns a copy of v with secret fields masked the way they are
// masked in log records. v is returned unchanged when it holds nothing to
// mask.
func Redact(v any) any {
	return masq.New(redactOptions()...)(nil, slog.Any("value", v)).Value.Any()
}

// nameVariants returns the spellings a field is likely to be logged under.
func nameVariants(name string) []string {
	camel := name
	if i := strings.IndexByte(name, '_'); i > 0 && i < len(name)-1 {
		camel = name[:i] + strings.ToUpper(name[i+1:i+2]) + name[i+2:]
	}
	title := strings.ToUpper(camel[:1]) + camel[1:]
	if name == "apikey" {
		title = "ApiKey"
	}
	return []string{name, camel, title, strings.ToUpper(name)}
}

// RedactURL masks secret query parameter values in s.
func RedactURL(s string) string {
	return sensitiveParam.ReplaceAllString(s, "${1}"+RedactedValue)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch level {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// contextHandler copies request-scoped values from the context onto records.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if id := RequestIDFromContext(ctx); id != "" {
			r.AddAttrs(slog.String(string(RequestIDKey), id))
		}
		if site := SiteFromContext(ctx); site != "" {
			r.AddAttrs(slog.String(string(SiteKey), site))
		}
		if locale := LocaleFromContext(ctx); locale != "" {
			r.AddAttrs(slog.String(string(LocaleKey), locale))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}

// WithComponent adds a component name to the logger for identifying the source.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String("component", component))
}

// WithOperation adds an operation name to the logger.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String("operation", operation))
}

// WithError adds an error to the logger attributes.
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With(slog.String("error", err.Error()))
}

// LoggerFromContext extracts a logger from the context.
// If no logger is found, returns the default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// ContextWithLogger adds a logger to the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// RequestIDFromContext extracts a request ID from the context.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// ContextWithRequestID adds a request ID to the context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// SiteFromContext returns the site ID stored by ContextWithSite.
func SiteFromContext(ctx context.Context) string {
	id, _ := ctx.Value(SiteKey).(string)
	return id
}

// ContextWithSite records the site serving the request.
func ContextWithSite(ctx context.Context, siteID string) context.Context {
	return context.WithValue(ctx, SiteKey, siteID)
}

// LocaleFromContext returns the locale stored by ContextWithLocale.
func LocaleFromContext(ctx context.Context) string {
	l, _ := ctx.Value(LocaleKey).(string)
	return l
}

// ContextWithLocale records the request locale.
func ContextWithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, LocaleKey, locale)
}

// SetDefault sets the provided logger as the default slog logger.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}

// TimedOperationWithError logs the start and end of an operation. The error
// pointer is read when the returned function runs, so it sees errors
// assigned after this call.
//
// Usage:
//
//	var err error
//	done := observability.TimedOperationWithError(ctx, logger, "warm_cache", &err)
//	defer done()
//	err = doSomething()
//
//nolint:gocritic // errPtr must be a pointer to capture errors set after this call
func TimedOperationWithError(ctx context.Context, logger *slog.Logger, operation string, errPtr *error) func() {
	start := time.Now()
	logger.DebugContext(ctx, "operation started", slog.String("operation", operation))

	return func() {
		duration := time.Since(start)
		if errPtr != nil && *errPtr != nil {
			logger.ErrorContext(ctx, "operation failed",
				slog.String("operation", operation),
				slog.Duration("duration", duration),
				slog.String("error", (*errPtr).Error()),
			)
			return
		}
		logger.InfoContext(ctx, "operation completed",
			slog.String("operation", operation),
			slog.Duration("duration", duration),
		)
	}
}
