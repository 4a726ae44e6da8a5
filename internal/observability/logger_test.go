package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/blockfront/internal/config"
)

func newTestLogger(level string) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLoggerWithWriter(config.LoggingConfig{Level: level, Format: "json"}, &buf), &buf
}

func TestNewLogger_JSONFormat(t *testing.T) {
	logger, buf := newTestLogger("info")
	logger.Info("test message", slog.String("key", "value"))

	assert.Contains(t, buf.String(), `"key":"value"`)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(config.LoggingConfig{Level: "info", Format: "text"}, &buf)
	logger.Info("test message", slog.String("key", "value"))

	assert.Contains(t, buf.String(), "key=value")
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		configLevel string
		logLevel    slog.Level
		shouldLog   bool
	}{
		{"trace", LevelTrace, true},
		{"debug", LevelTrace, false},
		{"debug", slog.LevelDebug, true},
		{"info", slog.LevelDebug, false},
		{"info", slog.LevelInfo, true},
		{"warn", slog.LevelInfo, false},
		{"error", slog.LevelWarn, false},
		{"error", slog.LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.configLevel+"/"+tt.logLevel.String(), func(t *testing.T) {
			logger, buf := newTestLogger(tt.configLevel)
			logger.Log(context.Background(), tt.logLevel, "test")
			assert.Equal(t, tt.shouldLog, buf.Len() > 0)
		})
	}
}

func TestTraceLevelDisplay(t *testing.T) {
	logger, buf := newTestLogger("trace")
	logger.Log(context.Background(), LevelTrace, "trace message")

	assert.Contains(t, buf.String(), `"level":"TRACE"`)
	assert.NotContains(t, buf.String(), "DEBUG-4")
}

func TestContextValuesAreLogged(t *testing.T) {
	logger, buf := newTestLogger("info")

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithSite(ctx, "uk")
	ctx = ContextWithLocale(ctx, "de")
	WithComponent(logger, "pages").InfoContext(ctx, "rendered")

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "req-1", parsed["request_id"])
	assert.Equal(t, "uk", parsed["site"])
	assert.Equal(t, "de", parsed["locale"])
	assert.Equal(t, "pages", parsed["component"])
}

func TestContextAccessors_Empty(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, SiteFromContext(ctx))
	assert.Empty(t, LocaleFromContext(ctx))
	assert.Equal(t, slog.Default(), LoggerFromContext(ctx))

	logger, _ := newTestLogger("info")
	assert.Equal(t, logger, LoggerFromContext(ContextWithLogger(ctx, logger)))
}

func TestWithError(t *testing.T) {
	logger, buf := newTestLogger("info")
	WithError(logger, errors.New("boom")).Info("failed")
	assert.Contains(t, buf.String(), `"error":"boom"`)

	assert.Same(t, logger, WithError(logger, nil))
}

func TestTimedOperationWithError(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		logger, buf := newTestLogger("info")
		var err error
		done := TimedOperationWithError(context.Background(), logger, "warm", &err)
		done()
		assert.Contains(t, buf.String(), "operation completed")
	})

	t.Run("failure", func(t *testing.T) {
		logger, buf := newTestLogger("info")
		var err error
		done := TimedOperationWithError(context.Background(), logger, "warm", &err)
		err = errors.New("upstream down")
		done()
		assert.Contains(t, buf.String(), "operation failed")
		assert.Contains(t, buf.String(), "upstream down")
	})
}

func TestSensitiveFieldRedaction(t *testing.T) {
	tests := []struct {
		field string
		value string
	}{
		{"password", "secret123"},
		{"Password", "MyP@ssw0rd"},
		{"secret", "topsecret"},
		{"token", "jwt-token-abc"},
		{"Token", "Bearer xyz"},
		{"apikey", "ak_12345"},
		{"ApiKey", "AK_67890"},
		{"api_key", "api-key-value"},
		{"apiKey", "camel-value"},
		{"storefront_token", "shpat_123"},
		{"credential", "cred-abc"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			logger, buf := newTestLogger("info")
			logger.Info("test message", slog.String(tt.field, tt.value))

			assert.NotContains(t, buf.String(), tt.value)
			assert.Contains(t, buf.String(), RedactedValue)
		})
	}
}

func TestSensitiveFieldRedaction_Group(t *testing.T) {
	logger, buf := newTestLogger("info")
	logger.Info("test with group",
		slog.Group("credentials",
			slog.String("username", "admin"),
			slog.String("password", "secret123"),
		),
	)

	assert.Contains(t, buf.String(), "admin")
	assert.NotContains(t, buf.String(), "secret123")
}

func TestSensitiveFieldRedaction_Tagged(t *testing.T) {
	logger, buf := newTestLogger("info")
	logger.Info("site loaded", slog.Any("site", config.SiteConfig{ID: "uk", BuilderAPIKey: "bpk-123"}))

	assert.Contains(t, buf.String(), "uk")
	assert.NotContains(t, buf.String(), "bpk-123")
}

func TestRedact(t *testing.T) {
	out, ok := Redact(config.DatabaseConfig{Driver: "postgres", DSN: "postgres://app:pw@db/blockfront"}).(config.DatabaseConfig)
	require.True(t, ok)
	assert.Equal(t, "postgres", out.Driver)
	assert.Equal(t, RedactedValue, out.DSN)
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			"https://cdn.builder.io/api/v3/content/page?apiKey=abc123&limit=1",
			"https://cdn.builder.io/api/v3/content/page?apiKey=[REDACTED]&limit=1",
		},
		{
			"http://example.com/webhook?secret=value",
			"http://example.com/webhook?secret=[REDACTED]",
		},
		{
			"http://example.com/api?PASSWORD=MySecret&user=test",
			"http://example.com/api?PASSWORD=[REDACTED]&user=test",
		},
		{
			"http://example.com/api?username=john&page=1",
			"http://example.com/api?username=john&page=1",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactURL(tt.in))
	}

	logger, buf := newTestLogger("info")
	logger.Info("request", slog.String("url", tests[0].in))
	assert.NotContains(t, buf.String(), "abc123")
	assert.Contains(t, buf.String(), "limit=1")
}
