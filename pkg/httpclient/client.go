// Package httpclient provides the outbound HTTP client used for the page
// builder, storefront and image fetches. Requests pass through a per-service
// circuit breaker, retry on transient statuses with exponential backoff and
// have their bodies transparently decompressed.
package httpclient

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

// Common errors returned by the client.
var (
	ErrCircuitOpen      = errors.New("circuit breaker is open")
	ErrMaxRetries       = errors.New("max retries exceeded")
	ErrResponseTooLarge = errors.New("response body exceeds maximum size limit")
)

// Default configuration values.
const (
	DefaultTimeout           = 15 * time.Second
	DefaultRetryAttempts     = 2
	DefaultRetryDelay        = 500 * time.Millisecond
	DefaultRetryMaxDelay     = 10 * time.Second
	DefaultBackoffMultiplier = 2.0
	DefaultUserAgent         = "blockfront-httpclient/1.0"

	acceptEncoding = "gzip, deflate, br"
)

// Config holds per-client request settings. Breaker settings live in Profile.
type Config struct {
	Timeout           time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
	RetryMaxDelay     time.Duration
	BackoffMultiplier float64
	UserAgent         string
	Logger            *slog.Logger

	// MaxResponseSize caps the decompressed body size. Zero disables the cap.
	MaxResponseSize int64

	// BaseClient overrides the underlying client. Its Timeout is left as is.
	BaseClient *http.Client
}

// DefaultConfig returns a Config with the package defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:           DefaultTimeout,
		RetryAttempts:     DefaultRetryAttempts,
		RetryDelay:        DefaultRetryDelay,
		RetryMaxDelay:     DefaultRetryMaxDelay,
		BackoffMultiplier: DefaultBackoffMultiplier,
		UserAgent:         DefaultUserAgent,
	}
}

// Client is a resilient HTTP client bound to one circuit breaker.
type Client struct {
	config  Config
	client  *http.Client
	breaker *CircuitBreaker
	logger  *slog.Logger
}

// New creates a client. A nil breaker gets a private breaker with the default profile.
func New(cfg Config, breaker *CircuitBreaker) *Client {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.BackoffMultiplier < 1 {
		cfg.BackoffMultiplier = DefaultBackoffMultiplier
	}
	if cfg.RetryMaxDelay <= 0 {
		cfg.RetryMaxDelay = DefaultRetryMaxDelay
	}
	base := cfg.BaseClient
	if base == nil {
		base = &http.Client{Timeout: cfg.Timeout}
	}
	if breaker == nil {
		breaker = NewCircuitBreaker(DefaultProfile())
	}
	return &Client{config: cfg, client: base, breaker: breaker, logger: cfg.Logger}
}

// Do sends req, retrying on transport errors and on 429, 502, 503 and 504.
// Request bodies are replayed through req.GetBody, so retried requests must
// be built with http.NewRequest from a rewindable reader.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if req.Header.Get("User-Agent") == "" && c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	if req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}

	target := req.URL.Redacted()
	delay := c.config.RetryDelay
	var lastErr error

	for attempt := 0; attempt <= c.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			c.logger.DebugContext(ctx, "retrying request",
				slog.String("url", target),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay = min(time.Duration(float64(delay)*c.config.BackoffMultiplier), c.config.RetryMaxDelay)

			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("rewinding request body: %w", err)
				}
				req.Body = body
			}
		}

		if !c.breaker.Allow() {
			c.logger.WarnContext(ctx, "circuit breaker open, skipping request",
				slog.String("url", target),
				slog.String("state", c.breaker.State().String()),
			)
			return nil, ErrCircuitOpen
		}

		start := time.Now()
		resp, err := c.client.Do(req)
		elapsed := time.Since(start)

		if err != nil {
			c.breaker.RecordFailure()
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil, err
			}
			lastErr = err
			c.logger.WarnContext(ctx, "request failed",
				slog.String("method", req.Method),
				slog.String("url", target),
				slog.Duration("duration", elapsed),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			continue
		}

		if isRetryableStatus(resp.StatusCode) {
			c.breaker.RecordFailure()
			lastErr = fmt.Errorf("retryable status code: %d", resp.StatusCode)
			c.logger.WarnContext(ctx, "retryable status code",
				slog.String("method", req.Method),
				slog.String("url", target),
				slog.Int("status", resp.StatusCode),
				slog.Int("attempt", attempt),
			)
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			continue
		}

		if c.breaker.Acceptable(resp.StatusCode) {
			c.breaker.RecordSuccess()
		} else {
			c.breaker.RecordFailure()
		}
		c.logger.DebugContext(ctx, "request completed",
			slog.String("method", req.Method),
			slog.String("url", target),
			slog.Int("status", resp.StatusCode),
			slog.Duration("duration", elapsed),
		)

		resp.Body = c.decompress(resp)
		if c.config.MaxResponseSize > 0 {
			resp.Body = &limitedReader{rc: resp.Body, remaining: c.config.MaxResponseSize}
		}
		return resp, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrMaxRetries, lastErr)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.Do(req)
}

// PostJSON POSTs body as application/json with the extra headers set.
func (c *Client) PostJSON(ctx context.Context, url string, body []byte, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.Do(req)
}

// State returns the state of the client's circuit breaker.
func (c *Client) State() CircuitState {
	return c.breaker.State()
}

// Breaker returns the client's circuit breaker.
func (c *Client) Breaker() *CircuitBreaker {
	return c.breaker
}

func (c *Client) decompress(resp *http.Response) io.ReadCloser {
	var r io.Reader
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "":
		return resp.Body
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			c.logger.Warn("failed to create gzip reader, returning raw body", slog.String("error", err.Error()))
			return resp.Body
		}
		r = gz
	case "deflate":
		r = flate.NewReader(resp.Body)
	case "br":
		r = brotli.NewReader(resp.Body)
	default:
		return resp.Body
	}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	return &decompressReader{r: r, body: resp.Body}
}

type decompressReader struct {
	r    io.Reader
	body io.Closer
}

func (d *decompressReader) Read(p []byte) (int, error) { return d.r.Read(p) }

func (d *decompressReader) Close() error {
	if c, ok := d.r.(io.Closer); ok {
		_ = c.Close()
	}
	return d.body.Close()
}

// limitedReader fails with ErrResponseTooLarge once more than remaining bytes are read.
type limitedReader struct {
	rc        io.ReadCloser
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrResponseTooLarge
	}
	n, err := l.rc.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrResponseTooLarge
	}
	return n, err
}

func (l *limitedReader) Close() error { return l.rc.Close() }

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
