package httpclient

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leadops/leadctl/internal/log"
)

const (
	// RequestIDHeader correlates a request with its log records and the
	// server's own logs.
	RequestIDHeader = "X-Request-ID"

	logTypeRequest  = "http_request"
	logTypeResponse = "http_response"
	redactedValue   = "[REDACTED]"
	maxLoggedBody   = 4096
)

// Doer sends HTTP requests. *http.Client and *LoggingHTTPClient satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// LoggingHTTPClient wraps an HTTP client to log requests at debug level and
// bodies at trace level
type LoggingHTTPClient struct {
	wrapped *http.Client
	logger  *slog.Logger
}

// NewLoggingHTTPClient creates a new logging HTTP client with the given timeout
func NewLoggingHTTPClient(logger *slog.Logger, timeout time.Duration) *LoggingHTTPClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return NewLoggingHTTPClientWithClient(&http.Client{Timeout: timeout}, logger)
}

// NewLoggingHTTPClientWithClient wraps an existing HTTP client
func NewLoggingHTTPClientWithClient(client *http.Client, logger *slog.Logger) *LoggingHTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LoggingHTTPClient{
		wrapped: client,
		logger:  logger,
	}
}

// Do sends req, tagging it with a request id when it has none
func (c *LoggingHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}

	ctx := req.Context()
	if !c.logger.Enabled(ctx, slog.LevelDebug) {
		return c.wrapped.Do(req)
	}
	trace := c.logger.Enabled(ctx, log.LevelTrace)
	requestID := req.Header.Get(RequestIDHeader)

	c.logRequest(req, requestID, trace)

	start := time.Now()
	resp, err := c.wrapped.Do(req)
	duration := time.Since(start)
	if err != nil {
		attrs := []slog.Attr{
			slog.String("log_type", logTypeResponse),
			slog.String("request_id", requestID),
			slog.String("method", req.Method),
			slog.String("route", req.URL.Path),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		}
		attrs = append(attrs, log.HTTPLogContextAttrs(ctx)...)
		c.logger.LogAttrs(ctx, slog.LevelDebug, "HTTP request failed", attrs...)
		return nil, err
	}

	c.logResponse(req, resp, requestID, duration, trace)
	return resp, nil
}

func (c *LoggingHTTPClient) logRequest(req *http.Request, requestID string, trace bool) {
	attrs := []slog.Attr{
		slog.String("log_type", logTypeRequest),
		slog.String("request_id", requestID),
		slog.String("method", req.Method),
		slog.String("host", req.URL.Host),
		slog.String("route", req.URL.Path),
	}
	attrs = append(attrs, log.HTTPLogContextAttrs(req.Context())...)

	if query := req.URL.Query(); len(query) > 0 {
		params := make(map[string]string, len(query))
		for k, v := range query {
			if isSensitive(k) {
				params[k] = redactedValue
				continue
			}
			params[k] = strings.Join(v, ",")
		}
		attrs = append(attrs, slog.Any("query_params", params))
	}

	if trace {
		attrs = append(attrs, slog.Any("request_headers", redactHeaders(req.Header)))
		if body, ok := peekRequestBody(req); ok {
			attrs = append(attrs, slog.String("request_body", body))
		}
	}

	c.logger.LogAttrs(req.Context(), slog.LevelDebug, "HTTP request", attrs...)
}

func (c *LoggingHTTPClient) logResponse(
	req *http.Request,
	resp *http.Response,
	requestID string,
	duration time.Duration,
	trace bool,
) {
	attrs := []slog.Attr{
		slog.String("log_type", logTypeResponse),
		slog.String("request_id", requestID),
		slog.Int("status_code", resp.StatusCode),
		slog.Duration("duration", duration),
	}
	attrs = append(attrs, log.HTTPLogContextAttrs(req.Context())...)
	if resp.ContentLength > 0 {
		attrs = append(attrs, slog.Int64("content_length", resp.ContentLength))
	}

	if trace {
		attrs = append(attrs, slog.Any("response_headers", redactHeaders(resp.Header)))
		if body, ok := peekResponseBody(resp); ok {
			attrs = append(attrs, slog.String("response_body", body))
		}
	}

	c.logger.LogAttrs(req.Context(), slog.LevelDebug, "HTTP response", attrs...)
}

func isSensitive(name string) bool {
	key := strings.ToLower(name)
	switch key {
	case "authorization", "x-api-key", "set-cookie", "cookie", "password", "secret", "api_key", "apikey":
		return true
	}
	return strings.Contains(key, "token")
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if isSensitive(k) {
			out[k] = redactedValue
			continue
		}
		out[k] = strings.Join(v, ", ")
	}
	return out
}

// peekRequestBody reads the request body and restores it for the transport
func peekRequestBody(req *http.Request) (string, bool) {
	if req.Body == nil || req.Body == http.NoBody {
		return "", false
	}
	data, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil || len(data) == 0 {
		return "", false
	}
	return redactBody(data), true
}

// peekResponseBody reads the response body without consuming it
func peekResponseBody(resp *http.Response) (string, bool) {
	if resp.Body == nil {
		return "", false
	}
	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil || len(data) == 0 {
		return "", false
	}
	return redactBody(data), true
}

func redactBody(data []byte) string {
	var payload any
	if err := json.Unmarshal(data, &payload); err == nil {
		if redacted, err := json.Marshal(redactJSON(payload)); err == nil {
			data = redacted
		}
	}
	if len(data) > maxLoggedBody {
		return string(data[:maxLoggedBody]) + "... [truncated]"
	}
	return string(data)
}

func redactJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if isSensitive(k) {
				t[k] = redactedValue
				continue
			}
			t[k] = redactJSON(child)
		}
		return t
	case []any:
		for i, child := range t {
			t[i] = redactJSON(child)
		}
		return t
	default:
		return v
	}
}
