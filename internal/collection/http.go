package collection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ajg/form"

	"github.com/leadops/leadctl/internal/grid"
	"github.com/leadops/leadctl/internal/httpclient"
	"github.com/leadops/leadctl/internal/log"
)

// ErrStatus matches every *StatusError with errors.Is.
var ErrStatus = errors.New("unexpected response status")

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
	// RetryAfter is the server's Retry-After hint, zero when absent.
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrStatus, e.Status)
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}
	return msg
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// Retryable reports whether the request may succeed when repeated.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// RetryPolicy bounds the retries of a failed fetch.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy makes three attempts, waiting 200ms then 400ms.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:    3,
	InitialBackoff: 200 * time.Millisecond,
	MaxBackoff:     2 * time.Second,
}

// Backoff is the wait after the given failed attempt, starting at 1.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if p.InitialBackoff <= 0 {
		return 0
	}
	d := float64(p.InitialBackoff) * math.Pow(2, float64(max(attempt, 1)-1))
	if p.MaxBackoff > 0 && d > float64(p.MaxBackoff) {
		return p.MaxBackoff
	}
	return time.Duration(d)
}

func (p RetryPolicy) attempts() int {
	return max(p.MaxAttempts, 1)
}

// HTTPFetcher loads a collection from GET {base}/{resource}.
type HTTPFetcher struct {
	endpoint *url.URL
	client   httpclient.Doer
	retry    RetryPolicy
	logger   *slog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// HTTPOption configures an HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithRetryPolicy replaces DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) HTTPOption {
	return func(f *HTTPFetcher) { f.retry = p }
}

// WithLogger sets the logger for retry diagnostics.
func WithLogger(l *slog.Logger) HTTPOption {
	return func(f *HTTPFetcher) { f.logger = l }
}

// NewHTTPFetcher returns a fetcher for resource below baseURL. A nil client
// uses http.DefaultClient.
func NewHTTPFetcher(baseURL, resource string, client httpclient.Doer, opts ...HTTPOption) (*HTTPFetcher, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	resource = strings.Trim(resource, "/")
	if resource == "" {
		return nil, errors.New("resource must not be empty")
	}
	if client == nil {
		client = http.DefaultClient
	}

	f := &HTTPFetcher{
		endpoint: base.JoinPath(resource),
		client:   client,
		retry:    DefaultRetryPolicy,
		logger:   slog.New(slog.DiscardHandler),
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Endpoint is the collection URL without a query.
func (f *HTTPFetcher) Endpoint() string {
	return f.endpoint.String()
}

type queryParams struct {
	Page   int    `form:"page"`
	Limit  string `form:"limit"`
	Search string `form:"search,omitempty"`
}

// Query encodes p as the request query: page, limit, search and one
// filter[key]=value pair per filter.
func Query(p Params) (url.Values, error) {
	limit := p.Limit
	if !limit.Valid() {
		limit = grid.DefaultPageSizes[0]
	}
	values, err := form.EncodeToValues(queryParams{
		Page:   max(p.Page, 1),
		Limit:  limit.String(),
		Search: p.Search,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}
	keys := make([]string, 0, len(p.Filters))
	for k := range p.Filters {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		values.Set("filter["+k+"]", p.Filters[k])
	}
	return values, nil
}

// Fetch requests one page, retrying transport errors, 429 and 5xx responses
// within the retry policy. Schema errors, other statuses and context
// cancellation end the fetch immediately.
func (f *HTTPFetcher) Fetch(ctx context.Context, p Params) (Result, error) {
	query, err := Query(p)
	if err != nil {
		return Result{}, err
	}
	target := *f.endpoint
	target.RawQuery = query.Encode()

	attempts := f.retry.attempts()
	for attempt := 1; ; attempt++ {
		res, err := f.fetchOnce(ctx, target.String())
		if err == nil {
			return res, nil
		}
		if attempt >= attempts || !retryable(ctx, err) {
			return Result{}, err
		}

		wait := f.retry.Backoff(attempt)
		var se *StatusError
		if errors.As(err, &se) && se.RetryAfter > 0 {
			wait = se.RetryAfter
			if f.retry.MaxBackoff > 0 {
				wait = min(wait, f.retry.MaxBackoff)
			}
		}
		f.logger.LogAttrs(ctx, slog.LevelDebug, "retrying fetch",
			append(log.HTTPLogContextAttrs(ctx),
				slog.String("url", target.String()),
				slog.Int("attempt", attempt),
				slog.Duration("backoff", wait),
				slog.String("error", err.Error()),
			)...)
		if err := f.sleep(ctx, wait); err != nil {
			return Result{}, err
		}
	}
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, target string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Result{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Result{}, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return Decode(resp.Body)
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if IsSchemaError(err) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return true
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
