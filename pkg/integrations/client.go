package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	errs "github.com/matzehuels/tubetrend/pkg/errors"
	"github.com/matzehuels/tubetrend/pkg/observability"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Client provides shared HTTP functionality for upstream API clients.
// It applies default headers, optional client-side pacing, and classifies
// every failure into a coded [errs.Error].
type Client struct {
	http    *http.Client
	headers map[string]string
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client. Tests use this to
// point requests at an httptest server.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the per-request timeout of the underlying client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit paces outgoing requests to perSecond with a burst of 1.
// Zero or negative disables pacing.
func WithRateLimit(perSecond float64) Option {
	return WithLimiter(NewLimiter(perSecond))
}

// WithLimiter paces outgoing requests with l. Clients built with the same
// limiter share one request budget. A nil limiter disables pacing.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewLimiter returns a limiter allowing perSecond requests with a burst of
// 1, or nil when perSecond is zero or negative.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// WithHeaders sets headers applied to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) { c.headers = headers }
}

// NewClient creates a Client with [DefaultTimeout] and no pacing.
func NewClient(opts ...Option) *Client {
	c := &Client{http: NewHTTPClient()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is the cause attached to errors for non-2xx responses.
type StatusError struct {
	Status     int    // HTTP status code
	APIMessage string // error.message from a JSON error body, if any
}

func (e *StatusError) Error() string {
	if e.APIMessage != "" {
		return fmt.Sprintf("status %d: %s", e.Status, e.APIMessage)
	}
	return fmt.Sprintf("status %d", e.Status)
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, rawURL string, v any) error {
	body, err := c.doRequest(ctx, rawURL)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errs.Wrap(errs.ErrCodeDecode, err, "decode response")
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "build request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errs.Wrap(errs.ErrCodeTimeout, err, "waiting for request slot")
		}
	}

	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, classifyTransport(err)
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func classifyTransport(err error) error {
	var ne net.Error
	timeout := errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout())

	// *url.Error embeds the request URL, which carries the API key.
	var ue *url.Error
	if errors.As(err, &ue) {
		err = ue.Err
	}
	if timeout {
		return errs.Wrap(errs.ErrCodeTimeout, err, "request timed out")
	}
	return errs.Wrap(errs.ErrCodeNetwork, err, "request failed")
}

// checkStatus maps a non-2xx response to a coded error. The body is read
// only on failure, to pull out error.message.
func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	cause := &StatusError{Status: code, APIMessage: apiErrorMessage(raw)}

	var e *errs.Error
	switch {
	case code == http.StatusUnauthorized:
		e = errs.Wrap(errs.ErrCodeUnauthorized, cause, "API key rejected")
	case code == http.StatusForbidden:
		e = errs.Wrap(errs.ErrCodeForbidden, cause, "API key invalid or quota exceeded")
	case code == http.StatusNotFound:
		e = errs.Wrap(errs.ErrCodeNotFound, cause, "resource not found")
	case code == http.StatusTooManyRequests:
		e = errs.Wrap(errs.ErrCodeRateLimited, cause, "rate limited by upstream")
	default:
		e = errs.Wrap(errs.ErrCodeHTTP, cause, "HTTP %d", code)
	}
	if cause.APIMessage != "" {
		e.Message = cause.APIMessage
	}
	return e.WithStatus(code)
}

// apiErrorMessage extracts error.message from a Google-style JSON error body.
func apiErrorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return ""
	}
	return payload.Error.Message
}
