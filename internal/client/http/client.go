package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/votechain/metavote/internal/logger"
	"go.uber.org/zap"
)

// maxErrorBodySize caps how much of an error response is kept for diagnostics.
const maxErrorBodySize = 64 << 10

// RequestOption represents a function that can modify an HTTP request
type RequestOption func(*http.Request)

// ClientOption represents a function that can modify the HTTP client
type ClientOption func(*HTTPClient)

// Middleware represents a function that wraps an http.RoundTripper
type Middleware func(http.RoundTripper) http.RoundTripper

// ContextValue extracts a header value from a request context.
type ContextValue func(ctx context.Context) string

// HTTPError is a non-2xx answer. Body holds at most 64 KiB of the response.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
	Method     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d %s: %s", e.Method, e.URL, e.StatusCode, e.Status, e.Body)
}

// TransportError is a request that never produced a response, for example a
// refused connection or an expired deadline.
type TransportError struct {
	URL    string
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPClient is a JSON client bound to one base URL. Every call is a single
// attempt; callers own their retry policy.
type HTTPClient struct {
	httpClient     *http.Client
	baseURL        string
	headers        http.Header
	contextHeaders map[string]ContextValue
	middlewares    []Middleware
	metrics        MetricsCollector
}

// MetricsCollector receives one observation per request.
type MetricsCollector interface {
	RecordRequestDuration(method, path string, statusCode int, duration time.Duration)
	RecordRequestCount(method, path string, statusCode int)
	RecordRequestError(method, path string)
}

// NewHTTPClient creates a new HTTPClient with the given options
func NewHTTPClient(options ...ClientOption) *HTTPClient {
	client := &HTTPClient{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		headers:        http.Header{},
		contextHeaders: map[string]ContextValue{},
		metrics:        NoopMetricsCollector{},
	}
	client.headers.Set("Content-Type", "application/json")
	client.headers.Set("Accept", "application/json")

	for _, option := range options {
		option(client)
	}

	if len(client.middlewares) > 0 {
		transport := client.httpClient.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}
		// The first middleware registered ends up outermost.
		for i := len(client.middlewares) - 1; i >= 0; i-- {
			transport = client.middlewares[i](transport)
		}
		client.httpClient.Transport = transport
	}

	return client
}

// WithBaseURL sets the base URL for all requests
func WithBaseURL(baseURL string) ClientOption {
	return func(c *HTTPClient) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithTimeout sets the timeout for all requests
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *HTTPClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithMiddleware adds a middleware to the client
func WithMiddleware(middleware Middleware) ClientOption {
	return func(c *HTTPClient) {
		c.middlewares = append(c.middlewares, middleware)
	}
}

// WithMetricsCollector sets the metrics collector
func WithMetricsCollector(collector MetricsCollector) ClientOption {
	return func(c *HTTPClient) {
		if collector != nil {
			c.metrics = collector
		}
	}
}

// WithContextHeader sets header on every request to value(ctx) when that is
// non-empty. It carries correlation IDs to downstream services.
func WithContextHeader(header string, value ContextValue) ClientOption {
	return func(c *HTTPClient) {
		if value != nil {
			c.contextHeaders[header] = value
		}
	}
}

// WithQueryParam adds a query parameter to the request
func WithQueryParam(key, value string) RequestOption {
	return func(req *http.Request) {
		q := req.URL.Query()
		q.Add(key, value)
		req.URL.RawQuery = q.Encode()
	}
}

// Get performs an HTTP GET request
func (c *HTTPClient) Get(ctx context.Context, path string, options ...RequestOption) (*http.Response, error) {
	return c.DoRequest(ctx, http.MethodGet, path, nil, options...)
}

// Post performs an HTTP POST request with a JSON body
func (c *HTTPClient) Post(ctx context.Context, path string, body interface{}, options ...RequestOption) (*http.Response, error) {
	return c.DoRequest(ctx, http.MethodPost, path, body, options...)
}

// DoRequest sends one request. A non-2xx answer yields the response, its
// body still readable, together with an *HTTPError. A transport failure
// yields a *TransportError and no response.
func (c *HTTPClient) DoRequest(ctx context.Context, method, path string, body interface{}, options ...RequestOption) (*http.Response, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	for _, option := range options {
		option(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	log := logger.Log.With(
		zap.String("method", method),
		zap.String("url", req.URL.String()),
		zap.Duration("duration", duration),
	)

	if err != nil {
		c.observe(method, path, 0, duration, true)
		log.Error("HTTP request failed", zap.Error(err))
		return nil, &TransportError{URL: req.URL.String(), Method: method, Err: err}
	}

	failed := !isSuccess(resp.StatusCode)
	c.observe(method, path, resp.StatusCode, duration, failed)
	if !failed {
		log.Debug("HTTP request successful", zap.Int("status", resp.StatusCode))
		return resp, nil
	}

	httpErr := bufferError(resp, req)
	log.Warn("HTTP error response",
		zap.Int("status", resp.StatusCode),
		zap.String("body", httpErr.Body),
	)
	return resp, httpErr
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	fullURL, err := c.resolveURL(path)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range c.headers {
		req.Header[key] = append([]string(nil), values...)
	}
	for header, value := range c.contextHeaders {
		if v := value(ctx); v != "" {
			req.Header.Set(header, v)
		}
	}
	return req, nil
}

func (c *HTTPClient) observe(method, path string, statusCode int, duration time.Duration, failed bool) {
	c.metrics.RecordRequestDuration(method, path, statusCode, duration)
	c.metrics.RecordRequestCount(method, path, statusCode)
	if failed {
		c.metrics.RecordRequestError(method, path)
	}
}

// bufferError reads a bounded copy of the error body and puts it back on resp.
func bufferError(resp *http.Response, req *http.Request) *HTTPError {
	var raw []byte
	if resp.Body != nil {
		raw, _ = io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(raw))
	}
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		URL:        req.URL.String(),
		Method:     req.Method,
		Body:       string(raw),
	}
}

func (c *HTTPClient) resolveURL(path string) (string, error) {
	if c.baseURL == "" {
		if _, err := url.ParseRequestURI(path); err != nil {
			return "", fmt.Errorf("invalid path used without base URL: %s, error: %w", path, err)
		}
		return path, nil
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path, nil
}

// ProcessJSONResponse decodes a successful response into target and closes
// the body.
func (c *HTTPClient) ProcessJSONResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return bufferError(resp, resp.Request)
	}
	return json.NewDecoder(resp.Body).Decode(target)
}

// GetBaseURL returns the configured base URL
func (c *HTTPClient) GetBaseURL() string {
	return c.baseURL
}

func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// NoopMetricsCollector discards observations.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRequestDuration(string, string, int, time.Duration) {}
func (NoopMetricsCollector) RecordRequestCount(string, string, int)                  {}
func (NoopMetricsCollector) RecordRequestError(string, string)                       {}

// LoggingMiddleware logs every round trip at debug level.
func LoggingMiddleware() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("url", req.URL.String()),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				logger.Log.Debug("HTTP round trip failed", append(fields, zap.Error(err))...)
				return resp, err
			}
			logger.Log.Debug("HTTP response received", append(fields, zap.Int("status", resp.StatusCode))...)
			return resp, nil
		})
	}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }
