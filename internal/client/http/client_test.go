package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCollector struct {
	mu       sync.Mutex
	counts   []int
	failures int
}

func (r *recordingCollector) RecordRequestDuration(string, string, int, time.Duration) {}

func (r *recordingCollector) RecordRequestCount(_, _ string, statusCode int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, statusCode)
}

func (r *recordingCollector) RecordRequestError(string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func TestHTTPClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/relay", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tx_hash":"0xabc"}`))
	}))
	defer server.Close()

	collector := &recordingCollector{}
	client := NewHTTPClient(WithBaseURL(server.URL+"/"), WithMetricsCollector(collector))

	resp, err := client.Post(context.Background(), "relay", map[string]string{"a": "b"})
	require.NoError(t, err)

	var body struct {
		TxHash string `json:"tx_hash"`
	}
	require.NoError(t, client.ProcessJSONResponse(resp, &body))
	assert.Equal(t, "0xabc", body.TxHash)
	assert.Equal(t, []int{200}, collector.counts)
	assert.Zero(t, collector.failures)
}

func TestHTTPClient_NonSuccessStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"busy"}`))
	}))
	defer server.Close()

	collector := &recordingCollector{}
	client := NewHTTPClient(WithBaseURL(server.URL), WithMetricsCollector(collector))

	resp, err := client.Get(context.Background(), "/addresses")
	require.Error(t, err)
	require.NotNil(t, resp)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, `{"message":"busy"}`, httpErr.Body)
	assert.Equal(t, int32(1), calls.Load(), "the client must not retry")
	assert.Equal(t, 1, collector.failures)
}

func TestHTTPClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewHTTPClient(WithBaseURL(url), WithTimeout(time.Second))
	_, err := client.Get(context.Background(), "/addresses")

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.MethodGet, transportErr.Method)
}

func TestHTTPClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewHTTPClient(WithBaseURL(server.URL), WithTimeout(50*time.Millisecond))
	_, err := client.Get(context.Background(), "/slow")

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestHTTPClient_MiddlewareAndQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("topic_id"))
		assert.Equal(t, "yes", r.Header.Get("X-Wrapped"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	wrap := func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			req.Header.Set("X-Wrapped", "yes")
			return next.RoundTrip(req)
		})
	}

	client := NewHTTPClient(
		WithBaseURL(server.URL),
		WithMiddleware(LoggingMiddleware()),
		WithMiddleware(wrap),
	)
	resp, err := client.Get(context.Background(), "/votes", WithQueryParam("topic_id", "3"))
	require.NoError(t, err)
	resp.Body.Close()
}

func TestHTTPClient_InvalidPathWithoutBaseURL(t *testing.T) {
	client := NewHTTPClient()
	_, err := client.Get(context.Background(), "relay")
	require.Error(t, err)

	var transportErr *TransportError
	assert.False(t, errors.As(err, &transportErr))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

type ctxKey struct{}

func TestHTTPClient_ContextHeader(t *testing.T) {
	var seen []string
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("X-Correlation-ID"))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewHTTPClient(
		WithBaseURL(server.URL),
		WithContextHeader("X-Correlation-ID", func(ctx context.Context) string {
			id, _ := ctx.Value(ctxKey{}).(string)
			return id
		}),
	)

	resp, err := client.Get(context.WithValue(context.Background(), ctxKey{}, "vote-42"), "/addresses")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.Get(context.Background(), "/addresses")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []string{"vote-42", ""}, seen)
}
