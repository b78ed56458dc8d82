package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	httpclient "github.com/votechain/metavote/internal/client/http"
	"github.com/votechain/metavote/internal/metrics"
)

var _ httpclient.MetricsCollector = (*metrics.Metrics)(nil)

func TestMetrics_Submissions(t *testing.T) {
	m := metrics.New()

	m.RecordSubmission(metrics.OutcomeAccepted, 120*time.Millisecond)
	m.RecordSubmission(metrics.OutcomeAccepted, 80*time.Millisecond)
	m.RecordSubmission(metrics.OutcomeRejected, 50*time.Millisecond)
	m.RecordRetry()

	count, err := testutil.GatherAndCount(m.Registry(), "metavote_submissions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per outcome")

	count, err = testutil.GatherAndCount(m.Registry(), "metavote_submission_retries_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_HTTPClientCollector(t *testing.T) {
	m := metrics.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	client := httpclient.NewHTTPClient(httpclient.WithBaseURL(server.URL), httpclient.WithMetricsCollector(m))
	resp, err := client.Get(context.Background(), "/addresses")
	require.Error(t, err)
	resp.Body.Close()

	count, err := testutil.GatherAndCount(m.Registry(), "metavote_http_client_request_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.RecordSubmission(metrics.OutcomeBusy, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `metavote_submissions_total{outcome="in_flight"} 1`)
}
