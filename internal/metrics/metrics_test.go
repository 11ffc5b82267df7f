package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Verdict("REJECTED", "DUPL")
	m.Verdict("REJECTED", "DUPL")
	m.Verdict("ACCEPTED", "")
	m.CallbackAttempt("retry")
	m.EventsPublished(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.verdicts.WithLabelValues("REJECTED", "DUPL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verdicts.WithLabelValues("ACCEPTED", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.callbacks.WithLabelValues("retry")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.eventsPublished))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.QuoteIssued("SGD-THB", "PROVIDED")
		m.Verdict("ACCEPTED", "")
		m.CallbackAttempt("delivered")
		m.RecallTransition("PENDING")
		m.EventsPublished(1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.QuoteIssued("SGD-THB", "PROVIDED")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `nexus_gateway_quotes_issued_total{corridor="SGD-THB",rate_kind="PROVIDED"} 1`)
}
