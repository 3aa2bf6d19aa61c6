package monitoring

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordResponse(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordResponse("nethttp", "2xx", 10*time.Millisecond, 42)
	m.RecordResponse("nethttp", "2xx", 20*time.Millisecond, -1)
	m.RecordResponse("resty", "other", time.Millisecond, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Responses.WithLabelValues("nethttp", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Responses.WithLabelValues("resty", "other")))

	count, err := testutil.GatherAndCount(reg, "forest_response_body_bytes")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTimer(t *testing.T) {
	m := NewMetrics(nil)

	NewTimer(m, "retryablehttp").Fail()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransportErrors.WithLabelValues("retryablehttp")))

	d := NewTimer(m, "retryablehttp").Stop("none", 0)
	assert.GreaterOrEqual(t, d, time.Duration(0))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordResponse("x", "2xx", time.Second, 1)
		m.RecordTransportError("x")
		m.SetBreakerState("x", 2)
	})
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.SetBreakerState("forest", 2)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))
	assert.Contains(t, buf.String(), `forest_breaker_state{name="forest"} 2`)
}
