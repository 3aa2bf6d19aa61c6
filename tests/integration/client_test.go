//go:build integration
// +build integration

package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/forestclient/internal/http/backend"
	"github.com/GriffinCanCode/forestclient/internal/http/client"
	"github.com/GriffinCanCode/forestclient/internal/http/request"
	"github.com/GriffinCanCode/forestclient/internal/infrastructure/config"
	"github.com/GriffinCanCode/forestclient/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/forestclient/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/forestclient/internal/logging"
)

// flakyServer fails the first n requests with 503
func flakyServer(t *testing.T, n int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var calls atomic.Int32

	router := gin.New()
	router.GET("/leaf", func(c *gin.Context) {
		if calls.Add(1) <= n {
			c.String(http.StatusServiceUnavailable, "wilted")
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=UTF-8", []byte("green"))
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestCircuitBreakerRecovery(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping circuit breaker integration test")
	}

	srv, _ := flakyServer(t, 3)
	cfg := config.Default()
	cfg.Client.MaxRetries = 0
	cfg.Breaker.ConsecutiveFailures = 3
	cfg.Breaker.MaxRequests = 1
	cfg.Breaker.Timeout = config.Duration{Duration: 100 * time.Millisecond}

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)
	c, err := client.New(cfg, logging.NewNop(), metrics)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		resp, err := c.Execute(ctx, request.Get(srv.URL+"/leaf"))
		require.NoError(t, err)
		assert.Equal(t, "wilted", resp.Content())
	}
	require.Equal(t, resilience.StateOpen, c.BreakerState())

	// Requests fail fast while the circuit is open
	resp, err := c.Execute(ctx, request.Get(srv.URL+"/leaf"))
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.True(t, resp.NoResponse())

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, resilience.StateHalfOpen, c.BreakerState())

	// Service recovered: one trial closes the circuit
	resp, err = c.Execute(ctx, request.Get(srv.URL+"/leaf"))
	require.NoError(t, err)
	assert.Equal(t, "green", resp.Content())
	assert.Equal(t, resilience.StateClosed, c.BreakerState())

	assert.Equal(t, 3.0, promtest.ToFloat64(metrics.Responses.WithLabelValues(backend.NetHTTP, "5xx")))
	assert.Equal(t, 0.0, promtest.ToFloat64(metrics.BreakerState.WithLabelValues(client.BreakerName)))
}

func TestRetryableBackendAbsorbsFlakes(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping retry integration test")
	}

	srv, calls := flakyServer(t, 2)
	cfg := config.Default()
	cfg.Client.Backend = backend.RetryableHTTP
	cfg.Client.MaxRetries = 3
	cfg.Client.RetryWaitMin = config.Duration{Duration: time.Millisecond}
	cfg.Client.RetryWaitMax = config.Duration{Duration: 10 * time.Millisecond}

	c, err := client.New(cfg, nil, nil)
	require.NoError(t, err)

	resp, err := c.Execute(context.Background(), request.Get(srv.URL+"/leaf"))
	require.NoError(t, err)

	assert.Equal(t, "green", resp.Content())
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, uint32(1), c.BreakerCounts().TotalSuccesses)
}

func TestRateLimitSpacesRequests(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping rate limit integration test")
	}

	srv, _ := flakyServer(t, 0)
	c, err := client.New(config.Default(), nil, nil)
	require.NoError(t, err)
	c.SetRateLimit(20)

	start := time.Now()
	for i := 0; i < 25; i++ {
		_, err := c.Execute(context.Background(), request.Get(srv.URL+"/leaf"))
		require.NoError(t, err)
	}
	// 20 burst tokens, the remaining 5 wait 50ms each
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}
