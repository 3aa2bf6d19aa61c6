package client

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/forestclient/internal/http/backend"
	"github.com/GriffinCanCode/forestclient/internal/http/backend/nethttp"
	"github.com/GriffinCanCode/forestclient/internal/http/backend/restyclient"
	"github.com/GriffinCanCode/forestclient/internal/http/backend/retryable"
	"github.com/GriffinCanCode/forestclient/internal/http/headers"
	"github.com/GriffinCanCode/forestclient/internal/http/request"
	"github.com/GriffinCanCode/forestclient/internal/http/response"
	"github.com/GriffinCanCode/forestclient/internal/infrastructure/config"
	"github.com/GriffinCanCode/forestclient/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/forestclient/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/forestclient/internal/logging"
)

// BreakerName labels the client's circuit breaker in logs and metrics
const BreakerName = "forest"

// ErrNilRequest is returned when Execute is called without a request
var ErrNilRequest = errors.New("nil request")

// Client dispatches requests to named backends behind a rate limiter and a
// circuit breaker, recording metrics and one log line per exchange
type Client struct {
	registry       *backend.Registry
	transport      backend.Config
	defaultBackend string
	defaults       *headers.Headers

	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  *logging.Logger
	metrics *monitoring.Metrics

	mu sync.RWMutex
}

// New creates a client with the nethttp, resty and retryablehttp backends
// registered. A nil logger discards logs and nil metrics are not recorded.
func New(cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	transport := cfg.Client.Transport()
	c := &Client{
		registry:       backend.NewRegistry(transport),
		transport:      transport,
		defaultBackend: cfg.Client.Backend,
		defaults:       headers.New(2),
		logger:         logger,
		metrics:        metrics,
	}
	if c.defaultBackend == "" {
		c.defaultBackend = backend.NetHTTP
	}

	for name, factory := range map[string]backend.Factory{
		backend.NetHTTP:       nethttp.Factory,
		backend.Resty:         restyclient.Factory,
		backend.RetryableHTTP: retryable.Factory,
	} {
		if err := c.registry.Register(name, factory); err != nil {
			return nil, err
		}
	}
	if !c.registry.Has(c.defaultBackend) {
		return nil, fmt.Errorf("%w: %q", backend.ErrUnknownBackend, c.defaultBackend)
	}

	c.SetRateLimit(cfg.Client.RateLimitRPS)
	if cfg.Breaker.Enabled {
		c.breaker = newBreaker(cfg.Breaker, logger, metrics)
		metrics.SetBreakerState(BreakerName, int(resilience.StateClosed))
	}
	return c, nil
}

func newBreaker(cfg config.BreakerConfig, logger *logging.Logger, metrics *monitoring.Metrics) *resilience.Breaker {
	return resilience.New(BreakerName, resilience.Settings{
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval.Duration,
		Timeout:     cfg.Timeout.Duration,
		ReadyToTrip: func(counts resilience.Counts) bool {
			// Remote endpoints vary in reliability; trip on a long failure
			// streak or a high failure ratio over enough samples
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(counts.Requests >= cfg.MinRequests && counts.FailureRatio() > cfg.FailureRatio)
		},
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Info("circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
			metrics.SetBreakerState(name, int(to))
		},
	})
}

// Register adds a custom backend
func (c *Client) Register(name string, factory backend.Factory) error {
	return c.registry.Register(name, factory)
}

// Backends lists the registered backend names
func (c *Client) Backends() []string {
	return c.registry.Names()
}

// DefaultBackend is used for requests that do not name one
func (c *Client) DefaultBackend() string {
	return c.defaultBackend
}

// Execute sends req through its backend and returns the normalized
// response. When no response arrives the -1 sentinel response is returned
// together with the error, so the result is never nil for a non-nil req.
func (c *Client) Execute(ctx context.Context, req *request.Request) (*response.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	name := req.Backend
	if name == "" {
		name = c.defaultBackend
	}
	log := c.logger.ForBackend(name)

	b, err := c.registry.Get(name)
	if err != nil {
		return c.fail(name, req, err)
	}

	var done func(bool)
	if c.breaker != nil {
		done, err = c.breaker.Allow()
		if err != nil {
			log.Warn("request rejected", zap.String("request_id", req.ID.String()), zap.Error(err))
			return c.fail(name, req, fmt.Errorf("external service unavailable: %w", err))
		}
	}

	if err := c.wait(ctx); err != nil {
		if done != nil {
			// not the endpoint's fault
			done(true)
		}
		return c.fail(name, req, fmt.Errorf("rate limit error: %w", err))
	}

	c.applyDefaults(req)
	timer := monitoring.NewTimer(c.metrics, name)

	resp, err := b.Execute(ctx, req)

	// a body read failure still carries a status line and headers
	var bodyErr *response.BodyError
	received := resp != nil && !resp.NoResponse() && (err == nil || errors.As(err, &bodyErr))
	if done != nil {
		done(received && resp.StatusCode() < 500)
	}

	if !received {
		elapsed := timer.Fail()
		log.Warn("transport failure",
			zap.String("request_id", req.ID.String()),
			zap.String("method", req.Method),
			zap.String("url", req.URL),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		if resp == nil {
			resp = backend.NoResponse(name, c.transport, req, time.Now().Add(-elapsed), err)
		}
		return resp, err
	}

	timer.Stop(resp.StatusClass(), resp.ContentLength())
	exchange := logging.Exchange{
		ID:       req.ID.String(),
		Method:   req.Method,
		URL:      req.URL,
		Status:   resp.StatusCode(),
		Duration: resp.Duration(),
		Length:   resp.ContentLength(),
		Decision: resp.Decision().String(),
	}.Fields()
	if err != nil {
		log.Warn("body read failure", append(exchange, zap.Error(err))...)
		return resp, err
	}
	log.Debug("exchange", exchange...)
	return resp, nil
}

// fail builds the sentinel response for an exchange that never reached
// a backend
func (c *Client) fail(name string, req *request.Request, err error) (*response.Response, error) {
	c.metrics.RecordTransportError(name)
	return backend.NoResponse(name, c.transport, req, time.Now(), err), err
}

func (c *Client) wait(ctx context.Context) error {
	c.mu.RLock()
	limiter := c.limiter
	c.mu.RUnlock()
	return limiter.Wait(ctx)
}

// applyDefaults adds default headers the request does not set itself
func (c *Client) applyDefaults(req *request.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.defaults.Each(func(name, value string) {
		if !req.Headers.Has(name) {
			req.Headers.Add(name, value)
		}
	})
}

// SetHeader sets a default header sent with every request
func (c *Client) SetHeader(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaults.Set(name, value)
}

// RemoveHeader removes a default header
func (c *Client) RemoveHeader(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaults.Del(name)
}

// Headers returns a copy of the default headers
func (c *Client) Headers() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaults.Map()
}

// SetRateLimit configures rate limiting (requests per second); rps <= 0
// removes the limit
func (c *Client) SetRateLimit(rps float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rps <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
		return
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// SetBasicAuth configures basic authentication
func (c *Client) SetBasicAuth(username, password string) {
	c.SetHeader("Authorization", EncodeBasicAuth(username, password))
}

// SetBearerAuth configures bearer token authentication
func (c *Client) SetBearerAuth(token string) {
	c.SetHeader("Authorization", "Bearer "+token)
}

// BreakerState returns the circuit breaker state; closed when disabled
func (c *Client) BreakerState() resilience.State {
	if c.breaker == nil {
		return resilience.StateClosed
	}
	return c.breaker.State()
}

// BreakerCounts returns circuit breaker statistics
func (c *Client) BreakerCounts() resilience.Counts {
	if c.breaker == nil {
		return resilience.Counts{}
	}
	return c.breaker.Counts()
}

// EncodeBasicAuth creates base64 encoded basic auth
func EncodeBasicAuth(username, password string) string {
	auth := username + ":" + password
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(auth))
}
