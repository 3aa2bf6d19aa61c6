// Package retryable is the hashicorp/go-retryablehttp transport backend.
//
// Server errors are retried with backoff; once retries are exhausted the
// last response is passed through and normalized like any other, so a
// persistent 5xx still reaches the caller with its body.
package retryable

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/GriffinCanCode/forestclient/internal/http/backend"
	"github.com/GriffinCanCode/forestclient/internal/http/request"
	"github.com/GriffinCanCode/forestclient/internal/http/response"
)

// Backend executes requests through a retryablehttp.Client
type Backend struct {
	cfg    backend.Config
	client *retryablehttp.Client
}

// New creates a backend configured from cfg
func New(cfg backend.Config) *Backend {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.MaxRetries
	client.RetryWaitMin = cfg.RetryWaitMin
	client.RetryWaitMax = cfg.RetryWaitMax
	client.HTTPClient.Timeout = cfg.Timeout
	client.Logger = nil // Disable logging
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Backend{cfg: cfg, client: client}
}

// Factory registers the backend in a backend.Registry
func Factory(cfg backend.Config) backend.Backend {
	return New(cfg)
}

func (b *Backend) Name() string {
	return backend.RetryableHTTP
}

// Execute sends req with retries and normalizes the final response
func (b *Backend) Execute(ctx context.Context, req *request.Request) (*response.Response, error) {
	sent := time.Now()

	fullURL, err := req.FullURL()
	if err != nil {
		return backend.NoResponse(b.Name(), b.cfg, req, sent, err), fmt.Errorf("%s: invalid url: %w", b.Name(), err)
	}

	var body interface{}
	if len(req.Body) > 0 {
		body = req.Body
	}
	retryReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return backend.NoResponse(b.Name(), b.cfg, req, sent, err), fmt.Errorf("%s: build request: %w", b.Name(), err)
	}
	backend.PrepareHeaders(retryReq.Header, b.cfg, req)

	resp, err := b.client.Do(retryReq)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return backend.NoResponse(b.Name(), b.cfg, req, sent, err), fmt.Errorf("%s: %w", b.Name(), err)
	}
	return backend.AdaptHTTP(b.Name(), b.cfg, req, resp, sent, time.Now())
}
