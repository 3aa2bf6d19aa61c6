// Package nethttp is the net/http transport backend.
package nethttp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/GriffinCanCode/forestclient/internal/http/backend"
	"github.com/GriffinCanCode/forestclient/internal/http/request"
	"github.com/GriffinCanCode/forestclient/internal/http/response"
)

// Backend executes requests with a plain *http.Client
type Backend struct {
	cfg    backend.Config
	client *http.Client
}

// New creates a backend with its own http.Client
func New(cfg backend.Config) *Backend {
	return NewWithClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewWithClient creates a backend over an existing client
func NewWithClient(cfg backend.Config, client *http.Client) *Backend {
	return &Backend{cfg: cfg, client: client}
}

// Factory registers the backend in a backend.Registry
func Factory(cfg backend.Config) backend.Backend {
	return New(cfg)
}

func (b *Backend) Name() string {
	return backend.NetHTTP
}

// Execute sends req and normalizes the result
func (b *Backend) Execute(ctx context.Context, req *request.Request) (*response.Response, error) {
	sent := time.Now()

	fullURL, err := req.FullURL()
	if err != nil {
		return backend.NoResponse(b.Name(), b.cfg, req, sent, err), fmt.Errorf("%s: invalid url: %w", b.Name(), err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, req.BodyReader())
	if err != nil {
		return backend.NoResponse(b.Name(), b.cfg, req, sent, err), fmt.Errorf("%s: build request: %w", b.Name(), err)
	}
	backend.PrepareHeaders(httpReq.Header, b.cfg, req)

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return backend.NoResponse(b.Name(), b.cfg, req, sent, err), fmt.Errorf("%s: %w", b.Name(), err)
	}
	return backend.AdaptHTTP(b.Name(), b.cfg, req, resp, sent, time.Now())
}
