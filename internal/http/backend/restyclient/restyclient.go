// Package restyclient is the go-resty/resty transport backend.
//
// Requests run with response parsing disabled so the entity stream reaches
// the response layer unread; a response whose body resty already buffered
// is adapted from those bytes instead.
package restyclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/GriffinCanCode/forestclient/internal/http/backend"
	"github.com/GriffinCanCode/forestclient/internal/http/headers"
	"github.com/GriffinCanCode/forestclient/internal/http/request"
	"github.com/GriffinCanCode/forestclient/internal/http/response"
)

// Backend executes requests through a resty.Client
type Backend struct {
	cfg    backend.Config
	client *resty.Client
}

// New creates a backend configured from cfg
func New(cfg backend.Config) *Backend {
	client := resty.New()
	client.
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(cfg.RetryWaitMin).
		SetRetryMaxWaitTime(cfg.RetryWaitMax)
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &Backend{cfg: cfg, client: client}
}

// Factory registers the backend in a backend.Registry
func Factory(cfg backend.Config) backend.Backend {
	return New(cfg)
}

func (b *Backend) Name() string {
	return backend.Resty
}

// Client exposes the underlying resty client for advanced configuration
func (b *Backend) Client() *resty.Client {
	return b.client
}

// Execute sends req and normalizes the result
func (b *Backend) Execute(ctx context.Context, req *request.Request) (*response.Response, error) {
	sent := time.Now()

	r := b.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true)
	req.Headers.Each(func(name, value string) {
		r.Header.Add(name, value)
	})
	if req.DecompressGzip() && r.Header.Get("Accept-Encoding") == "" {
		r.SetHeader("Accept-Encoding", "gzip")
	}
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if len(req.Body) > 0 {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil || resp == nil || resp.RawResponse == nil {
		if resp != nil && resp.RawBody() != nil {
			resp.RawBody().Close()
		}
		if err == nil {
			err = fmt.Errorf("no response received")
		}
		return backend.NoResponse(b.Name(), b.cfg, req, sent, err), fmt.Errorf("%s: %w", b.Name(), err)
	}

	return Adapt(b.cfg, req, resp)
}

// Adapt normalizes a resty response, using resty's own timestamps
func Adapt(cfg backend.Config, req *request.Request, resp *resty.Response) (*response.Response, error) {
	opts := cfg.ResponseOptions(backend.Resty)
	sent, done := timestamps(resp)
	if resp == nil || resp.RawResponse == nil {
		return response.New(req, nil, nil, sent, done, opts...)
	}
	raw := restyRaw{resp: resp}
	if !hasBody(resp) {
		if rb := resp.RawBody(); rb != nil {
			rb.Close()
		}
		return response.New(req, raw, nil, sent, done, opts...)
	}
	return response.New(req, raw, restyEntity{resp: resp}, sent, done, opts...)
}

func timestamps(resp *resty.Response) (time.Time, time.Time) {
	now := time.Now()
	if resp == nil || resp.Request == nil {
		return now, now
	}
	done := resp.ReceivedAt()
	if done.IsZero() {
		done = now
	}
	return resp.Request.Time, done
}

func hasBody(resp *resty.Response) bool {
	if len(resp.Body()) > 0 {
		return true
	}
	return backend.HasBody(resp.RawResponse)
}

type restyRaw struct {
	resp *resty.Response
}

func (r restyRaw) StatusCode() int {
	return r.resp.StatusCode()
}

func (r restyRaw) ReasonPhrase() string {
	code := strconv.Itoa(r.resp.StatusCode())
	reason := strings.TrimSpace(strings.TrimPrefix(r.resp.Status(), code))
	if reason == "" {
		return http.StatusText(r.resp.StatusCode())
	}
	return reason
}

func (r restyRaw) VisitHeaders(fn func(name, value string)) {
	headers.FromHTTP(r.resp.Header()).Each(fn)
}

type restyEntity struct {
	resp *resty.Response
}

// Content prefers the unread stream and falls back to bytes resty buffered
func (e restyEntity) Content() (io.ReadCloser, error) {
	if body := e.resp.Body(); len(body) > 0 {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	if rb := e.resp.RawBody(); rb != nil {
		return rb, nil
	}
	return nil, nil
}

func (e restyEntity) ContentType() string {
	return e.resp.Header().Get("Content-Type")
}

func (e restyEntity) ContentEncoding() string {
	return e.resp.Header().Get("Content-Encoding")
}

func (e restyEntity) ContentLength() int64 {
	if body := e.resp.Body(); len(body) > 0 {
		return int64(len(body))
	}
	return e.resp.RawResponse.ContentLength
}
