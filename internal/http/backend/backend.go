// Package backend defines the transport contract and the registry that maps
// backend names to their constructors.
//
// Every transport package (nethttp, resty, retryable) executes a
// request.Request with its own library and adapts the library's raw
// response into a response.Response. A transport failure before any status
// line arrived still yields a Response, carrying the -1 status sentinel,
// together with the error.
package backend

import (
	"context"
	"errors"
	"time"

	"github.com/GriffinCanCode/forestclient/internal/http/request"
	"github.com/GriffinCanCode/forestclient/internal/http/response"
)

// Built-in backend names
const (
	NetHTTP       = "nethttp"
	Resty         = "resty"
	RetryableHTTP = "retryablehttp"
)

var (
	ErrUnknownBackend = errors.New("unknown backend")
	ErrDuplicate      = errors.New("backend already registered")
)

// Backend executes requests over one transport library
type Backend interface {
	Name() string
	Execute(ctx context.Context, req *request.Request) (*response.Response, error)
}

// Config holds the transport settings shared by all backends
type Config struct {
	Timeout         time.Duration
	MaxRetries      int
	RetryWaitMin    time.Duration
	RetryWaitMax    time.Duration
	UserAgent       string
	StreamThreshold int64
}

// DefaultConfig mirrors the client defaults
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		RetryWaitMin:    1 * time.Second,
		RetryWaitMax:    30 * time.Second,
		UserAgent:       "forestclient/1.0",
		StreamThreshold: response.DefaultStreamThreshold,
	}
}

// Factory builds a backend from config
type Factory func(cfg Config) Backend

// ResponseOptions returns the construction options every backend passes
// to response.New
func (c Config) ResponseOptions(name string) []response.Option {
	return []response.Option{
		response.WithBackend(name),
		response.WithStreamThreshold(c.StreamThreshold),
	}
}

// NoResponse builds the sentinel Response for a transport failure
func NoResponse(name string, cfg Config, req *request.Request, sent time.Time, cause error) *response.Response {
	opts := append(cfg.ResponseOptions(name), response.WithTransportError(cause))
	// with raw == nil New never reads anything and cannot fail
	resp, _ := response.New(req, nil, nil, sent, time.Now(), opts...)
	return resp
}
