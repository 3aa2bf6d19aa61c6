package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/forestclient/internal/http/request"
	"github.com/GriffinCanCode/forestclient/internal/http/response"
)

type stubBackend struct {
	name string
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) Execute(ctx context.Context, req *request.Request) (*response.Response, error) {
	return NoResponse(s.name, DefaultConfig(), req, time.Now(), errors.New("stub")), nil
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(DefaultConfig())
	builds := 0
	require.NoError(t, reg.Register("stub", func(cfg Config) Backend {
		builds++
		return &stubBackend{name: "stub"}
	}))

	t.Run("duplicate registration fails", func(t *testing.T) {
		err := reg.Register("stub", func(cfg Config) Backend { return nil })
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("instances are cached", func(t *testing.T) {
		a, err := reg.Get("stub")
		require.NoError(t, err)
		b, err := reg.Get("stub")
		require.NoError(t, err)
		assert.Same(t, a, b)
		assert.Equal(t, 1, builds)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := reg.Get("carrier-pigeon")
		assert.ErrorIs(t, err, ErrUnknownBackend)
	})

	assert.True(t, reg.Has("stub"))
	assert.Equal(t, []string{"stub"}, reg.Names())
}

func TestNoResponse(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	resp := NoResponse("stub", DefaultConfig(), request.Get("http://x"), time.Now(), cause)

	assert.Equal(t, response.StatusNoResponse, resp.StatusCode())
	assert.Equal(t, cause, resp.TransportErr())
	assert.Equal(t, "stub", resp.Backend())
}

func TestAdaptHTTP(t *testing.T) {
	body := "hello"
	resp := &http.Response{
		StatusCode:    201,
		Status:        "201 Created",
		Header:        http.Header{"Content-Type": {"text/plain; charset=UTF-8"}},
		Body:          http.NoBody,
		ContentLength: int64(len(body)),
	}

	t.Run("no body", func(t *testing.T) {
		out, err := AdaptHTTP("test", DefaultConfig(), request.Get("http://x"), resp, time.Now(), time.Now())
		require.NoError(t, err)
		assert.Equal(t, "Created", out.ReasonPhrase())
		assert.Equal(t, response.DecisionNoEntity, out.Decision())
	})

	t.Run("with body", func(t *testing.T) {
		withBody := *resp
		withBody.Body = nopCloser{strings.NewReader(body)}
		out, err := AdaptHTTP("test", DefaultConfig(), request.Get("http://x"), &withBody, time.Now(), time.Now())
		require.NoError(t, err)
		assert.Equal(t, body, out.Content())
	})

	t.Run("nil response", func(t *testing.T) {
		out, err := AdaptHTTP("test", DefaultConfig(), request.Get("http://x"), nil, time.Now(), time.Now())
		require.NoError(t, err)
		assert.True(t, out.NoResponse())
	})

	t.Run("missing status text", func(t *testing.T) {
		bare := *resp
		bare.Status = ""
		assert.Equal(t, "Created", HTTPRaw{Resp: &bare}.ReasonPhrase())
	})
}

func TestHasBody(t *testing.T) {
	// a client Timeout replaces http.NoBody with a wrapping reader
	wrapped := io.NopCloser(strings.NewReader(""))
	get := &http.Request{Method: http.MethodGet}

	tests := []struct {
		name string
		resp *http.Response
		want bool
	}{
		{name: "sized body", resp: &http.Response{StatusCode: 200, Body: wrapped, ContentLength: 5, Request: get}, want: true},
		{name: "unknown length", resp: &http.Response{StatusCode: 200, Body: wrapped, ContentLength: -1, Request: get}, want: true},
		{name: "nil body", resp: &http.Response{StatusCode: 200, ContentLength: -1}, want: false},
		{name: "no body sentinel", resp: &http.Response{StatusCode: 200, Body: http.NoBody, ContentLength: -1}, want: false},
		{name: "no content", resp: &http.Response{StatusCode: 204, Body: wrapped, Request: get}, want: false},
		{name: "not modified", resp: &http.Response{StatusCode: 304, Body: wrapped, ContentLength: -1, Request: get}, want: false},
		{name: "informational", resp: &http.Response{StatusCode: 103, Body: wrapped, ContentLength: -1, Request: get}, want: false},
		{name: "zero length", resp: &http.Response{StatusCode: 200, Body: wrapped, Request: get}, want: false},
		{name: "head", resp: &http.Response{StatusCode: 200, Body: wrapped, ContentLength: 7, Request: &http.Request{Method: http.MethodHead}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasBody(tt.resp))
		})
	}
}

func TestAdaptHTTPClosesUnusedBody(t *testing.T) {
	body := &closeTracker{Reader: strings.NewReader("")}
	resp := &http.Response{
		StatusCode: 204,
		Status:     "204 No Content",
		Header:     http.Header{"Content-Type": {"text/plain"}},
		Body:       body,
		Request:    &http.Request{Method: http.MethodGet},
	}

	out, err := AdaptHTTP("test", DefaultConfig(), request.Get("http://x"), resp, time.Now(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, response.DecisionNoEntity, out.Decision())
	assert.Nil(t, out.ContentType())
	assert.True(t, body.closed)
}

func TestPrepareHeaders(t *testing.T) {
	cfg := DefaultConfig()

	dst := http.Header{}
	PrepareHeaders(dst, cfg, request.Get("http://x").SetDecompressGzip(true).AddHeader("X-A", "1"))
	assert.Equal(t, cfg.UserAgent, dst.Get("User-Agent"))
	assert.Equal(t, "gzip", dst.Get("Accept-Encoding"))
	assert.Equal(t, "1", dst.Get("X-A"))

	custom := http.Header{}
	PrepareHeaders(custom, cfg, request.Get("http://x").SetHeader("User-Agent", "mine"))
	assert.Equal(t, []string{"mine"}, custom.Values("User-Agent"))
	assert.Empty(t, custom.Get("Accept-Encoding"))
}

type nopCloser struct {
	*strings.Reader
}

func (nopCloser) Close() error { return nil }

type closeTracker struct {
	*strings.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}
