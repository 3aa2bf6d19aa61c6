package backend

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GriffinCanCode/forestclient/internal/http/headers"
	"github.com/GriffinCanCode/forestclient/internal/http/request"
	"github.com/GriffinCanCode/forestclient/internal/http/response"
)

// HTTPRaw exposes a *http.Response as response.Raw
type HTTPRaw struct {
	Resp *http.Response
}

func (h HTTPRaw) StatusCode() int {
	return h.Resp.StatusCode
}

// ReasonPhrase strips the numeric code from Status, falling back to the
// standard text when the server sent none
func (h HTTPRaw) ReasonPhrase() string {
	code := strconv.Itoa(h.Resp.StatusCode)
	reason := strings.TrimSpace(strings.TrimPrefix(h.Resp.Status, code))
	if reason == "" {
		return http.StatusText(h.Resp.StatusCode)
	}
	return reason
}

func (h HTTPRaw) VisitHeaders(fn func(name, value string)) {
	headers.FromHTTP(h.Resp.Header).Each(fn)
}

// HTTPEntity exposes the body of a *http.Response as response.Entity
type HTTPEntity struct {
	Resp *http.Response
}

func (e HTTPEntity) Content() (io.ReadCloser, error) {
	return e.Resp.Body, nil
}

func (e HTTPEntity) ContentType() string {
	return e.Resp.Header.Get("Content-Type")
}

func (e HTTPEntity) ContentEncoding() string {
	return e.Resp.Header.Get("Content-Encoding")
}

func (e HTTPEntity) ContentLength() int64 {
	return e.Resp.ContentLength
}

// HasBody reports whether the exchange carries an entity. It is decided
// from the method, status and declared length: a client with a Timeout wraps
// every body, so resp.Body is never http.NoBody there.
func HasBody(resp *http.Response) bool {
	if resp.Body == nil || resp.Body == http.NoBody {
		return false
	}
	if resp.Request != nil && resp.Request.Method == http.MethodHead {
		return false
	}
	switch code := resp.StatusCode; {
	case code >= 100 && code < 200, code == http.StatusNoContent, code == http.StatusNotModified:
		return false
	}
	return resp.ContentLength != 0
}

// AdaptHTTP normalizes a net/http response. resp may be nil, in which case
// the no-response sentinel is produced.
func AdaptHTTP(name string, cfg Config, req *request.Request, resp *http.Response, sent, done time.Time) (*response.Response, error) {
	opts := cfg.ResponseOptions(name)
	if resp == nil {
		return response.New(req, nil, nil, sent, done, opts...)
	}
	if !HasBody(resp) {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return response.New(req, HTTPRaw{Resp: resp}, nil, sent, done, opts...)
	}
	return response.New(req, HTTPRaw{Resp: resp}, HTTPEntity{Resp: resp}, sent, done, opts...)
}

// PrepareHeaders copies request headers onto an outgoing net/http header
// map. With gzip decompression requested the Accept-Encoding header is set
// explicitly so net/http leaves the payload compressed for the response
// layer to inflate.
func PrepareHeaders(dst http.Header, cfg Config, req *request.Request) {
	req.Headers.Each(func(name, value string) {
		dst.Add(name, value)
	})
	if cfg.UserAgent != "" && dst.Get("User-Agent") == "" {
		dst.Set("User-Agent", cfg.UserAgent)
	}
	if req.DecompressGzip() && dst.Get("Accept-Encoding") == "" {
		dst.Set("Accept-Encoding", "gzip")
	}
}
