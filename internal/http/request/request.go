// Package request describes an outgoing HTTP exchange and the signals the
// response layer reads from it.
package request

import (
	"bytes"
	"io"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/GriffinCanCode/forestclient/internal/http/headers"
)

// Request is a transport-neutral request descriptor
type Request struct {
	ID      uuid.UUID
	Method  string
	URL     string
	Query   url.Values
	Headers *headers.Headers
	Body    []byte
	// Backend selects the transport by name; empty uses the client default
	Backend string

	responseEncoding string
	downloadFile     bool
	decompressGzip   bool
}

// New creates a request with a fresh ID
func New(method, rawURL string) *Request {
	return &Request{
		ID:      uuid.New(),
		Method:  strings.ToUpper(method),
		URL:     rawURL,
		Query:   url.Values{},
		Headers: headers.New(4),
	}
}

func Get(rawURL string) *Request {
	return New("GET", rawURL)
}

func Post(rawURL string) *Request {
	return New("POST", rawURL)
}

// SetHeader replaces a request header
func (r *Request) SetHeader(name, value string) *Request {
	r.Headers.Set(name, value)
	return r
}

// AddHeader appends a request header
func (r *Request) AddHeader(name, value string) *Request {
	r.Headers.Add(name, value)
	return r
}

// AddQuery appends a query parameter
func (r *Request) AddQuery(name, value string) *Request {
	r.Query.Add(name, value)
	return r
}

func (r *Request) SetBody(body []byte) *Request {
	r.Body = body
	return r
}

func (r *Request) SetBackend(name string) *Request {
	r.Backend = name
	return r
}

// SetResponseEncoding forces the charset used to decode the response
func (r *Request) SetResponseEncoding(name string) *Request {
	r.responseEncoding = name
	return r
}

// SetDownloadFile marks the response as a file download
func (r *Request) SetDownloadFile(download bool) *Request {
	r.downloadFile = download
	return r
}

// SetDecompressGzip asks for transparent gzip decompression of the content
func (r *Request) SetDecompressGzip(decompress bool) *Request {
	r.decompressGzip = decompress
	return r
}

func (r *Request) ResponseEncoding() string {
	return r.responseEncoding
}

func (r *Request) DownloadFile() bool {
	return r.downloadFile
}

func (r *Request) DecompressGzip() bool {
	return r.decompressGzip
}

// FullURL returns URL with Query merged into any existing query string
func (r *Request) FullURL() (string, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return "", err
	}
	if len(r.Query) == 0 {
		return u.String(), nil
	}
	q := u.Query()
	for k, vs := range r.Query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// BodyReader returns a reader over Body, nil when there is none
func (r *Request) BodyReader() io.Reader {
	if len(r.Body) == 0 {
		return nil
	}
	return bytes.NewReader(r.Body)
}
