package response

import (
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/GriffinCanCode/forestclient/internal/http/charset"
	"github.com/GriffinCanCode/forestclient/internal/http/contenttype"
	"github.com/GriffinCanCode/forestclient/internal/http/headers"
)

// StatusNoResponse marks a response for which the transport produced no
// status line at all
const StatusNoResponse = -1

// DefaultStreamThreshold is the largest declared length Stream buffers in
// memory; longer bodies are handed out as the live entity stream
const DefaultStreamThreshold int64 = math.MaxInt32

// Decision records how the body was treated at construction time
type Decision int

const (
	DecisionNoResponse Decision = iota
	DecisionNoEntity
	DecisionString
	DecisionPlaceholder
	DecisionDeferred
)

func (d Decision) String() string {
	switch d {
	case DecisionNoResponse:
		return "no_response"
	case DecisionNoEntity:
		return "no_entity"
	case DecisionString:
		return "string"
	case DecisionPlaceholder:
		return "placeholder"
	case DecisionDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// Option configures a Response at construction
type Option func(*Response)

// WithStreamThreshold overrides DefaultStreamThreshold
func WithStreamThreshold(n int64) Option {
	return func(r *Response) {
		if n > 0 {
			r.streamThreshold = n
		}
	}
}

// WithBackend records the name of the transport that produced the response
func WithBackend(name string) Option {
	return func(r *Response) {
		r.backend = name
	}
}

// WithTransportError records why no response was received
func WithTransportError(err error) Option {
	return func(r *Response) {
		r.transportErr = err
	}
}

// Response is the backend-agnostic view of one HTTP exchange.
//
// It is not safe for concurrent use: the content and bytes caches are
// filled lazily without locking.
type Response struct {
	request      Request
	requestTime  time.Time
	responseTime time.Time
	backend      string
	transportErr error

	statusCode      int
	reasonPhrase    string
	headers         *headers.Headers
	contentType     *contenttype.ContentType
	contentEncoding string
	contentLength   int64
	isGzip          bool

	entity          *entityHandle
	content         cache[string]
	bytes           cache[[]byte]
	decision        Decision
	streamThreshold int64
}

// New normalizes a transport response. raw and entity must be untyped nil
// when absent. The only error returned is a *BodyError raised while the
// body is drained for the string view.
func New(req Request, raw Raw, entity Entity, requestTime, responseTime time.Time, opts ...Option) (*Response, error) {
	r := &Response{
		request:         req,
		requestTime:     requestTime,
		responseTime:    responseTime,
		statusCode:      StatusNoResponse,
		headers:         headers.New(0),
		contentLength:   -1,
		streamThreshold: DefaultStreamThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}

	if raw == nil {
		r.decision = DecisionNoResponse
		return r, nil
	}

	raw.VisitHeaders(r.headers.Add)
	r.statusCode = raw.StatusCode()
	r.reasonPhrase = raw.ReasonPhrase()

	if entity == nil {
		r.decision = DecisionNoEntity
		r.bytes.set([]byte{})
		r.content.set("")
		return r, nil
	}

	r.entity = &entityHandle{src: entity}
	r.resolveMetadata(entity)
	if err := r.buildContent(); err != nil {
		return r, err
	}
	return r, nil
}

// resolveMetadata applies the content-type / charset precedence once
func (r *Response) resolveMetadata(entity Entity) {
	if v := entity.ContentType(); v != "" {
		r.contentType = contenttype.Parse(v)
	}
	r.contentLength = entity.ContentLength()
	r.isGzip = r.decompressGzip()

	if enc := r.responseEncoding(); strings.TrimSpace(enc) != "" {
		r.contentEncoding = enc
	} else if r.contentType != nil {
		r.contentEncoding = r.contentType.Charset()
	}
	if r.contentEncoding == "" {
		if token := entity.ContentEncoding(); token != "" {
			r.contentEncoding, _ = charset.Validate(token)
		}
	}
}

func (r *Response) buildContent() error {
	ct := r.contentType
	switch {
	case ct.IsEmpty():
		r.decision = DecisionString
		return r.readContentAsString()
	case !r.downloadFile() && ct.CanReadAsString():
		r.decision = DecisionString
		return r.readContentAsString()
	case ct.CanReadAsBinaryStream():
		r.decision = DecisionPlaceholder
		r.content.set(r.placeholder())
		return nil
	default:
		r.decision = DecisionDeferred
		return nil
	}
}

func (r *Response) readContentAsString() error {
	data, err := r.materialize()
	if err != nil {
		return err
	}
	text, err := r.decodeText(data)
	if err != nil {
		return err
	}
	r.content.set(text)
	return nil
}

// placeholder summarizes a binary body without reading it
func (r *Response) placeholder() string {
	var b strings.Builder
	b.WriteString("[content-type: ")
	b.WriteString(r.contentType.String())
	if r.contentEncoding != "" {
		b.WriteString("; encoding: ")
		b.WriteString(r.contentEncoding)
	}
	b.WriteString("; length: ")
	b.WriteString(strconv.FormatInt(r.contentLength, 10))
	b.WriteString("]")
	return b.String()
}

// materialize drains the entity into the bytes cache exactly once
func (r *Response) materialize() ([]byte, error) {
	if data, ok := r.bytes.get(); ok {
		return data, nil
	}
	if r.entity == nil {
		return nil, ErrNoBody
	}
	if r.bytes.state == CachePending {
		return nil, &BodyError{Op: "read response body", Err: ErrBodyConsumed}
	}

	r.bytes.begin()
	rc, err := r.entity.take()
	if err != nil {
		return nil, &BodyError{Op: "open response body", Err: err}
	}
	data, err := io.ReadAll(rc)
	closeErr := rc.Close()
	if err != nil {
		return nil, &BodyError{Op: "read response body", Err: err}
	}
	if closeErr != nil {
		return nil, &BodyError{Op: "close response body", Err: closeErr}
	}
	if data == nil {
		data = []byte{}
	}
	r.bytes.set(data)
	return data, nil
}

// decodeText inflates the payload when gzip was requested and decodes it
// with the resolved encoding
func (r *Response) decodeText(data []byte) (string, error) {
	if r.isGzip {
		plain, err := decompress(data)
		if err != nil {
			return "", &BodyError{Op: "decompress response body", Err: err}
		}
		data = plain
	}
	return charset.Decode(data, r.contentEncoding), nil
}

// Bytes returns the raw body, draining the entity on first use
func (r *Response) Bytes() ([]byte, error) {
	return r.materialize()
}

// Stream returns a reader over the body. Bodies declared longer than the
// stream threshold come straight from the entity and the caller must close
// them; everything else is served from the bytes cache.
func (r *Response) Stream() (io.ReadCloser, error) {
	if _, cached := r.bytes.get(); !cached && r.entity != nil && r.contentLength > r.streamThreshold {
		rc, err := r.entity.take()
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	data, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// DecodedStream is Stream with gzip or zstd payloads inflated when the
// request asked for decompression. Bytes and Stream keep the wire bytes.
func (r *Response) DecodedStream() (io.ReadCloser, error) {
	rc, err := r.Stream()
	if err != nil || !r.isGzip {
		return rc, err
	}
	return inflateStream(rc)
}

// Content returns the decoded body or the binary placeholder. It is "" when
// no response or no entity was received, and when content was deferred;
// use ReadContent to force the latter.
func (r *Response) Content() string {
	v, _ := r.content.get()
	return v
}

// ContentState reports whether Content has been computed
func (r *Response) ContentState() CacheState {
	return r.content.state
}

// ReadContent returns Content, decoding the body first when the content
// was deferred at construction
func (r *Response) ReadContent() (string, error) {
	if v, ok := r.content.get(); ok {
		return v, nil
	}
	if r.entity == nil {
		return "", nil
	}
	data, err := r.Bytes()
	if err != nil {
		return "", err
	}
	text, err := r.decodeText(data)
	if err != nil {
		return "", err
	}
	r.content.set(text)
	return text, nil
}

// ReceivedData reports whether a body arrived, without reading it
func (r *Response) ReceivedData() bool {
	_, cached := r.bytes.get()
	return r.entity != nil || cached
}

// Close releases an entity stream nobody has taken. It is a no-op once the
// body was materialized or handed out by Stream.
func (r *Response) Close() error {
	if r.entity == nil || r.entity.taken {
		return nil
	}
	rc, err := r.entity.take()
	if err != nil {
		return err
	}
	return rc.Close()
}

func (r *Response) StatusCode() int {
	return r.statusCode
}

func (r *Response) ReasonPhrase() string {
	return r.reasonPhrase
}

// Headers returns the headers in wire order
func (r *Response) Headers() *headers.Headers {
	return r.headers
}

// Header returns the first value of the named header
func (r *Response) Header(name string) string {
	return r.headers.Get(name)
}

// HeaderValues returns every value of the named header
func (r *Response) HeaderValues(name string) []string {
	return r.headers.Values(name)
}

// ContentType returns the parsed entity content type, nil when absent
func (r *Response) ContentType() *contenttype.ContentType {
	return r.contentType
}

// ContentEncoding returns the resolved charset name, "" when unset
func (r *Response) ContentEncoding() string {
	return r.contentEncoding
}

// ContentLength returns the declared body length, -1 when unknown
func (r *Response) ContentLength() int64 {
	return r.contentLength
}

func (r *Response) IsGzip() bool {
	return r.isGzip
}

// Decision reports how the body was treated at construction
func (r *Response) Decision() Decision {
	return r.decision
}

func (r *Response) Request() Request {
	return r.request
}

func (r *Response) Backend() string {
	return r.backend
}

// TransportErr returns the transport failure behind a no-response result
func (r *Response) TransportErr() error {
	return r.transportErr
}

func (r *Response) RequestTime() time.Time {
	return r.requestTime
}

func (r *Response) ResponseTime() time.Time {
	return r.responseTime
}

// Duration is the time between dispatch and completion
func (r *Response) Duration() time.Duration {
	if r.requestTime.IsZero() || r.responseTime.IsZero() {
		return 0
	}
	return r.responseTime.Sub(r.requestTime)
}

func (r *Response) responseEncoding() string {
	if r.request == nil {
		return ""
	}
	return r.request.ResponseEncoding()
}

func (r *Response) downloadFile() bool {
	return r.request != nil && r.request.DownloadFile()
}

func (r *Response) decompressGzip() bool {
	return r.request != nil && r.request.DecompressGzip()
}
