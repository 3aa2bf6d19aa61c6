package response

import (
	"bytes"
	"io"
)

// Raw is the transport-specific response seen through the status line and
// header list
type Raw interface {
	StatusCode() int
	ReasonPhrase() string
	// VisitHeaders calls fn for every header in wire order, duplicates
	// included
	VisitHeaders(fn func(name, value string))
}

// Entity is the transport's body handle. Content is called at most once.
type Entity interface {
	Content() (io.ReadCloser, error)
	// ContentType returns the declared Content-Type header, "" when absent
	ContentType() string
	// ContentEncoding returns the declared Content-Encoding header, "" when absent
	ContentEncoding() string
	// ContentLength returns the declared length, -1 when unknown
	ContentLength() int64
}

// Request exposes the request-side signals the response consumes
type Request interface {
	// ResponseEncoding is an explicit charset override, "" when absent
	ResponseEncoding() string
	DownloadFile() bool
	DecompressGzip() bool
}

// entityHandle owns the entity stream once the Response is built and hands
// it out exactly once
type entityHandle struct {
	src   Entity
	taken bool
}

func (h *entityHandle) take() (io.ReadCloser, error) {
	if h.taken {
		return nil, ErrBodyConsumed
	}
	h.taken = true
	rc, err := h.src.Content()
	if err != nil {
		return nil, err
	}
	if rc == nil {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return rc, nil
}

// BytesEntity is an Entity over an already buffered body
type BytesEntity struct {
	Data     []byte
	Type     string
	Encoding string
	// Length defaults to len(Data) when zero
	Length int64
}

func (e *BytesEntity) Content() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(e.Data)), nil
}

func (e *BytesEntity) ContentType() string {
	return e.Type
}

func (e *BytesEntity) ContentEncoding() string {
	return e.Encoding
}

func (e *BytesEntity) ContentLength() int64 {
	if e.Length == 0 {
		return int64(len(e.Data))
	}
	return e.Length
}
