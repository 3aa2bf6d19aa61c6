// Package testutil provides fixture servers and mocks shared by backend and
// client tests.
package testutil

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/mock"

	"github.com/GriffinCanCode/forestclient/internal/http/request"
	"github.com/GriffinCanCode/forestclient/internal/http/response"
)

// Fixture payloads served by NewServer
const (
	JSONBody     = `{"a":1}`
	CSVBody      = "a,b\n1,2\n"
	ImageLength  = 12345
	GzipJSONBody = `{"tree":"oak"}`
)

// Latin1Body is "café" encoded as ISO-8859-1
var Latin1Body = []byte{'c', 'a', 'f', 0xe9}

// NewServer starts a gin fixture server that is closed with the test
func NewServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	gz := GzipBytes(t, []byte(GzipJSONBody))

	router.GET("/json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=UTF-8", []byte(JSONBody))
	})

	router.HEAD("/json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json; charset=UTF-8")
		c.Header("Content-Length", strconv.Itoa(len(JSONBody)))
		c.Status(http.StatusOK)
	})

	// declares more bytes than it sends, so reading the body fails
	router.GET("/truncated", func(c *gin.Context) {
		c.Header("Content-Length", "64")
		c.Data(http.StatusOK, "text/plain; charset=UTF-8", []byte("partial"))
	})

	router.GET("/latin1", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/plain; charset=ISO-8859-1", Latin1Body)
	})

	router.GET("/image", func(c *gin.Context) {
		c.Header("Content-Length", strconv.Itoa(ImageLength))
		c.Data(http.StatusOK, "image/png", ImageBody())
	})

	router.GET("/gzip", func(c *gin.Context) {
		c.Header("Content-Encoding", "gzip")
		c.Data(http.StatusOK, "application/json", gz)
	})

	router.GET("/download", func(c *gin.Context) {
		c.Header("Content-Disposition", "attachment; filename=forest.csv")
		c.Data(http.StatusOK, "text/csv", []byte(CSVBody))
	})

	router.GET("/headers", func(c *gin.Context) {
		c.Writer.Header().Add("X-Multi", "first")
		c.Writer.Header().Add("X-Multi", "second")
		c.String(http.StatusOK, "ok")
	})

	router.GET("/empty", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	router.GET("/fail", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "boom")
	})

	router.GET("/missing", func(c *gin.Context) {
		c.String(http.StatusNotFound, "not found")
	})

	router.POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Header("X-Method", c.Request.Method)
		c.Header("X-User-Agent", c.Request.UserAgent())
		c.Data(http.StatusOK, "text/plain; charset=UTF-8", body)
	})

	router.GET("/query", func(c *gin.Context) {
		c.String(http.StatusOK, c.Request.URL.RawQuery)
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// ClosedURL returns the address of a server that is no longer listening
func ClosedURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

// ImageBody returns a deterministic binary payload of ImageLength bytes
func ImageBody() []byte {
	data := make([]byte, ImageLength)
	copy(data, []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a})
	for i := 8; i < len(data); i++ {
		data[i] = byte(i)
	}
	return data
}

// GzipBytes compresses data
func GzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

// MockBackend is a testify mock of backend.Backend
type MockBackend struct {
	mock.Mock
}

// Name mocks the Name method.
func (m *MockBackend) Name() string {
	args := m.Called()
	return args.String(0)
}

// Execute mocks the Execute method.
func (m *MockBackend) Execute(ctx context.Context, req *request.Request) (*response.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.Response), args.Error(1)
}

// NewMockBackend creates a mock backend reporting name
func NewMockBackend(t *testing.T, name string) *MockBackend {
	t.Helper()
	m := new(MockBackend)
	m.On("Name").Return(name).Maybe()
	return m
}
