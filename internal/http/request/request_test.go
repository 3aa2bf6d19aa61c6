package request

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/forestclient/internal/http/response"
)

var _ response.Request = (*Request)(nil)

func TestNew(t *testing.T) {
	req := New("post", "http://example.com/a")

	assert.Equal(t, "POST", req.Method)
	assert.NotEqual(t, uuid.Nil, req.ID)
	assert.Equal(t, 0, req.Headers.Len())
	assert.Nil(t, req.BodyReader())
}

func TestSignals(t *testing.T) {
	req := Get("http://example.com").
		SetResponseEncoding("GBK").
		SetDownloadFile(true).
		SetDecompressGzip(true).
		SetBackend("resty")

	assert.Equal(t, "GBK", req.ResponseEncoding())
	assert.True(t, req.DownloadFile())
	assert.True(t, req.DecompressGzip())
	assert.Equal(t, "resty", req.Backend)
}

func TestFullURL(t *testing.T) {
	req := Get("http://example.com/search?q=oak").AddQuery("page", "2").AddQuery("q", "elm")

	full, err := req.FullURL()
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/search?page=2&q=oak&q=elm", full)

	_, err = Get("://bad").FullURL()
	assert.Error(t, err)
}

func TestHeadersAndBody(t *testing.T) {
	req := Post("http://example.com").
		SetHeader("Accept", "text/plain").
		SetHeader("accept", "application/json").
		AddHeader("X-Tag", "a").
		AddHeader("X-Tag", "b").
		SetBody([]byte("payload"))

	assert.Equal(t, "application/json", req.Headers.Get("Accept"))
	assert.Equal(t, []string{"a", "b"}, req.Headers.Values("x-tag"))

	data, err := io.ReadAll(req.BodyReader())
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}
