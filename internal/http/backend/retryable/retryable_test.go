package retryable

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/forestclient/internal/http/backend"
	"github.com/GriffinCanCode/forestclient/internal/http/request"
	"github.com/GriffinCanCode/forestclient/internal/http/response"
	"github.com/GriffinCanCode/forestclient/internal/testutil"
)

func fastConfig() backend.Config {
	cfg := backend.DefaultConfig()
	cfg.MaxRetries = 2
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 5 * time.Millisecond
	cfg.Timeout = 5 * time.Second
	return cfg
}

func TestExecuteJSON(t *testing.T) {
	srv := testutil.NewServer(t)

	resp, err := New(fastConfig()).Execute(context.Background(), request.Get(srv.URL+"/json"))
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode())
	assert.Equal(t, testutil.JSONBody, resp.Content())
	assert.Equal(t, backend.RetryableHTTP, resp.Backend())
}

func TestExecuteWithoutEntity(t *testing.T) {
	srv := testutil.NewServer(t)

	tests := []struct {
		name   string
		req    *request.Request
		status int
	}{
		{name: "no content", req: request.Get(srv.URL + "/empty"), status: 204},
		{name: "head", req: request.New("HEAD", srv.URL+"/json"), status: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := New(fastConfig()).Execute(context.Background(), tt.req)
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode())
			assert.Equal(t, response.DecisionNoEntity, resp.Decision())
			assert.Nil(t, resp.ContentType())
			assert.Equal(t, "", resp.Content())
		})
	}
}

func TestRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
		w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	resp, err := New(fastConfig()).Execute(context.Background(), request.Get(srv.URL))
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "recovered", resp.Content())
}

func TestExhaustedRetriesPassThroughLastResponse(t *testing.T) {
	srv := testutil.NewServer(t)

	resp, err := New(fastConfig()).Execute(context.Background(), request.Get(srv.URL+"/fail"))
	require.NoError(t, err)

	assert.Equal(t, 500, resp.StatusCode())
	assert.True(t, resp.Is5xx())
	assert.Equal(t, "boom", resp.Content())
}

func TestPostBodyIsReplayed(t *testing.T) {
	srv := testutil.NewServer(t)

	resp, err := New(fastConfig()).Execute(context.Background(),
		request.Post(srv.URL+"/echo").SetBody([]byte("seedling")))
	require.NoError(t, err)
	assert.Equal(t, "seedling", resp.Content())
}

func TestTransportFailure(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxRetries = 0

	resp, err := New(cfg).Execute(context.Background(), request.Get(testutil.ClosedURL(t)))
	require.Error(t, err)
	assert.Equal(t, response.StatusNoResponse, resp.StatusCode())
	assert.Equal(t, "", resp.Content())
}
