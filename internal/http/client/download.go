package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/forestclient/internal/http/request"
)

// DownloadResult describes a file written by Download
type DownloadResult struct {
	Path        string
	Size        int64
	Status      int
	ContentType string
	Duration    time.Duration
}

// Download executes req with download intent and streams the body into
// path, creating parent directories. A request with gzip decompression
// writes the inflated payload. Partial files are removed on error.
func (c *Client) Download(ctx context.Context, req *request.Request, path string) (*DownloadResult, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("download cancelled: %w", ctx.Err())
	default:
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	resp, err := c.Execute(ctx, req.SetDownloadFile(true))
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Close()

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("download failed: HTTP %d", resp.StatusCode())
	}

	body, err := resp.DecodedStream()
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer body.Close()

	size, err := writeFile(path, body)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("download failed: %w", err)
	}

	c.logger.ForBackend(resp.Backend()).Debug("downloaded",
		zap.String("request_id", req.ID.String()),
		zap.String("path", path),
		zap.Int64("size", size))

	return &DownloadResult{
		Path:        path,
		Size:        size,
		Status:      resp.StatusCode(),
		ContentType: resp.ContentType().MediaType(),
		Duration:    resp.Duration(),
	}, nil
}

func writeFile(path string, body io.Reader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return n, err
}
