// Package http downloads remote images.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jmylchreest/colormap/internal/version"
)

const (
	// DefaultTimeout bounds a whole download, body included.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBytes caps downloaded bodies at 64 MiB.
	DefaultMaxBytes int64 = 64 << 20
)

// FetchOptions tunes a download. Zero fields fall back to the defaults.
type FetchOptions struct {
	Timeout  time.Duration
	MaxBytes int64
}

// Fetch downloads url and returns its body. Anything other than 200 OK is
// an error, as is a body larger than the byte cap.
func Fetch(ctx context.Context, url string, opts FetchOptions) ([]byte, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	maxBytes := opts.MaxBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxBytes
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "colormap/"+version.Version)
	req.Header.Set("Accept", "image/*")

	resp, err := (&http.Client{Timeout: timeout}).Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxBytes)
	}
	return data, nil
}
