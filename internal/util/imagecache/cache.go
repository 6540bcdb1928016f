// Package imagecache downloads remote images into a local cache directory.
package imagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/jmylchreest/colormap/internal/security"
	httputil "github.com/jmylchreest/colormap/internal/util/http"
)

// Cache stores downloaded images on disk keyed by URL.
type Cache struct {
	// Dir is the cache directory. If empty, DefaultCacheDir is used.
	Dir string

	// Refresh forces a download even if the URL is already cached.
	Refresh bool

	// Fetch options passed to the HTTP client.
	Options httputil.FetchOptions
}

// DefaultCacheDir returns the default cache directory path.
func DefaultCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "colormap", "images"), nil
	}
	return filepath.Join(cacheDir, "colormap", "images"), nil
}

// Filename returns the cache filename for rawURL: a hash of the URL plus the
// extension of its path, ".img" when it has none.
func Filename(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	name := hex.EncodeToString(sum[:16])

	ext := ".img"
	if u, err := url.Parse(rawURL); err == nil {
		if e := path.Ext(u.Path); e != "" && len(e) <= 5 {
			ext = e
		}
	}
	return name + ext
}

// Fetch returns the local path of rawURL, downloading it first when it is not
// cached yet.
func (c *Cache) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := security.ValidateDownloadURL(rawURL); err != nil {
		return "", err
	}

	dir := c.Dir
	if dir == "" {
		var err error
		if dir, err = DefaultCacheDir(); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	cached := filepath.Join(dir, Filename(rawURL))
	if !c.Refresh {
		if _, err := os.Stat(cached); err == nil {
			return cached, nil
		}
	}

	data, err := httputil.Fetch(ctx, rawURL, c.Options)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	if err := os.WriteFile(cached, data, 0o644); err != nil { // #nosec G306 - Cache files need standard read permissions
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	return cached, nil
}
