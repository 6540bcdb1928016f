// Package image provides utilities for loading and preparing images.
package image

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/colormap/internal/util/imagecache"
)

// DecodeError reports a path that could not be read or decoded as an image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to load image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from the given path.
	Load(path string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load loads an image from a file path.
// Supported formats: JPEG, PNG, GIF, WebP, BMP, TIFF.
func (l *FileLoader) Load(path string) (image.Image, error) {
	if path == "" {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("image path cannot be empty")}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &DecodeError{Path: path, Err: fmt.Errorf("file not found: %w", err)}
		}
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("failed to stat image file: %w", err)}
	}
	if info.IsDir() {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("path is a directory, not a file")}
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("failed to open image file: %w", err)}
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("failed to decode image (format: %s): %w", format, err)}
	}

	return img, nil
}

// ValidateImagePath checks that path is a URL or a readable file in a
// supported format. Only the image header is decoded.
func ValidateImagePath(path string) error {
	if path == "" {
		return fmt.Errorf("image path cannot be empty")
	}
	if isURL(path) {
		return nil
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image file not found: %s", path)
		}
		return fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	if _, _, err := image.DecodeConfig(file); err != nil {
		return fmt.Errorf("unsupported or invalid image format: %w", err)
	}
	return nil
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff"}
}

// IsImageFile checks if a file has a supported image extension.
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(SupportedImageExtensions(), ext)
}

// Downscale shrinks img so neither side exceeds maxDimension. Nearest-neighbour
// sampling is used so no colours are introduced that were not in the original.
// Images already within bounds, or a maxDimension <= 0, are returned as-is.
func Downscale(img image.Image, maxDimension int) image.Image {
	if maxDimension <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxDimension && b.Dy() <= maxDimension {
		return img
	}
	return imaging.Fit(img, maxDimension, maxDimension, imaging.NearestNeighbor)
}

// SmartLoader loads images from both local files and HTTP(S) URLs.
// Remote images are downloaded into a local cache and decoded from there.
type SmartLoader struct {
	fileLoader *FileLoader
	cache      *imagecache.Cache
}

// NewSmartLoader creates a new SmartLoader caching downloads in cacheDir,
// or in imagecache.DefaultCacheDir when cacheDir is empty.
func NewSmartLoader(cacheDir string) *SmartLoader {
	return &SmartLoader{
		fileLoader: NewFileLoader(),
		cache:      &imagecache.Cache{Dir: cacheDir},
	}
}

// Load loads an image from either a local file path or HTTP(S) URL.
func (l *SmartLoader) Load(path string) (image.Image, error) {
	if !isURL(path) {
		return l.fileLoader.Load(path)
	}

	cached, err := l.cache.Fetch(context.Background(), path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return l.fileLoader.Load(cached)
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
