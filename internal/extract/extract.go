// Package extract runs the full dominant colour pipeline: background removal,
// colour quantisation and clustering.
package extract

import (
	"fmt"
	"image"
	"math/rand"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/colormap/internal/background"
	"github.com/jmylchreest/colormap/internal/colour"
	imageutil "github.com/jmylchreest/colormap/internal/image"
)

// EnvDebugDir names the environment variable that overrides the snapshot directory.
const EnvDebugDir = "COLORMAP_DEBUG_DIR"

// Config holds the options of one extraction run.
type Config struct {
	// Colours is the number of centroids K.
	Colours int
	// Algorithm selects the extractor. The default kmeans is the exact
	// histogram clusterer; the others are alternatives.
	Algorithm colour.Algorithm
	// Aggregation selects mean or median centroids.
	Aggregation colour.Aggregation
	// MaxIterations caps the Lloyd iterations.
	MaxIterations int
	// Crop trims the image to its centre before background detection.
	Crop bool
	// Debug saves the masked raster to DebugDir.
	Debug    bool
	DebugDir string
	// MaxDimension downscales larger images before processing. 0 disables it.
	MaxDimension int
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	debugDir := os.Getenv(EnvDebugDir)
	if debugDir == "" {
		debugDir = background.DefaultSnapshotDir
	}
	return Config{
		Colours:       3,
		Algorithm:     colour.AlgorithmKMeans,
		Aggregation:   colour.AggregationMedian,
		MaxIterations: colour.DefaultMaxIterations,
		DebugDir:      debugDir,
	}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.MaxDimension < 0 {
		return fmt.Errorf("max dimension cannot be negative, got %d", c.MaxDimension)
	}
	return c.extractorConfig(nil, nil).Validate()
}

func (c Config) extractorConfig(rng *rand.Rand, logger hclog.Logger) colour.ExtractorConfig {
	return colour.ExtractorConfig{
		Algorithm:     c.Algorithm,
		ColourCount:   c.Colours,
		Aggregation:   c.Aggregation,
		MaxIterations: c.MaxIterations,
		Rand:          rng,
		Logger:        logger,
	}
}

// DominantColours returns the cfg.Colours most dominant colours of img,
// ordered by descending pixel count, after removing a detected background.
// img is never modified.
func DominantColours(img image.Image, cfg Config, rng *rand.Rand, logger hclog.Logger) (*colour.Palette, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if cfg.MaxDimension > 0 {
		before := img.Bounds().Size()
		img = imageutil.Downscale(img, cfg.MaxDimension)
		if after := img.Bounds().Size(); after != before {
			logger.Debug("image downscaled", "from", before, "to", after)
		}
	}

	masker := background.NewMasker(cfg.Crop, logger.Named("background"))
	masked, err := masker.Remove(img)
	if err != nil {
		return nil, fmt.Errorf("failed to remove background: %w", err)
	}

	if cfg.Debug {
		logger.Info("mask image", "mask", masked.Mask, "threshold", masked.Mask.Threshold())
		if path, err := background.SaveSnapshot(masked.Image, cfg.DebugDir); err != nil {
			logger.Warn("failed to save debug snapshot", "error", err)
		} else {
			logger.Info("saved masked image", "path", path)
		}
	}

	extractor, err := colour.NewExtractor(cfg.extractorConfig(rng, logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	palette, err := extractor.Extract(masked.Image, cfg.Colours)
	if err != nil {
		return nil, fmt.Errorf("failed to extract colours: %w", err)
	}

	logger.Debug("extracted colours", "count", palette.Len(), "algorithm", cfg.Algorithm)
	return palette, nil
}
