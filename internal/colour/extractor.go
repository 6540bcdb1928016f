// Package colour provides colour extraction and palette generation functionality.
package colour

import (
	"fmt"
	"image"
	"math/rand"
	"slices"

	"github.com/hashicorp/go-hclog"
)

// Extractor defines the interface for colour extraction algorithms.
type Extractor interface {
	// Extract extracts a colour palette from an image.
	// The count parameter specifies the number of colours to extract.
	Extract(img image.Image, count int) (*Palette, error)
}

// Algorithm represents the colour extraction algorithm type.
type Algorithm string

const (
	// AlgorithmKMeans clusters the exact colour histogram in RGB space.
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmKMeansLab clusters the colour histogram in CIE Lab space.
	AlgorithmKMeansLab Algorithm = "kmeans-lab"

	// AlgorithmDominant uses dominantcolor's weighted k-means.
	AlgorithmDominant Algorithm = "dominant"

	// AlgorithmProminent uses prominentcolor's k-means on a resized copy.
	AlgorithmProminent Algorithm = "prominent"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmKMeans,
		AlgorithmKMeansLab,
		AlgorithmDominant,
		AlgorithmProminent,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	return slices.Contains(ValidAlgorithms(), alg)
}

// ExtractorConfig holds configuration for colour extraction.
type ExtractorConfig struct {
	Algorithm     Algorithm
	ColourCount   int
	Aggregation   Aggregation
	MaxIterations int

	// Rand drives every random choice made by the extractor. Only the kmeans
	// algorithm honours it fully.
	Rand   *rand.Rand
	Logger hclog.Logger
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Algorithm:     AlgorithmKMeans,
		ColourCount:   3,
		Aggregation:   AggregationMedian,
		MaxIterations: DefaultMaxIterations,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("invalid algorithm: %s (valid algorithms: %v)", c.Algorithm, ValidAlgorithms())
	}
	if c.ColourCount < 1 {
		return fmt.Errorf("colour count must be at least 1, got %d", c.ColourCount)
	}
	if _, err := ParseAggregation(string(c.Aggregation)); err != nil {
		return err
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be at least 1, got %d", c.MaxIterations)
	}
	return nil
}

// NewExtractor creates a new Extractor based on the configured algorithm.
func NewExtractor(cfg ExtractorConfig) (Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	switch cfg.Algorithm {
	case AlgorithmKMeans:
		return NewKMeansExtractor(NewKMeansClusterer(cfg.Rand, KMeansConfig{
			Aggregation:   cfg.Aggregation,
			MaxIterations: cfg.MaxIterations,
			Logger:        logger.Named("kmeans"),
		})), nil
	case AlgorithmKMeansLab:
		return NewLabExtractor(), nil
	case AlgorithmDominant:
		return NewDominantExtractor(), nil
	case AlgorithmProminent:
		return NewProminentExtractor(cfg.Aggregation), nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", cfg.Algorithm, ValidAlgorithms())
	}
}

// checkCount applies the shared preconditions on the number of distinct
// opaque colours before an alternative algorithm runs.
func checkCount(buckets []Bucket, count int) error {
	if count < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidClusterCount, count)
	}
	if len(buckets) == 0 {
		return ErrEmptyPalette
	}
	if len(buckets) < count {
		return &InsufficientColoursError{K: count, Found: len(buckets)}
	}
	return nil
}

// sortEntries orders entries by descending count, keeping ties in place.
func sortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		switch {
		case a.Count > b.Count:
			return -1
		case a.Count < b.Count:
			return 1
		default:
			return 0
		}
	})
}
