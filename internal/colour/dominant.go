// Package colour provides colour extraction and palette generation functionality.
package colour

import (
	"fmt"
	"image"
	"math"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/cenkalti/dominantcolor"
)

// DominantExtractor delegates to cenkalti/dominantcolor. Weights are
// fractions of the whole raster area, transparent pixels included, so they
// are turned back into pixel counts using that area.
type DominantExtractor struct{}

// NewDominantExtractor creates a new DominantExtractor.
func NewDominantExtractor() *DominantExtractor {
	return &DominantExtractor{}
}

// Extract returns up to count dominant colours of img.
func (e *DominantExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}

	raster := toNRGBA(img)
	if err := checkCount(Histogram(raster), count); err != nil {
		return nil, err
	}
	b := raster.Bounds()
	area := float64(b.Dx()) * float64(b.Dy())

	found := dominantcolor.FindWeight(raster, count)
	if len(found) == 0 {
		return nil, ErrEmptyPalette
	}

	entries := make([]Entry, len(found))
	for i, c := range found {
		entries[i] = Entry{
			RGB:   RGB{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B},
			Count: uint64(math.Round(c.Weight * area)),
		}
	}
	sortEntries(entries)

	return NewPalette(entries), nil
}

// ProminentExtractor delegates to EdlinOrg/prominentcolor. Its own background
// masks are disabled since background removal has already happened.
type ProminentExtractor struct {
	arguments int
}

// NewProminentExtractor creates a ProminentExtractor honouring the aggregation mode.
func NewProminentExtractor(a Aggregation) *ProminentExtractor {
	args := prominentcolor.ArgumentNoCropping
	if a == AggregationMean {
		args |= prominentcolor.ArgumentAverageMean
	}
	return &ProminentExtractor{arguments: args}
}

// Extract returns count prominent colours of img.
func (e *ProminentExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}

	raster := toNRGBA(img)
	if err := checkCount(Histogram(raster), count); err != nil {
		return nil, err
	}

	items, err := prominentcolor.KmeansWithAll(count, raster, e.arguments,
		prominentcolor.DefaultSize, []prominentcolor.ColorBackgroundMask{})
	if err != nil {
		return nil, fmt.Errorf("prominent colour extraction failed: %w", err)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, Entry{
			RGB: RGB{
				R: uint8(item.Color.R), // #nosec G115 -- channels are 0-255
				G: uint8(item.Color.G), // #nosec G115 -- channels are 0-255
				B: uint8(item.Color.B), // #nosec G115 -- channels are 0-255
			},
			Count: uint64(max(item.Cnt, 0)),
		})
	}
	sortEntries(entries)

	return NewPalette(entries), nil
}
