// Package colour provides colour extraction and palette generation functionality.
package colour

import (
	"fmt"
	"image"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// labObservation is one histogram bucket expressed in CIE Lab space.
type labObservation struct {
	coords clusters.Coordinates
	count  uint64
}

func (o labObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o labObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// LabExtractor clusters the colour histogram in CIE Lab space using
// muesli/kmeans. Each distinct colour is one observation.
type LabExtractor struct{}

// NewLabExtractor creates a new LabExtractor.
func NewLabExtractor() *LabExtractor {
	return &LabExtractor{}
}

// Extract clusters the distinct opaque colours of img into count Lab-space groups.
func (e *LabExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}

	buckets := Histogram(toNRGBA(img))
	if err := checkCount(buckets, count); err != nil {
		return nil, err
	}

	dataset := make(clusters.Observations, 0, len(buckets))
	for _, b := range buckets {
		l, a, bb := colourful(b.RGB).Lab()
		dataset = append(dataset, labObservation{
			coords: clusters.Coordinates{l, a, bb},
			count:  b.Count,
		})
	}

	cc, err := kmeans.New().Partition(dataset, count)
	if err != nil {
		return nil, fmt.Errorf("lab k-means failed: %w", err)
	}

	entries := make([]Entry, 0, len(cc))
	for _, c := range cc {
		// Cluster centres are only recomputed after a pass that moved a
		// point, so take the colour from the members instead.
		var n uint64
		var l, a, bb float64
		for _, o := range c.Observations {
			lo, ok := o.(labObservation)
			if !ok {
				continue
			}
			w := float64(lo.count)
			l += lo.coords[0] * w
			a += lo.coords[1] * w
			bb += lo.coords[2] * w
			n += lo.count
		}
		if n == 0 {
			continue
		}
		w := float64(n)
		r, g, b := colorful.Lab(l/w, a/w, bb/w).Clamped().RGB255()
		entries = append(entries, Entry{RGB: RGB{R: r, G: g, B: b}, Count: n})
	}
	sortEntries(entries)

	return NewPalette(entries), nil
}

// colourful converts an RGB to a go-colorful colour.
func colourful(rgb RGB) colorful.Color {
	return colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
}
