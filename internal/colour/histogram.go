// Package colour provides colour extraction and palette generation functionality.
package colour

import (
	"cmp"
	"image"
	"slices"

	"github.com/disintegration/imaging"
)

// Bucket is one distinct opaque colour and the number of pixels sharing it.
type Bucket struct {
	RGB   RGB
	Count uint64
}

// Histogram counts every distinct opaque colour in img. Fully transparent
// pixels are skipped. Buckets are ordered by their packed RGB value.
func Histogram(img *image.NRGBA) []Bucket {
	counts := make(map[RGB]uint64)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, i = x+1, i+4 {
			px := img.Pix[i : i+4 : i+4]
			if px[3] == 0 {
				continue
			}
			counts[RGB{R: px[0], G: px[1], B: px[2]}]++
		}
	}

	buckets := make([]Bucket, 0, len(counts))
	for rgb, n := range counts {
		buckets = append(buckets, Bucket{RGB: rgb, Count: n})
	}
	slices.SortFunc(buckets, func(a, b Bucket) int {
		return cmp.Compare(a.RGB.key(), b.RGB.key())
	})
	return buckets
}

// toNRGBA returns img as an NRGBA raster, copying only when necessary.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	return imaging.Clone(img)
}
