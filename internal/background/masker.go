// Package background detects a uniform light or dark background from the
// corners of a raster and clears it with a flood fill.
package background

import (
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-hclog"
)

// ErrEmptyRaster is returned for rasters with zero width or height.
var ErrEmptyRaster = errors.New("image has zero width or height")

// marker is written to cleared pixels. Alpha 0 makes it transparent; the RGB
// only shows up in debug snapshots.
var marker = color.NRGBA{R: 255, G: 0, B: 255, A: 0}

// CropCenter returns the central part of img: width and height are halved and
// the window is offset from the origin by a quarter of the new size.
func CropCenter(img image.Image) *image.NRGBA {
	b := img.Bounds()
	size := image.Pt(b.Dx()/2, b.Dy()/2)
	origin := b.Min.Add(image.Pt(size.X/4, size.Y/4))
	return imaging.Crop(img, image.Rectangle{Min: origin, Max: origin.Add(size)})
}

// FloodFill clears every opaque pixel that is ignorable under m and
// 4-connected to a corner through such pixels. It returns the number of
// pixels cleared. A pixel is cleared at most once, so the fill visits at most
// width*height pixels.
func FloodFill(img *image.NRGBA, m Mask) int {
	if m == MaskNone {
		return 0
	}

	b := img.Bounds()
	if b.Empty() {
		return 0
	}

	stack := corners(b)
	cleared := 0
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := img.NRGBAAt(p.X, p.Y)
		if c.A == 0 || !m.Ignorable(c) {
			continue
		}
		img.SetNRGBA(p.X, p.Y, marker)
		cleared++

		neighbours := [4]image.Point{
			{X: p.X - 1, Y: p.Y},
			{X: p.X + 1, Y: p.Y},
			{X: p.X, Y: p.Y - 1},
			{X: p.X, Y: p.Y + 1},
		}
		for _, n := range neighbours {
			if n.In(b) && img.NRGBAAt(n.X, n.Y).A != 0 {
				stack = append(stack, n)
			}
		}
	}
	return cleared
}

// Result is the outcome of background removal.
type Result struct {
	// Image is the masked raster. It never aliases the input image.
	Image *image.NRGBA
	// Mask is the mask that was applied, MaskNone if no background was found.
	Mask Mask
	// Cleared is the number of pixels made transparent by the flood fill.
	Cleared int
}

// Masker removes a detected background from images.
type Masker struct {
	crop   bool
	logger hclog.Logger
}

// NewMasker creates a Masker. With crop set, images are cut to their centre
// before the background is detected. A nil logger discards output.
func NewMasker(crop bool, logger hclog.Logger) *Masker {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Masker{crop: crop, logger: logger}
}

// Remove copies img (cropping it first if configured), detects the background
// mask from its corners and flood fills it. Not finding a background is not
// an error.
func (m *Masker) Remove(img image.Image) (*Result, error) {
	if img == nil {
		return nil, ErrEmptyRaster
	}

	var raster *image.NRGBA
	if m.crop {
		raster = CropCenter(img)
	} else {
		raster = imaging.Clone(img)
	}

	b := raster.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrEmptyRaster
	}

	mask := SelectMask(raster)
	m.logger.Debug("background mask selected", "mask", mask, "width", b.Dx(), "height", b.Dy(), "cropped", m.crop)
	if mask == MaskNone {
		return &Result{Image: raster, Mask: mask}, nil
	}

	cleared := FloodFill(raster, mask)
	m.logger.Debug("background removed", "mask", mask, "cleared", cleared, "pixels", b.Dx()*b.Dy())

	return &Result{Image: raster, Mask: mask, Cleared: cleared}, nil
}
