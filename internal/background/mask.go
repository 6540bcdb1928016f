// Package background detects a uniform light or dark background from the
// corners of a raster and clears it with a flood fill.
package background

import (
	"image"
	"image/color"
)

// Mask is the background classification selected for a raster.
type Mask int

const (
	// MaskNone means no background was detected.
	MaskNone Mask = iota
	// MaskLight treats pixels with every channel >= 200 as background.
	MaskLight
	// MaskDark treats pixels with every channel <= 55 as background.
	MaskDark
)

const (
	lightThreshold uint8 = 200
	darkThreshold  uint8 = 55
)

// maskPriority is the order in which masks are tried against the corners.
var maskPriority = [...]Mask{MaskLight, MaskDark}

// String returns the mask name.
func (m Mask) String() string {
	switch m {
	case MaskLight:
		return "light"
	case MaskDark:
		return "dark"
	default:
		return "none"
	}
}

// Threshold returns the channel threshold of the mask, or 0 for MaskNone.
func (m Mask) Threshold() uint8 {
	switch m {
	case MaskLight:
		return lightThreshold
	case MaskDark:
		return darkThreshold
	default:
		return 0
	}
}

// Ignorable reports whether c counts as background under the mask.
// Transparent pixels are always ignorable.
func (m Mask) Ignorable(c color.NRGBA) bool {
	if c.A == 0 {
		return true
	}

	switch m {
	case MaskDark:
		return c.R <= darkThreshold && c.G <= darkThreshold && c.B <= darkThreshold
	case MaskLight:
		return c.R >= lightThreshold && c.G >= lightThreshold && c.B >= lightThreshold
	default:
		return false
	}
}

// corners returns the four corner points of r in flood-fill seed order.
func corners(r image.Rectangle) []image.Point {
	return []image.Point{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X - 1, Y: r.Min.Y},
		{X: r.Min.X, Y: r.Max.Y - 1},
		{X: r.Max.X - 1, Y: r.Max.Y - 1},
	}
}

// SelectMask returns the first mask under which all four corners of img are
// ignorable, or MaskNone.
func SelectMask(img *image.NRGBA) Mask {
	points := corners(img.Bounds())
	for _, m := range maskPriority {
		matched := true
		for _, p := range points {
			if !m.Ignorable(img.NRGBAAt(p.X, p.Y)) {
				matched = false
				break
			}
		}
		if matched {
			return m
		}
	}
	return MaskNone
}
