// Package colour provides colour extraction and palette generation functionality.
package colour

import (
	"encoding/json"
	"fmt"
	"image/color"
)

// RGB represents an opaque 8-bit colour.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as an upper-case hex string (e.g., "#1A2B3C").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", rgb.R, rgb.G, rgb.B)
}

// key packs the colour into a single integer, used for deterministic ordering.
func (rgb RGB) key() uint32 {
	return uint32(rgb.R)<<16 | uint32(rgb.G)<<8 | uint32(rgb.B)
}

// distanceSq returns the squared Euclidean distance between two colours in RGB space.
func distanceSq(a, b RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// ToRGB converts a color.Color to RGB, discarding alpha.
func ToRGB(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// Entry is one colour of an extracted palette together with the number of
// pixels it represents.
type Entry struct {
	RGB   RGB
	Count uint64
}

// Palette is an ordered list of extracted colours, most dominant first.
type Palette struct {
	Entries []Entry
}

// NewPalette creates a new Palette with the given entries.
func NewPalette(entries []Entry) *Palette {
	return &Palette{
		Entries: entries,
	}
}

// PaletteFromCentroids builds a palette from clustering output, preserving its order.
func PaletteFromCentroids(centroids []Centroid) *Palette {
	entries := make([]Entry, len(centroids))
	for i, c := range centroids {
		entries[i] = Entry{RGB: c.RGB, Count: c.Count}
	}
	return NewPalette(entries)
}

// Len returns the number of colours in the palette.
func (p *Palette) Len() int {
	return len(p.Entries)
}

// Total returns the number of pixels represented by the whole palette.
func (p *Palette) Total() uint64 {
	var total uint64
	for _, e := range p.Entries {
		total += e.Count
	}
	return total
}

// Share returns the fraction of all palette pixels held by the entry at index i.
func (p *Palette) Share(i int) float64 {
	total := p.Total()
	if total == 0 || i < 0 || i >= len(p.Entries) {
		return 0
	}
	return float64(p.Entries[i].Count) / float64(total)
}

// ToHex converts the palette colours to hex strings.
func (p *Palette) ToHex() []string {
	hexColours := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		hexColours[i] = e.RGB.Hex()
	}
	return hexColours
}

// ToRGBSlice returns the palette colours without their counts.
func (p *Palette) ToRGBSlice() []RGB {
	rgbColours := make([]RGB, len(p.Entries))
	for i, e := range p.Entries {
		rgbColours[i] = e.RGB
	}
	return rgbColours
}

// ColourJSON represents a colour in JSON output format.
type ColourJSON struct {
	Hex   string  `json:"hex"`
	RGB   RGB     `json:"rgb"`
	Count uint64  `json:"count"`
	Share float64 `json:"share"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Count   int          `json:"count"`
	Pixels  uint64       `json:"pixels"`
	Colours []ColourJSON `json:"colours"`
}

// ToJSON converts the palette to JSON format.
func (p *Palette) ToJSON() ([]byte, error) {
	colours := make([]ColourJSON, len(p.Entries))
	for i, e := range p.Entries {
		colours[i] = ColourJSON{
			Hex:   e.RGB.Hex(),
			RGB:   e.RGB,
			Count: e.Count,
			Share: p.Share(i),
		}
	}

	return json.MarshalIndent(PaletteJSON{
		Count:   len(p.Entries),
		Pixels:  p.Total(),
		Colours: colours,
	}, "", "  ")
}

// String returns a human-readable string representation of the palette.
func (p *Palette) String() string {
	if len(p.Entries) == 0 {
		return "Empty palette"
	}

	result := fmt.Sprintf("Palette with %d colours:\n", len(p.Entries))
	for i, e := range p.Entries {
		result += fmt.Sprintf("  %2d: %s (%s) x%d\n", i+1, e.RGB.Hex(), e.RGB.String(), e.Count)
	}
	return result
}

// Get returns the entry at the specified index.
func (p *Palette) Get(index int) (Entry, error) {
	if index < 0 || index >= len(p.Entries) {
		return Entry{}, fmt.Errorf("index out of bounds: %d (palette has %d colours)", index, len(p.Entries))
	}
	return p.Entries[index], nil
}

// All returns an iterator over all entries in the palette.
func (p *Palette) All() func(func(int, Entry) bool) {
	return func(yield func(int, Entry) bool) {
		for i, e := range p.Entries {
			if !yield(i, e) {
				return
			}
		}
	}
}
