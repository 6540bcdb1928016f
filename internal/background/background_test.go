package background

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
	red   = color.NRGBA{R: 255, A: 255}
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	return imaging.New(w, h, c)
}

// framed returns a 3x3 raster with a black border and a red centre.
func framed() *image.NRGBA {
	img := solid(3, 3, black)
	img.SetNRGBA(1, 1, red)
	return img
}

func TestMaskIgnorable(t *testing.T) {
	tests := []struct {
		name string
		mask Mask
		c    color.NRGBA
		want bool
	}{
		{"light at threshold", MaskLight, color.NRGBA{R: 200, G: 200, B: 200, A: 255}, true},
		{"light one channel below", MaskLight, color.NRGBA{R: 255, G: 199, B: 255, A: 255}, false},
		{"dark at threshold", MaskDark, color.NRGBA{R: 55, G: 55, B: 55, A: 255}, true},
		{"dark one channel above", MaskDark, color.NRGBA{R: 0, G: 56, B: 0, A: 255}, false},
		{"transparent under light", MaskLight, color.NRGBA{R: 10}, true},
		{"transparent under none", MaskNone, color.NRGBA{}, true},
		{"opaque under none", MaskNone, white, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mask.Ignorable(tt.c); got != tt.want {
				t.Errorf("%s.Ignorable(%v) = %v, want %v", tt.mask, tt.c, got, tt.want)
			}
		})
	}
}

func TestSelectMask(t *testing.T) {
	mixed := solid(4, 4, white)
	mixed.SetNRGBA(3, 3, black)

	grey := solid(2, 2, color.NRGBA{R: 128, G: 128, B: 128, A: 255})

	transparent := image.NewNRGBA(image.Rect(0, 0, 2, 2))

	tests := []struct {
		name string
		img  *image.NRGBA
		want Mask
	}{
		{"white corners", solid(5, 5, white), MaskLight},
		{"black corners", framed(), MaskDark},
		{"mixed corners", mixed, MaskNone},
		{"grey corners", grey, MaskNone},
		{"transparent corners prefer light", transparent, MaskLight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectMask(tt.img); got != tt.want {
				t.Errorf("SelectMask() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMaskThreshold(t *testing.T) {
	if MaskLight.Threshold() != 200 || MaskDark.Threshold() != 55 || MaskNone.Threshold() != 0 {
		t.Errorf("unexpected thresholds: light=%d dark=%d none=%d",
			MaskLight.Threshold(), MaskDark.Threshold(), MaskNone.Threshold())
	}
}

func TestRemoveAllWhite(t *testing.T) {
	res, err := NewMasker(false, nil).Remove(solid(2, 2, white))
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if res.Mask != MaskLight {
		t.Errorf("Mask = %s, want light", res.Mask)
	}
	if res.Cleared != 4 {
		t.Errorf("Cleared = %d, want 4", res.Cleared)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := res.Image.NRGBAAt(x, y); got != marker {
				t.Errorf("pixel (%d,%d) = %v, want marker %v", x, y, got, marker)
			}
		}
	}
}

func TestRemoveDarkFrame(t *testing.T) {
	src := framed()
	res, err := NewMasker(false, nil).Remove(src)
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if res.Mask != MaskDark {
		t.Errorf("Mask = %s, want dark", res.Mask)
	}
	if res.Cleared != 8 {
		t.Errorf("Cleared = %d, want 8", res.Cleared)
	}
	if got := res.Image.NRGBAAt(1, 1); got != red {
		t.Errorf("centre = %v, want %v", got, red)
	}

	// The input raster is never modified.
	if got := src.NRGBAAt(0, 0); got != black {
		t.Errorf("input corner changed to %v", got)
	}
	if &src.Pix[0] == &res.Image.Pix[0] {
		t.Error("result aliases the input raster")
	}
}

func TestFloodFillLeavesEnclosedRegions(t *testing.T) {
	// White canvas, a red ring from (1,1) to (5,5) and a white island inside.
	img := solid(7, 7, white)
	for i := 1; i <= 5; i++ {
		img.SetNRGBA(i, 1, red)
		img.SetNRGBA(i, 5, red)
		img.SetNRGBA(1, i, red)
		img.SetNRGBA(5, i, red)
	}

	cleared := FloodFill(img, MaskLight)
	if want := 49 - 25; cleared != want {
		t.Errorf("FloodFill() cleared %d, want %d", cleared, want)
	}

	for y := 0; y < 7; y++ {
		for x := 0; x < 7; x++ {
			inside := x >= 1 && x <= 5 && y >= 1 && y <= 5
			transparent := img.NRGBAAt(x, y).A == 0
			if inside == transparent {
				t.Errorf("pixel (%d,%d): transparent=%v, want %v", x, y, transparent, !inside)
			}
		}
	}
}

func TestFloodFillStopsAtNonMatchingCorner(t *testing.T) {
	img := solid(3, 1, red)
	img.SetNRGBA(0, 0, white)

	if cleared := FloodFill(img, MaskLight); cleared != 1 {
		t.Errorf("FloodFill() cleared %d, want 1", cleared)
	}
	if got := img.NRGBAAt(1, 0); got != red {
		t.Errorf("pixel (1,0) = %v, want untouched red", got)
	}
}

func TestFloodFillMaskNone(t *testing.T) {
	img := solid(2, 2, white)
	if cleared := FloodFill(img, MaskNone); cleared != 0 {
		t.Errorf("FloodFill(MaskNone) cleared %d, want 0", cleared)
	}
}

func TestFloodFillIsIdempotent(t *testing.T) {
	img := framed()
	FloodFill(img, MaskDark)
	if cleared := FloodFill(img, MaskDark); cleared != 0 {
		t.Errorf("second FloodFill() cleared %d, want 0", cleared)
	}
}

func TestCropCenter(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}

	got := CropCenter(img)
	if size := got.Bounds().Size(); size != image.Pt(8, 4) {
		t.Fatalf("CropCenter() size = %v, want (8,4)", size)
	}
	// Origin is offset by a quarter of the new size: (2, 1).
	if c := got.NRGBAAt(0, 0); c.R != 2 || c.G != 1 {
		t.Errorf("CropCenter() origin pixel = %v, want source (2,1)", c)
	}
}

func TestRemoveWithCrop(t *testing.T) {
	// Red canvas, so only cropping can expose the white centre.
	img := solid(16, 16, red)
	for y := 2; y < 10; y++ {
		for x := 2; x < 10; x++ {
			img.SetNRGBA(x, y, white)
		}
	}

	res, err := NewMasker(true, nil).Remove(img)
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if size := res.Image.Bounds().Size(); size != image.Pt(8, 8) {
		t.Errorf("size = %v, want (8,8)", size)
	}
	if res.Mask != MaskLight || res.Cleared != 64 {
		t.Errorf("Mask = %s, Cleared = %d, want light and 64", res.Mask, res.Cleared)
	}
}

func TestRemoveEmptyRaster(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
		crop bool
	}{
		{"nil image", nil, false},
		{"zero width", image.NewNRGBA(image.Rect(0, 0, 0, 4)), false},
		{"crop to nothing", solid(1, 1, white), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMasker(tt.crop, nil).Remove(tt.img)
			if !errors.Is(err, ErrEmptyRaster) {
				t.Errorf("Remove() error = %v, want ErrEmptyRaster", err)
			}
		})
	}
}

func TestRemoveNoBackground(t *testing.T) {
	img := solid(3, 3, red)
	res, err := NewMasker(false, nil).Remove(img)
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if res.Mask != MaskNone || res.Cleared != 0 {
		t.Errorf("Mask = %s, Cleared = %d, want none and 0", res.Mask, res.Cleared)
	}
}

func TestSaveSnapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "debug")

	res, err := NewMasker(false, nil).Remove(framed())
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	path, err := SaveSnapshot(res.Image, dir)
	if err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	if filepath.Dir(path) != dir || !strings.HasPrefix(filepath.Base(path), "tmp_") || filepath.Ext(path) != ".png" {
		t.Errorf("SaveSnapshot() path = %q", path)
	}

	saved, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("failed to reopen snapshot: %v", err)
	}
	if _, _, _, a := saved.At(0, 0).RGBA(); a != 0 {
		t.Errorf("snapshot corner alpha = %d, want 0", a)
	}
}
