package extract

import (
	"errors"
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/go-cmp/cmp"

	"github.com/jmylchreest/colormap/internal/colour"
	"github.com/jmylchreest/colormap/internal/seed"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

func testConfig(k int) Config {
	cfg := DefaultConfig()
	cfg.Colours = k
	return cfg
}

func TestDominantColoursDarkFrame(t *testing.T) {
	img := imaging.New(3, 3, black)
	img.SetNRGBA(1, 1, red)

	palette, err := DominantColours(img, testConfig(1), seed.New(1), nil)
	if err != nil {
		t.Fatalf("DominantColours() error = %v", err)
	}

	want := []colour.Entry{{RGB: colour.RGB{R: 255}, Count: 1}}
	if diff := cmp.Diff(want, palette.Entries); diff != "" {
		t.Errorf("DominantColours() mismatch (-want +got):\n%s", diff)
	}
	if got := palette.ToHex(); got[0] != "#FF0000" {
		t.Errorf("hex = %q, want #FF0000", got[0])
	}
}

func TestDominantColoursAllBackground(t *testing.T) {
	_, err := DominantColours(imaging.New(2, 2, white), testConfig(1), seed.New(1), nil)
	if !errors.Is(err, colour.ErrEmptyPalette) {
		t.Errorf("DominantColours() error = %v, want ErrEmptyPalette", err)
	}
}

func TestDominantColoursInsufficient(t *testing.T) {
	// Red and blue squares on white: two colours survive masking.
	img := imaging.New(6, 6, white)
	img.SetNRGBA(2, 2, red)
	img.SetNRGBA(3, 3, blue)

	_, err := DominantColours(img, testConfig(3), seed.New(1), nil)
	var insufficient *colour.InsufficientColoursError
	if !errors.As(err, &insufficient) {
		t.Fatalf("DominantColours() error = %v, want *InsufficientColoursError", err)
	}
	if insufficient.K != 3 || insufficient.Found != 2 {
		t.Errorf("error = %+v, want K=3 Found=2", insufficient)
	}
}

func TestDominantColoursOrdering(t *testing.T) {
	img := imaging.New(10, 10, white)
	for y := 1; y < 9; y++ {
		for x := 1; x < 9; x++ {
			img.SetNRGBA(x, y, red)
		}
	}
	for y := 3; y < 5; y++ {
		for x := 3; x < 5; x++ {
			img.SetNRGBA(x, y, blue)
		}
	}

	palette, err := DominantColours(img, testConfig(2), seed.New(5), nil)
	if err != nil {
		t.Fatalf("DominantColours() error = %v", err)
	}
	want := []colour.Entry{
		{RGB: colour.RGB{R: 255}, Count: 60},
		{RGB: colour.RGB{B: 255}, Count: 4},
	}
	if diff := cmp.Diff(want, palette.Entries); diff != "" {
		t.Errorf("DominantColours() mismatch (-want +got):\n%s", diff)
	}
}

func TestDominantColoursCrop(t *testing.T) {
	// A blue border around a white centre that contains one red pixel.
	// Without cropping the corners are blue and nothing is removed.
	img := imaging.New(16, 16, blue)
	for y := 2; y < 10; y++ {
		for x := 2; x < 10; x++ {
			img.SetNRGBA(x, y, white)
		}
	}
	img.SetNRGBA(5, 5, red)

	cfg := testConfig(1)
	cfg.Crop = true
	palette, err := DominantColours(img, cfg, seed.New(1), nil)
	if err != nil {
		t.Fatalf("DominantColours() error = %v", err)
	}
	want := []colour.Entry{{RGB: colour.RGB{R: 255}, Count: 1}}
	if diff := cmp.Diff(want, palette.Entries); diff != "" {
		t.Errorf("DominantColours() mismatch (-want +got):\n%s", diff)
	}
}

func TestDominantColoursDoesNotModifyInput(t *testing.T) {
	img := imaging.New(3, 3, black)
	img.SetNRGBA(1, 1, red)
	before := imaging.Clone(img)

	if _, err := DominantColours(img, testConfig(1), seed.New(1), nil); err != nil {
		t.Fatalf("DominantColours() error = %v", err)
	}
	if diff := cmp.Diff(before.Pix, img.Pix); diff != "" {
		t.Errorf("input image modified (-before +after):\n%s", diff)
	}
}

func TestDominantColoursDebugSnapshot(t *testing.T) {
	dir := t.TempDir()
	img := imaging.New(3, 3, black)
	img.SetNRGBA(1, 1, red)

	cfg := testConfig(1)
	cfg.Debug = true
	cfg.DebugDir = dir
	if _, err := DominantColours(img, cfg, seed.New(1), nil); err != nil {
		t.Fatalf("DominantColours() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("debug dir has %d files, want 1", len(entries))
	}
}

func TestDominantColoursDownscale(t *testing.T) {
	img := imaging.New(64, 64, white)
	for y := 16; y < 48; y++ {
		for x := 16; x < 48; x++ {
			img.SetNRGBA(x, y, red)
		}
	}

	cfg := testConfig(1)
	cfg.MaxDimension = 16
	palette, err := DominantColours(img, cfg, seed.New(1), nil)
	if err != nil {
		t.Fatalf("DominantColours() error = %v", err)
	}
	if got := palette.Entries[0]; got.RGB != (colour.RGB{R: 255}) || got.Count != 64 {
		t.Errorf("DominantColours() = %+v, want red with 64 pixels", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero colours", func(c *Config) { c.Colours = 0 }},
		{"unknown algorithm", func(c *Config) { c.Algorithm = "octree" }},
		{"bad aggregation", func(c *Config) { c.Aggregation = "mode" }},
		{"negative max dimension", func(c *Config) { c.MaxDimension = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error")
			}
			if _, err := DominantColours(image.NewNRGBA(image.Rect(0, 0, 1, 1)), cfg, seed.New(1), nil); err == nil {
				t.Error("DominantColours() expected error")
			}
		})
	}
}

func TestDefaultConfigDebugDirFromEnv(t *testing.T) {
	t.Setenv(EnvDebugDir, "/tmp/colormap-debug")
	if got := DefaultConfig().DebugDir; got != "/tmp/colormap-debug" {
		t.Errorf("DebugDir = %q, want env override", got)
	}
}
