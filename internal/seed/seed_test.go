package seed

import (
	"image"
	"image/color"
	"os"
	"testing"
)

func TestCalculate(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 1, color.NRGBA{R: 200, A: 255})
	value := int64(42)

	tests := []struct {
		name    string
		img     image.Image
		path    string
		cfg     Config
		want    int64
		check   bool
		wantErr bool
	}{
		{name: "manual", cfg: Config{Mode: ModeManual, Value: &value}, want: 42, check: true},
		{name: "manual without value", cfg: Config{Mode: ModeManual}, wantErr: true},
		{name: "content", img: img, cfg: Config{Mode: ModeContent}, want: ContentSeed(img), check: true},
		{name: "content without image", cfg: Config{Mode: ModeContent}, wantErr: true},
		{name: "filepath", path: "a.png", cfg: Config{Mode: ModeFilepath}, want: FilepathSeed("a.png"), check: true},
		{name: "filepath without path", cfg: Config{Mode: ModeFilepath}, wantErr: true},
		{name: "random", cfg: Config{Mode: ModeRandom}},
		{name: "unknown", cfg: Config{Mode: "lunar"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.img, tt.path, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Calculate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check && got != tt.want {
				t.Errorf("Calculate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestContentSeedDependsOnPixels(t *testing.T) {
	a := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	b := image.NewNRGBA(image.Rect(0, 0, 3, 3))

	if ContentSeed(a) != ContentSeed(b) {
		t.Error("identical images produced different seeds")
	}
	b.SetNRGBA(2, 2, color.NRGBA{G: 1, A: 255})
	if ContentSeed(a) == ContentSeed(b) {
		t.Error("different images produced the same seed")
	}
}

func TestFilepathSeedResolvesRelativePaths(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if FilepathSeed("img.png") != FilepathSeed("./img.png") {
		t.Error("equivalent relative paths produced different seeds")
	}
	if FilepathSeed("https://x.test/a.png") == FilepathSeed("https://x.test/b.png") {
		t.Error("different URLs produced the same seed")
	}
}

func TestNewIsReproducible(t *testing.T) {
	a, b := New(7), New(7)
	for i := 0; i < 5; i++ {
		if a.Int63() != b.Int63() {
			t.Fatal("generators with the same seed diverged")
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range ValidModes() {
		got, err := ParseMode(string(m))
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %q, %v", m, got, err)
		}
	}
	if got, err := ParseMode("Content"); err != nil || got != ModeContent {
		t.Errorf("ParseMode is not case-insensitive: %q, %v", got, err)
	}
	if _, err := ParseMode("sometimes"); err == nil {
		t.Error("ParseMode(invalid) expected error")
	}
}

func TestDefaultMode(t *testing.T) {
	t.Setenv(EnvMode, "")
	if got := DefaultMode(); got != ModeRandom {
		t.Errorf("DefaultMode() = %q, want random", got)
	}

	t.Setenv(EnvMode, "content")
	if got := DefaultMode(); got != ModeContent {
		t.Errorf("DefaultMode() = %q, want content", got)
	}

	t.Setenv(EnvMode, "bogus")
	if got := DefaultMode(); got != ModeRandom {
		t.Errorf("DefaultMode() with invalid env = %q, want random", got)
	}
}
