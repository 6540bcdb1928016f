// Package seed derives the random seed used for k-means++ seeding and builds
// the generator that the clusterer draws from.
package seed

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"image"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// EnvMode names the environment variable that overrides the default seed mode.
const EnvMode = "COLORMAP_SEED_MODE"

// Mode determines how the random seed is generated.
type Mode string

const (
	// ModeContent hashes the image content, so the same pixels give the same palette.
	ModeContent Mode = "content"
	// ModeFilepath hashes the absolute file path.
	ModeFilepath Mode = "filepath"
	// ModeManual uses a user-provided seed value.
	ModeManual Mode = "manual"
	// ModeRandom uses a different seed on every run.
	ModeRandom Mode = "random"
)

// Config holds configuration for seed generation.
type Config struct {
	Mode  Mode   // Seed mode
	Value *int64 // Seed value (only used when Mode is ModeManual)
}

// DefaultMode returns the seed mode from COLORMAP_SEED_MODE, or ModeRandom
// when it is unset or invalid.
func DefaultMode() Mode {
	if m, err := ParseMode(os.Getenv(EnvMode)); err == nil {
		return m
	}
	return ModeRandom
}

// New returns a generator seeded with seed.
func New(seed int64) *rand.Rand {
	// #nosec G404 -- palette seeding does not need a cryptographic source
	return rand.New(rand.NewSource(seed))
}

// Calculate determines the seed value based on the seed mode.
func Calculate(img image.Image, imagePath string, config Config) (int64, error) {
	switch config.Mode {
	case ModeContent:
		if img == nil {
			return 0, fmt.Errorf("image is required for content-based seed mode")
		}
		return ContentSeed(img), nil
	case ModeFilepath:
		if imagePath == "" {
			return 0, fmt.Errorf("image path is required for filepath-based seed mode")
		}
		return FilepathSeed(imagePath), nil
	case ModeManual:
		if config.Value == nil {
			return 0, fmt.Errorf("seed value is required for manual seed mode")
		}
		return *config.Value, nil
	case ModeRandom:
		return RandomSeed(), nil
	default:
		return 0, fmt.Errorf("unknown seed mode: %s", config.Mode)
	}
}

// ContentSeed hashes the image dimensions and a grid of its pixels.
func ContentSeed(img image.Image) int64 {
	bounds := img.Bounds()
	hasher := sha256.New()

	var dims [8]byte
	binary.LittleEndian.PutUint32(dims[0:4], uint32(bounds.Dx())) // #nosec G115 -- image dimensions are safe to convert
	binary.LittleEndian.PutUint32(dims[4:8], uint32(bounds.Dy())) // #nosec G115 -- image dimensions are safe to convert
	hasher.Write(dims[:])

	step := max(bounds.Dx()/100, bounds.Dy()/100, 1)
	var px [4]byte
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, a := img.At(x, y).RGBA()
			px[0], px[1], px[2], px[3] = byte(r>>8), byte(g>>8), byte(b>>8), byte(a>>8)
			hasher.Write(px[:])
		}
	}

	return int64(binary.LittleEndian.Uint64(hasher.Sum(nil)[:8])) // #nosec G115 -- hash conversion is safe
}

// FilepathSeed hashes the absolute form of imagePath. URLs are hashed as-is.
func FilepathSeed(imagePath string) int64 {
	key := imagePath
	if !strings.HasPrefix(imagePath, "http://") && !strings.HasPrefix(imagePath, "https://") {
		if abs, err := filepath.Abs(imagePath); err == nil {
			key = abs
		}
	}

	sum := sha256.Sum256([]byte(key))
	return int64(binary.LittleEndian.Uint64(sum[:8])) // #nosec G115 -- hash conversion is safe
}

// RandomSeed generates a non-deterministic seed.
func RandomSeed() int64 {
	return time.Now().UnixNano()
}

// ValidModes returns a list of valid seed modes.
func ValidModes() []Mode {
	return []Mode{ModeContent, ModeFilepath, ModeManual, ModeRandom}
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	mode := Mode(strings.ToLower(s))
	if slices.Contains(ValidModes(), mode) {
		return mode, nil
	}
	return "", fmt.Errorf("invalid seed mode: %q (valid: content, filepath, manual, random)", s)
}
