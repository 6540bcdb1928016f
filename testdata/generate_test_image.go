//go:build ignore

// Test image generator for background removal and colour extraction.
// Run with: go run testdata/generate_test_image.go
package main

import (
	"image"
	"image/color"
	"log"

	"github.com/disintegration/imaging"
)

func main() {
	// White backdrop with a red square and a smaller blue square inside a
	// black frame. The frame keeps the inner white island away from the
	// flood fill, so it must survive masking.
	img := imaging.New(200, 200, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	fill := func(r image.Rectangle, c color.NRGBA) {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetNRGBA(x, y, c)
			}
		}
	}

	fill(image.Rect(20, 20, 120, 120), color.NRGBA{R: 255, A: 255})
	fill(image.Rect(130, 130, 180, 180), color.NRGBA{B: 255, A: 255})
	fill(image.Rect(20, 140, 100, 190), color.NRGBA{A: 255})
	fill(image.Rect(30, 150, 90, 180), color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	if err := imaging.Save(img, "testdata/sample.png"); err != nil {
		log.Fatalf("failed to save image: %v", err)
	}
	log.Println("test image created: testdata/sample.png")
}
