package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genTestImage generates a simple gradient test image.
func genTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			val := uint8((x + y) % 256)
			img.Set(x, y, color.RGBA{val, val, val, 255})
		}
	}
	return img
}

// TestLetterboxGeometry_CanvasInvariant verifies the scaled image plus padding
// always fills the canvas exactly and the padding is balanced.
func TestLetterboxGeometry_CanvasInvariant(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("scaled size plus padding equals canvas size", prop.ForAll(
		func(w, h, size int) bool {
			sw, sh, pad := LetterboxGeometry(w, h, size)
			if sw+pad.Left+pad.Right != size || sh+pad.Top+pad.Bottom != size {
				return false
			}
			if pad.Left < 0 || pad.Right < 0 || pad.Top < 0 || pad.Bottom < 0 {
				return false
			}
			// Longer side maps to exactly size.
			if w > h && sw != size {
				return false
			}
			if h >= w && sh != size {
				return false
			}
			// Leading side gets the odd pixel.
			if d := pad.Left - pad.Right; d < 0 || d > 1 {
				return false
			}
			if d := pad.Top - pad.Bottom; d < 0 || d > 1 {
				return false
			}
			return true
		},
		gen.IntRange(1, 2000),
		gen.IntRange(1, 2000),
		gen.IntRange(1, 512),
	))

	properties.TestingRun(t)
}

// TestLetterbox_OutputIsAlwaysSquare runs the full normalizer on small images.
func TestLetterbox_OutputIsAlwaysSquare(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("output is size x size", prop.ForAll(
		func(w, h, size int) bool {
			img := genTestImage(w, h)
			out, err := Letterbox(img, size, 0)
			if err != nil {
				return false
			}
			b := out.Bounds()
			return b.Dx() == size && b.Dy() == size
		},
		gen.IntRange(1, 120),
		gen.IntRange(1, 120),
		gen.IntRange(1, 64),
	))

	properties.TestingRun(t)
}
