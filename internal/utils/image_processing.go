package utils

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// ImageProcessingError represents errors that can occur during image processing.
type ImageProcessingError struct {
	Operation string
	Path      string
	Err       error
}

func (e *ImageProcessingError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("image processing error in %s (%s): %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("image processing error in %s: %v", e.Operation, e.Err)
}

func (e *ImageProcessingError) Unwrap() error { return e.Err }

// Padding holds the number of fill pixels added on each side of a canvas.
type Padding struct {
	Top, Bottom, Left, Right int
}

// RoundHalfEven rounds to the nearest integer, ties to even.
func RoundHalfEven(v float64) int {
	return int(math.RoundToEven(v))
}

// LetterboxGeometry computes the scaled size of a w x h image placed on a
// size x size canvas and the padding around it. The longer side becomes
// exactly size; the shorter side is rounded half-to-even and padded with the
// odd pixel, if any, on the leading (top or left) side.
func LetterboxGeometry(w, h, size int) (scaledW, scaledH int, pad Padding) {
	if h >= w {
		scaledH = size
		scaledW = RoundHalfEven(float64(w) / float64(h) * float64(size))
		if scaledW < 1 {
			scaledW = 1
		}
		raw := float64(size-scaledW) / 2
		pad.Left = int(math.Ceil(raw))
		pad.Right = int(math.Floor(raw))
		return scaledW, scaledH, pad
	}
	scaledW = size
	scaledH = RoundHalfEven(float64(h) / float64(w) * float64(size))
	if scaledH < 1 {
		scaledH = 1
	}
	raw := float64(size-scaledH) / 2
	pad.Top = int(math.Ceil(raw))
	pad.Bottom = int(math.Floor(raw))
	return scaledW, scaledH, pad
}

// Letterbox scales img so that its longer side equals size and pads the
// shorter side with the gray value fill, returning an opaque size x size image.
// No cropping ever occurs.
func Letterbox(img image.Image, size int, fill uint8) (*image.NRGBA, error) {
	if img == nil {
		return nil, &ImageProcessingError{Operation: "letterbox", Err: errors.New("input image is nil")}
	}
	if size <= 0 {
		return nil, &ImageProcessingError{Operation: "letterbox", Err: fmt.Errorf("invalid canvas size: %d", size)}
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, &ImageProcessingError{
			Operation: "letterbox",
			Err:       fmt.Errorf("invalid image dimensions: %dx%d", w, h),
		}
	}

	scaledW, scaledH, pad := LetterboxGeometry(w, h, size)
	resized := imaging.Resize(img, scaledW, scaledH, imaging.Linear)

	canvas := imaging.New(size, size, color.NRGBA{R: fill, G: fill, B: fill, A: 255})
	canvas = imaging.Paste(canvas, resized, image.Pt(pad.Left, pad.Top))
	makeOpaque(canvas)
	return canvas, nil
}

// ToNRGBA returns an opaque NRGBA copy of img.
func ToNRGBA(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	makeOpaque(out)
	return out
}

// makeOpaque drops any alpha information; generated images are 3-channel.
func makeOpaque(img *image.NRGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
}
