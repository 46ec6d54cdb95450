package utils

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestLetterbox_WideImage(t *testing.T) {
	img := solidImage(100, 50, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	got, err := Letterbox(img, 64, 0)
	require.NoError(t, err)
	assert.Equal(t, 64, got.Bounds().Dx())
	assert.Equal(t, 64, got.Bounds().Dy())

	w, h, pad := LetterboxGeometry(100, 50, 64)
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)
	assert.Equal(t, Padding{Top: 16, Bottom: 16}, pad)

	// Padding rows carry the fill value, the middle carries the image.
	assert.Equal(t, color.NRGBA{A: 255}, got.NRGBAAt(10, 0))
	assert.Equal(t, color.NRGBA{A: 255}, got.NRGBAAt(10, 63))
	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 255}, got.NRGBAAt(32, 32))
}

func TestLetterbox_TallImageUsesHorizontalPadding(t *testing.T) {
	img := solidImage(30, 90, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	got, err := Letterbox(img, 96, 128)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 96, 96), got.Bounds())

	w, h, pad := LetterboxGeometry(30, 90, 96)
	assert.Equal(t, 32, w)
	assert.Equal(t, 96, h)
	assert.Equal(t, Padding{Left: 32, Right: 32}, pad)
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, got.NRGBAAt(0, 48))
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, got.NRGBAAt(95, 48))
}

func TestLetterboxGeometry_OddRemainderGoesToLeadingSide(t *testing.T) {
	// 10x7 on a 10 canvas leaves 3 rows of padding.
	w, h, pad := LetterboxGeometry(10, 7, 10)
	assert.Equal(t, 10, w)
	assert.Equal(t, 7, h)
	assert.Equal(t, 2, pad.Top)
	assert.Equal(t, 1, pad.Bottom)
	assert.Equal(t, 10, h+pad.Top+pad.Bottom)
}

func TestLetterboxGeometry_RoundsHalfToEven(t *testing.T) {
	// 5/8 * 4 = 2.5 rounds to 2.
	w, h, pad := LetterboxGeometry(8, 5, 4)
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, Padding{Top: 1, Bottom: 1}, pad)

	// 7/8 * 4 = 3.5 rounds to 4.
	_, h, pad = LetterboxGeometry(8, 7, 4)
	assert.Equal(t, 4, h)
	assert.Equal(t, Padding{}, pad)
}

func TestLetterbox_SquareImageHasNoPadding(t *testing.T) {
	img := solidImage(40, 40, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	got, err := Letterbox(img, 40, 0)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, got.Pix)
}

func TestLetterbox_DropsAlpha(t *testing.T) {
	img := solidImage(20, 10, color.NRGBA{R: 9, G: 9, B: 9, A: 10})
	got, err := Letterbox(img, 20, 0)
	require.NoError(t, err)
	for i := 3; i < len(got.Pix); i += 4 {
		require.Equal(t, uint8(255), got.Pix[i])
	}
}

func TestLetterbox_InvalidInputs(t *testing.T) {
	_, err := Letterbox(nil, 64, 0)
	require.Error(t, err)

	_, err = Letterbox(image.NewNRGBA(image.Rect(0, 0, 0, 10)), 64, 0)
	require.Error(t, err)
	var ipe *ImageProcessingError
	require.True(t, errors.As(err, &ipe))
	assert.Equal(t, "letterbox", ipe.Operation)

	_, err = Letterbox(solidImage(4, 4, color.NRGBA{A: 255}), 0, 0)
	require.Error(t, err)
}

func TestToNRGBA_NonRGBAInputs(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 2))
	for i := range gray.Pix {
		gray.Pix[i] = 77
	}
	got := ToNRGBA(gray)
	assert.Equal(t, image.Rect(0, 0, 4, 2), got.Bounds())
	assert.Equal(t, color.NRGBA{R: 77, G: 77, B: 77, A: 255}, got.NRGBAAt(3, 1))
}

func TestRoundHalfEven(t *testing.T) {
	assert.Equal(t, 2, RoundHalfEven(2.5))
	assert.Equal(t, 4, RoundHalfEven(3.5))
	assert.Equal(t, 2, RoundHalfEven(2.1))
	assert.Equal(t, 0, RoundHalfEven(0.5))
	assert.Equal(t, 1, RoundHalfEven(0.6))
}
