package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ImageSize represents image dimensions.
type ImageSize struct {
	Width  int
	Height int
}

var (
	// Common sample sizes: portrait covers, landscape scans and a square.
	CoverSize     = ImageSize{60, 90}
	LandscapeSize = ImageSize{100, 50}
	SquareSize    = ImageSize{64, 64}
)

// CoverConfig describes a synthetic sample image: a colored background with
// a horizontal gradient and a line of text.
type CoverConfig struct {
	Text       string
	Size       ImageSize
	Background color.NRGBA
	Foreground color.Color
}

// DefaultCoverConfig returns a default configuration for sample images.
func DefaultCoverConfig() CoverConfig {
	return CoverConfig{
		Text:       "Sample",
		Size:       CoverSize,
		Background: color.NRGBA{R: 180, G: 60, B: 40, A: 255},
		Foreground: color.White,
	}
}

// GenerateCover renders a synthetic sample image.
func GenerateCover(config CoverConfig) *image.NRGBA {
	w, h := config.Size.Width, config.Size.Height
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			shade := uint8(x * 60 / max(w, 1))
			img.SetNRGBA(x, y, color.NRGBA{
				R: config.Background.R - min(config.Background.R, shade),
				G: config.Background.G + min(255-config.Background.G, shade),
				B: config.Background.B,
				A: 255,
			})
		}
	}

	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(config.Foreground), Face: face}
	textWidth := font.MeasureString(face, config.Text).Ceil()
	textHeight := face.Metrics().Height.Ceil()
	drawer.Dot = fixed.P((w-textWidth)/2, (h+textHeight)/2)
	drawer.DrawString(config.Text)
	return img
}

// CreateTestImage creates a solid image with the specified dimensions and color.
func CreateTestImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

// SaveImage saves an image as PNG to the specified path.
func SaveImage(t *testing.T, img image.Image, path string) {
	t.Helper()
	require.NoError(t, WriteImageFile(img, path), "Failed to save image %s", path)
}

// WriteImageFile encodes img as PNG, creating parent directories. It is the
// non-testing form of SaveImage for the integration step definitions.
func WriteImageFile(img image.Image, path string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	file, err := os.Create(path) //nolint:gosec // G304: Test file creation with controlled path
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// LoadImage loads an image from the specified path.
func LoadImage(t *testing.T, path string) image.Image {
	t.Helper()

	file, err := os.Open(path) //nolint:gosec // G304: Test file reading with controlled path
	require.NoError(t, err, "Failed to open image file %s", path)
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	require.NoError(t, err, "Failed to decode image")
	return img
}

// CompareImages compares two images and returns true if their mean
// normalized color difference is within tolerance.
func CompareImages(img1, img2 image.Image, tolerance float64) bool {
	bounds1 := img1.Bounds()
	if bounds1.Dx() != img2.Bounds().Dx() || bounds1.Dy() != img2.Bounds().Dy() {
		return false
	}
	off := img2.Bounds().Min.Sub(bounds1.Min)

	var totalDiff, pixelCount float64
	for y := bounds1.Min.Y; y < bounds1.Max.Y; y++ {
		for x := bounds1.Min.X; x < bounds1.Max.X; x++ {
			r1, g1, b1, a1 := img1.At(x, y).RGBA()
			r2, g2, b2, a2 := img2.At(x+off.X, y+off.Y).RGBA()

			dr := float64(r1) - float64(r2)
			dg := float64(g1) - float64(g2)
			db := float64(b1) - float64(b2)
			da := float64(a1) - float64(a2)
			totalDiff += math.Sqrt(dr*dr + dg*dg + db*db + da*da)
			pixelCount++
		}
	}
	if pixelCount == 0 {
		return true
	}
	maxDiff := math.Sqrt(4 * 65535 * 65535)
	return (totalDiff/pixelCount)/maxDiff <= tolerance
}

// SamePixels reports whether two images have identical size and pixel values.
func SamePixels(img1, img2 image.Image) bool {
	b1, b2 := img1.Bounds(), img2.Bounds()
	if b1.Dx() != b2.Dx() || b1.Dy() != b2.Dy() {
		return false
	}
	for y := range b1.Dy() {
		for x := range b1.Dx() {
			c1 := color.NRGBAModel.Convert(img1.At(b1.Min.X+x, b1.Min.Y+y))
			c2 := color.NRGBAModel.Convert(img2.At(b2.Min.X+x, b2.Min.Y+y))
			if c1 != c2 {
				return false
			}
		}
	}
	return true
}
