// Package augment implements the randomized image transforms used to
// synthesize additional training samples.
//
// Every operator takes an 8-bit image and returns a new opaque *image.NRGBA;
// inputs are never modified. Arithmetic is done in float64 and clipped to
// [0,255] before truncation to uint8.
package augment

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/cyberset/internal/utils"
)

// clip clamps v to [0,255] and truncates it to uint8.
func clip(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// asNRGBA returns img as an origin-anchored *image.NRGBA, copying only when needed.
func asNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	return utils.ToNRGBA(img)
}

// ContrastBrightness computes in*contrast + brightness per pixel and channel.
func ContrastBrightness(img image.Image, contrast, brightness float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clip(float64(c.R)*contrast + brightness),
			G: clip(float64(c.G)*contrast + brightness),
			B: clip(float64(c.B)*contrast + brightness),
			A: 255,
		}
	})
}

// Recolor adds a signed offset to each of the R, G and B channels.
func Recolor(img image.Image, red, green, blue float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clip(float64(c.R) + red),
			G: clip(float64(c.G) + green),
			B: clip(float64(c.B) + blue),
			A: 255,
		}
	})
}

// BlurKernelSize returns the Gaussian kernel size used for sigma.
func BlurKernelSize(sigma float64) int {
	return 2*int(math.Ceil(3*sigma)) + 1
}

// SharpenKernel returns the 3x3 kernel used for a negative blur amount:
// identity plus a 4-neighbour Laplacian weighted by -amount.
func SharpenKernel(amount float64) [9]float64 {
	m := -amount
	return [9]float64{
		0, -m, 0,
		-m, 1 + 4*m, -m,
		0, -m, 0,
	}
}

// BlurSharpen blurs with a Gaussian of sigma amount when amount >= 0 and
// sharpens with SharpenKernel otherwise. The blur kernel spans
// BlurKernelSize(amount) pixels; the sharpen kernel is always 3x3.
func BlurSharpen(img image.Image, amount float64) *image.NRGBA {
	if amount >= 0 {
		// imaging.Blur uses a radius of ceil(3*sigma), i.e. BlurKernelSize taps.
		return imaging.Blur(img, amount)
	}
	return convolve3x3(asNRGBA(img), SharpenKernel(amount))
}

// convolve3x3 filters src with k, mirroring the border without repeating the
// edge pixel. Results are clipped and truncated, not rounded.
func convolve3x3(src *image.NRGBA, k [9]float64) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := range h {
		for x := range w {
			var acc [3]float64
			for ky := -1; ky <= 1; ky++ {
				sy := reflect101(y+ky, h)
				for kx := -1; kx <= 1; kx++ {
					wt := k[(ky+1)*3+kx+1]
					if wt == 0 {
						continue
					}
					i := src.PixOffset(b.Min.X+reflect101(x+kx, w), b.Min.Y+sy)
					for ch := range 3 {
						acc[ch] += wt * float64(src.Pix[i+ch])
					}
				}
			}
			i := out.PixOffset(x, y)
			out.Pix[i] = clip(snap(acc[0]))
			out.Pix[i+1] = clip(snap(acc[1]))
			out.Pix[i+2] = clip(snap(acc[2]))
			out.Pix[i+3] = 255
		}
	}
	return out
}

// snap removes float error around whole numbers so that an exact result such
// as 90 is not truncated to 89 after summing 89.99999999999999.
func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < 1e-9 {
		return r
	}
	return v
}

// reflect101 maps an index one step outside [0, n) back inside as
// -1 -> 1 and n -> n-2.
func reflect101(i, n int) int {
	switch {
	case n == 1:
		return 0
	case i < 0:
		return -i
	case i >= n:
		return 2*n - 2 - i
	}
	return i
}

// AddNoise adds zero-mean Gaussian noise with the given variance,
// independently per pixel and channel.
func AddNoise(img image.Image, variance float64, rng *rand.Rand) *image.NRGBA {
	out := utils.ToNRGBA(img)
	if variance <= 0 {
		return out
	}
	stddev := math.Sqrt(variance)
	for i := 0; i < len(out.Pix); i += 4 {
		for ch := range 3 {
			out.Pix[i+ch] = clip(float64(out.Pix[i+ch]) + rng.NormFloat64()*stddev)
		}
	}
	return out
}

// Affine rotates by rotation degrees about the image center with a uniform
// scale, then applies shear and translation in the rotated frame. Both passes
// fill exposed borders with the gray value fill.
func Affine(img image.Image, tx, ty, rotation, scale, shear float64, fill uint8) *image.NRGBA {
	src := asNRGBA(img)
	b := src.Bounds()
	cx := float64(utils.RoundHalfEven(float64(b.Dx()) / 2))
	cy := float64(utils.RoundHalfEven(float64(b.Dy()) / 2))

	rotated := WarpAffine(src, RotationMatrix(cx, cy, rotation, scale), fill)
	return WarpAffine(rotated, ShearTranslationMatrix(shear, tx, ty), fill)
}
