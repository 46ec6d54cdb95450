package augment

import (
	"image"
	"math"
)

// Matrix is a forward 2x3 affine transform mapping source to destination
// coordinates: x' = m[0][0]*x + m[0][1]*y + m[0][2], y' = m[1][0]*x + m[1][1]*y + m[1][2].
type Matrix [2][3]float64

// Identity is the identity transform.
var Identity = Matrix{{1, 0, 0}, {0, 1, 0}}

// RotationMatrix returns a rotation by degrees (counter-clockwise on screen)
// about (cx, cy) combined with a uniform scale.
func RotationMatrix(cx, cy, degrees, scale float64) Matrix {
	theta := degrees * math.Pi / 180
	a := scale * math.Cos(theta)
	b := scale * math.Sin(theta)
	return Matrix{
		{a, b, (1-a)*cx - b*cy},
		{-b, a, b*cx + (1-a)*cy},
	}
}

// ShearTranslationMatrix returns a horizontal shear followed by a translation.
func ShearTranslationMatrix(shear, tx, ty float64) Matrix {
	return Matrix{
		{1, shear, tx},
		{0, 1, ty},
	}
}

// Apply maps (x, y) through the transform.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0][0]*x + m[0][1]*y + m[0][2], m[1][0]*x + m[1][1]*y + m[1][2]
}

// Invert returns the inverse transform. ok is false for singular matrices.
func (m Matrix) Invert() (inv Matrix, ok bool) {
	a, b, c := m[0][0], m[0][1], m[0][2]
	d, e, f := m[1][0], m[1][1], m[1][2]
	det := a*e - b*d
	if math.Abs(det) < 1e-12 {
		return Matrix{}, false
	}
	return Matrix{
		{e / det, -b / det, (b*f - e*c) / det},
		{-d / det, a / det, (d*c - a*f) / det},
	}, true
}

// WarpAffine resamples src through the forward transform m into an image of
// the same size. Destination pixels are inverse-mapped into the source and
// bilinearly sampled; source samples outside the image take the gray value
// fill, so newly exposed borders are filled and edges blend into it.
func WarpAffine(src *image.NRGBA, m Matrix, fill uint8) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	inv, ok := m.Invert()
	if !ok {
		for i := 0; i < len(out.Pix); i += 4 {
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = fill, fill, fill, 255
		}
		return out
	}

	for y := range h {
		for x := range w {
			sx, sy := inv.Apply(float64(x), float64(y))
			r, g, bl := bilinearSample(src, sx, sy, fill)
			i := out.PixOffset(x, y)
			out.Pix[i] = r
			out.Pix[i+1] = g
			out.Pix[i+2] = bl
			out.Pix[i+3] = 255
		}
	}
	return out
}

// bilinearSample interpolates the RGB value at (x, y) relative to the image
// origin. Neighbours outside the image contribute the constant fill value.
func bilinearSample(src *image.NRGBA, x, y float64, fill uint8) (uint8, uint8, uint8) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if x <= -1 || y <= -1 || x >= float64(w) || y >= float64(h) {
		return fill, fill, fill
	}

	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	var acc [3]float64
	corners := [4]struct {
		dx, dy int
		wt     float64
	}{
		{0, 0, (1 - fx) * (1 - fy)},
		{1, 0, fx * (1 - fy)},
		{0, 1, (1 - fx) * fy},
		{1, 1, fx * fy},
	}
	for _, c := range corners {
		if c.wt == 0 {
			continue
		}
		px, py := x0+c.dx, y0+c.dy
		if px < 0 || py < 0 || px >= w || py >= h {
			for ch := range 3 {
				acc[ch] += c.wt * float64(fill)
			}
			continue
		}
		i := src.PixOffset(b.Min.X+px, b.Min.Y+py)
		for ch := range 3 {
			acc[ch] += c.wt * float64(src.Pix[i+ch])
		}
	}
	return roundClip(acc[0]), roundClip(acc[1]), roundClip(acc[2])
}

func roundClip(v float64) uint8 {
	return clip(v + 0.5)
}
