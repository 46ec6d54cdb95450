package augment

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotationMatrix_ZeroIsIdentity(t *testing.T) {
	m := RotationMatrix(10, 20, 0, 1)
	for r := range 2 {
		for c := range 3 {
			assert.InDelta(t, Identity[r][c], m[r][c], 1e-12)
		}
	}
}

func TestRotationMatrix_KeepsCenterFixed(t *testing.T) {
	m := RotationMatrix(32, 16, 37, 1.2)
	x, y := m.Apply(32, 16)
	assert.InDelta(t, 32, x, 1e-9)
	assert.InDelta(t, 16, y, 1e-9)
}

func TestRotationMatrix_PositiveAngleIsCounterClockwise(t *testing.T) {
	// With y pointing down, a point right of the center moves up.
	m := RotationMatrix(0, 0, 90, 1)
	x, y := m.Apply(1, 0)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, -1, y, 1e-9)
}

func TestMatrix_InvertRoundTrip(t *testing.T) {
	m := ShearTranslationMatrix(0.1, 5, -3)
	inv, ok := m.Invert()
	require.True(t, ok)

	x, y := m.Apply(7, 9)
	bx, by := inv.Apply(x, y)
	assert.InDelta(t, 7, bx, 1e-9)
	assert.InDelta(t, 9, by, 1e-9)

	_, ok = Matrix{{0, 0, 1}, {0, 0, 1}}.Invert()
	assert.False(t, ok)
}

func TestWarpAffine_SingularFillsCanvas(t *testing.T) {
	src := gradient(5, 5)
	out := WarpAffine(src, RotationMatrix(2, 2, 0, 0), 9)
	for i := 0; i < len(out.Pix); i += 4 {
		require.Equal(t, []uint8{9, 9, 9, 255}, out.Pix[i:i+4])
	}
}

func TestWarpAffine_HonoursSourceOrigin(t *testing.T) {
	src := gradient(8, 8)
	sub, ok := src.SubImage(image.Rect(2, 2, 6, 6)).(*image.NRGBA)
	require.True(t, ok)

	out := WarpAffine(sub, Identity, 0)
	assert.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())
	assert.Equal(t, src.NRGBAAt(2, 2), out.NRGBAAt(0, 0))
	assert.Equal(t, src.NRGBAAt(5, 5), out.NRGBAAt(3, 3))
}
