package augment

import (
	"image"
	"log/slog"
	"math/rand/v2"
)

// Composer samples Params and applies the operators in a fixed order.
// It draws from a single injected random source and is not safe for
// concurrent use.
type Composer struct {
	bounds Bounds
	rng    *rand.Rand
	logger *slog.Logger
}

// NewComposer creates a Composer. A nil rng is replaced by a randomly seeded
// source; a nil logger by slog.Default().
func NewComposer(bounds Bounds, rng *rand.Rand, logger *slog.Logger) *Composer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{bounds: bounds, rng: rng, logger: logger}
}

// Bounds returns the sampling bounds of the composer.
func (c *Composer) Bounds() Bounds { return c.bounds }

// Sample draws a fresh Params record.
func (c *Composer) Sample() Params {
	p := Sample(c.bounds, c.rng)
	c.logger.Debug("sampled augmentation",
		"contrast", p.Contrast,
		"brightness", p.Brightness,
		"blur", p.Blur,
		"noise", p.NoiseVariance,
		"translate", [2]float64{p.TranslateX, p.TranslateY},
		"rotation", p.Rotation,
		"scale", p.Scale,
		"shear", p.Shear,
		"color", p.Color,
		"fill", p.Fill,
	)
	return p
}

// Augment produces one synthetic variant of img with freshly sampled
// parameters. Every call yields a different image.
func (c *Composer) Augment(img image.Image) (*image.NRGBA, Params) {
	p := c.Sample()
	return Apply(img, p), p
}

// Apply runs Affine, Recolor, AddNoise, ContrastBrightness and BlurSharpen in
// that order. Geometric warps come first so that their interpolation artifacts
// are perturbed like sensor data; blur or sharpen comes last. The result is a
// pure function of img and p.
func Apply(img image.Image, p Params) *image.NRGBA {
	noise := rand.New(rand.NewPCG(p.NoiseSeed, p.NoiseSeed^0x9e3779b97f4a7c15))

	out := Affine(img, p.TranslateX, p.TranslateY, p.Rotation, p.Scale, p.Shear, p.Fill)
	out = Recolor(out, p.Color[0], p.Color[1], p.Color[2])
	out = AddNoise(out, p.NoiseVariance, noise)
	out = ContrastBrightness(out, p.Contrast, p.Brightness)
	return BlurSharpen(out, p.Blur)
}
