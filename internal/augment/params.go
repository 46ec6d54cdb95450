package augment

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Range is an inclusive [Min, Max] sampling bound.
type Range struct {
	Min float64
	Max float64
}

// maxBound is the largest magnitude a bound may have. Fractional bounds are
// sampled at 0.001 resolution, so their scaled form must fit an int32.
const maxBound = math.MaxInt32 / 1000

// Validate reports an error when the range is inverted, not finite or too
// large to sample.
func (r Range) Validate(name string) error {
	for _, v := range []float64{r.Min, r.Max} {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > maxBound {
			return fmt.Errorf("invalid %s bounds: [%v, %v] (must be finite and within ±%d)", name, r.Min, r.Max, maxBound)
		}
	}
	if r.Min > r.Max {
		return fmt.Errorf("invalid %s bounds: [%v, %v] (min must not exceed max)", name, r.Min, r.Max)
	}
	return nil
}

// validateIntegral is Validate for parameters drawn as whole numbers.
func (r Range) validateIntegral(name string) error {
	if err := r.Validate(name); err != nil {
		return err
	}
	if r.Min != math.Trunc(r.Min) || r.Max != math.Trunc(r.Max) {
		return fmt.Errorf("invalid %s bounds: [%v, %v] (must be whole numbers)", name, r.Min, r.Max)
	}
	return nil
}

// Bounds holds the sampling bounds for every augmentation parameter plus the
// two non-random constants (noise variance and border fill).
type Bounds struct {
	Contrast      Range
	Brightness    Range
	Blur          Range
	TranslateX    Range
	TranslateY    Range
	Rotation      Range
	Scale         Range
	Shear         Range
	Color         Range
	NoiseVariance float64
	Fill          uint8
}

// DefaultBounds returns the bound table the dataset was originally built with.
func DefaultBounds() Bounds {
	return Bounds{
		Contrast:      Range{Min: 0.8, Max: 1.3},
		Brightness:    Range{Min: -20, Max: 20},
		Blur:          Range{Min: -1.3, Max: 1.1},
		TranslateX:    Range{Min: -30, Max: 30},
		TranslateY:    Range{Min: -10, Max: 10},
		Rotation:      Range{Min: -20, Max: 20},
		Scale:         Range{Min: 0.9, Max: 1.1},
		Shear:         Range{Min: -0.1, Max: 0.1},
		Color:         Range{Min: -15, Max: 15},
		NoiseVariance: 1.0,
		Fill:          0,
	}
}

// Validate checks every range and the noise variance. Brightness,
// translation, rotation and color are drawn as integers and need whole-number
// bounds.
func (b Bounds) Validate() error {
	ranges := []struct {
		name     string
		r        Range
		integral bool
	}{
		{"contrast", b.Contrast, false},
		{"brightness", b.Brightness, true},
		{"blur", b.Blur, false},
		{"translate_x", b.TranslateX, true},
		{"translate_y", b.TranslateY, true},
		{"rotation", b.Rotation, true},
		{"scale", b.Scale, false},
		{"shear", b.Shear, false},
		{"color", b.Color, true},
	}
	for _, r := range ranges {
		validate := r.r.Validate
		if r.integral {
			validate = r.r.validateIntegral
		}
		if err := validate(r.name); err != nil {
			return err
		}
	}
	if b.NoiseVariance < 0 || math.IsNaN(b.NoiseVariance) || math.IsInf(b.NoiseVariance, 0) {
		return fmt.Errorf("invalid noise variance: %v (must be non-negative)", b.NoiseVariance)
	}
	return nil
}

// Params is one sampled set of augmentation parameters. It is immutable once
// sampled and fully determines the output of Apply, including the noise
// realization through NoiseSeed.
type Params struct {
	Contrast      float64
	Brightness    float64
	Blur          float64
	NoiseVariance float64
	TranslateX    float64
	TranslateY    float64
	Rotation      float64
	Scale         float64
	Shear         float64
	Color         [3]float64
	Fill          uint8
	NoiseSeed     uint64
}

// Sample draws one Params from b. Fractional parameters (contrast, blur,
// scale, shear) are drawn at 0.001 resolution; pixel and degree parameters
// (brightness, translation, rotation, color) are drawn as integers.
// Both ends of every range are inclusive. b must pass Validate.
func Sample(b Bounds, rng *rand.Rand) Params {
	p := Params{
		Contrast:      sampleMilli(rng, b.Contrast),
		Brightness:    sampleInt(rng, b.Brightness),
		Blur:          sampleMilli(rng, b.Blur),
		NoiseVariance: b.NoiseVariance,
		TranslateX:    sampleInt(rng, b.TranslateX),
		TranslateY:    sampleInt(rng, b.TranslateY),
		Rotation:      sampleInt(rng, b.Rotation),
		Scale:         sampleMilli(rng, b.Scale),
		Shear:         sampleMilli(rng, b.Shear),
		Fill:          b.Fill,
	}
	for ch := range p.Color {
		p.Color[ch] = sampleInt(rng, b.Color)
	}
	p.NoiseSeed = rng.Uint64()
	return p
}

func sampleInt(rng *rand.Rand, r Range) float64 {
	lo := int(math.Round(r.Min))
	hi := int(math.Round(r.Max))
	return float64(lo + rng.IntN(hi-lo+1))
}

func sampleMilli(rng *rand.Rand, r Range) float64 {
	lo := int(math.Round(r.Min * 1000))
	hi := int(math.Round(r.Max * 1000))
	return float64(lo+rng.IntN(hi-lo+1)) * 0.001
}
