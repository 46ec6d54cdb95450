package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MeKo-Tech/cyberset/internal/augment"
	"github.com/MeKo-Tech/cyberset/internal/dataset"
	"github.com/MeKo-Tech/cyberset/internal/split"
	"github.com/MeKo-Tech/cyberset/internal/utils"
)

// DefaultCanvasSize is the side length of generated images.
const DefaultCanvasSize = 128

// DefaultAugmentationTarget is the per-class training image count.
const DefaultAugmentationTarget = 60

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	pct := split.DefaultPercentages()
	return Config{
		LogLevel: "info",
		Source: SourceConfig{
			CardFile: dataset.DefaultCardFile,
		},
		Output: OutputConfig{
			Layout:      string(dataset.LayoutFlat),
			Format:      string(utils.FormatPNG),
			JPEGQuality: utils.DefaultJPEGQuality,
			ClassIndex:  dataset.DefaultClassIndexFile,
			LabelFile:   "labels.txt",
			ImagesDir:   "images",
			Manifest:    true,
		},
		Canvas: CanvasConfig{
			Size: DefaultCanvasSize,
			Fill: 0,
		},
		Split: SplitConfig{
			Train:      pct.Train,
			Validation: pct.Validation,
			Test:       pct.Test,
		},
		Augmentation: defaultAugmentationConfig(),
	}
}

// defaultAugmentationConfig mirrors augment.DefaultBounds.
func defaultAugmentationConfig() AugmentationConfig {
	b := augment.DefaultBounds()
	return AugmentationConfig{
		Target:        DefaultAugmentationTarget,
		NoiseVariance: b.NoiseVariance,
		Contrast:      fromRange(b.Contrast),
		Brightness:    fromRange(b.Brightness),
		Blur:          fromRange(b.Blur),
		TranslateX:    fromRange(b.TranslateX),
		TranslateY:    fromRange(b.TranslateY),
		Rotation:      fromRange(b.Rotation),
		Scale:         fromRange(b.Scale),
		Shear:         fromRange(b.Shear),
		Color:         fromRange(b.Color),
	}
}

func fromRange(r augment.Range) RangeConfig {
	return RangeConfig{Min: r.Min, Max: r.Max}
}

func (r RangeConfig) toRange() augment.Range {
	return augment.Range{Min: r.Min, Max: r.Max}
}

// Validate validates the configuration and returns any errors.
// Source and output directories are checked by the commands that need them.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if _, err := dataset.ParseLayout(c.Output.Layout); err != nil {
		return err
	}
	if _, err := utils.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return fmt.Errorf("invalid jpeg quality: %d (must be between 1 and 100)", c.Output.JPEGQuality)
	}
	if c.Source.CardFile == "" {
		return errors.New("invalid card file: must not be empty")
	}

	if c.Canvas.Size <= 0 {
		return fmt.Errorf("invalid canvas size: %d (must be positive)", c.Canvas.Size)
	}
	if c.Canvas.Fill < 0 || c.Canvas.Fill > 255 {
		return fmt.Errorf("invalid canvas fill: %d (must be between 0 and 255)", c.Canvas.Fill)
	}

	if err := c.ToPercentages().Validate(); err != nil {
		return err
	}

	if c.Augmentation.Target < 0 {
		return fmt.Errorf("invalid augmentation target: %d (must be non-negative)", c.Augmentation.Target)
	}
	return c.ToBounds().Validate()
}

// ToPercentages converts the split section.
func (c *Config) ToPercentages() split.Percentages {
	return split.Percentages{
		Train:      c.Split.Train,
		Validation: c.Split.Validation,
		Test:       c.Split.Test,
	}
}

// ToBounds converts the augmentation section and canvas fill into sampling bounds.
func (c *Config) ToBounds() augment.Bounds {
	a := c.Augmentation
	return augment.Bounds{
		Contrast:      a.Contrast.toRange(),
		Brightness:    a.Brightness.toRange(),
		Blur:          a.Blur.toRange(),
		TranslateX:    a.TranslateX.toRange(),
		TranslateY:    a.TranslateY.toRange(),
		Rotation:      a.Rotation.toRange(),
		Scale:         a.Scale.toRange(),
		Shear:         a.Shear.toRange(),
		Color:         a.Color.toRange(),
		NoiseVariance: a.NoiseVariance,
		Fill:          c.fill(),
	}
}

// ToEncoder returns the image encoder for the output section.
func (c *Config) ToEncoder() (utils.Encoder, error) {
	format, err := utils.ParseFormat(c.Output.Format)
	if err != nil {
		return utils.Encoder{}, err
	}
	return utils.NewEncoder(format, c.Output.JPEGQuality), nil
}

// ToWriterOptions returns the dataset writer options for the output section.
func (c *Config) ToWriterOptions() (dataset.WriterOptions, error) {
	layout, err := dataset.ParseLayout(c.Output.Layout)
	if err != nil {
		return dataset.WriterOptions{}, err
	}
	return dataset.WriterOptions{
		Layout:    layout,
		ImagesDir: c.Output.ImagesDir,
		LabelFile: c.Output.LabelFile,
	}, nil
}

// ToGeneratorConfig converts the config to the dataset generator configuration.
// seed is the effective seed of the run, recorded in the manifest.
func (c *Config) ToGeneratorConfig(seed uint64) dataset.Config {
	layout, _ := dataset.ParseLayout(c.Output.Layout)
	format, _ := utils.ParseFormat(c.Output.Format)
	return dataset.Config{
		SourceDir: c.Source.Dir,
		OutputDir: c.Output.Dir,
		Source: dataset.SourceOptions{
			CardFile:    c.Source.CardFile,
			ClassPrefix: c.Source.ClassPrefix,
		},
		CanvasSize:         c.Canvas.Size,
		Fill:               c.fill(),
		Percentages:        c.ToPercentages(),
		AugmentationTarget: c.Augmentation.Target,
		SkipDegenerate:     c.Source.SkipDegenerateClasses,
		ClassIndexFile:     c.Output.ClassIndex,
		Manifest:           c.Output.Manifest,
		MetricsFile:        c.Output.MetricsFile,
		Layout:             layout,
		Format:             string(format),
		Seed:               seed,
	}
}

func (c *Config) fill() uint8 {
	return uint8(max(0, min(255, c.Canvas.Fill))) //nolint:gosec // G115: clamped to uint8 range
}

// contains checks if a slice contains a specific string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
