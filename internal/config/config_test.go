package config

import (
	"math"
	"strings"
	"testing"

	"github.com/MeKo-Tech/cyberset/internal/augment"
	"github.com/MeKo-Tech/cyberset/internal/dataset"
	"github.com/MeKo-Tech/cyberset/internal/utils"
)

const (
	infoLevel  = "info"
	debugLevel = "debug"
)

// TestDefaultConfig tests that default configuration is valid and has expected values.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig() is invalid: %v", err)
	}
	if cfg.LogLevel != infoLevel {
		t.Errorf("Expected log level '%s', got %s", infoLevel, cfg.LogLevel)
	}
	if cfg.Canvas.Size != 128 {
		t.Errorf("Expected canvas size 128, got %d", cfg.Canvas.Size)
	}
	if cfg.Split.Train != 70 || cfg.Split.Validation != 20 || cfg.Split.Test != 10 {
		t.Errorf("Expected split 70/20/10, got %v", cfg.Split)
	}
	if cfg.Augmentation.Target != 60 {
		t.Errorf("Expected augmentation target 60, got %d", cfg.Augmentation.Target)
	}
	if cfg.Source.CardFile != "card.txt" {
		t.Errorf("Expected card file 'card.txt', got %s", cfg.Source.CardFile)
	}
	if cfg.Output.Layout != "flat" || cfg.Output.Format != "png" {
		t.Errorf("Expected flat png output, got %s %s", cfg.Output.Layout, cfg.Output.Format)
	}
	if got, want := cfg.ToBounds(), augment.DefaultBounds(); got != want {
		t.Errorf("ToBounds() = %+v, want %+v", got, want)
	}
}

// TestValidate tests each validation rule.
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"layout", func(c *Config) { c.Output.Layout = "tree" }, "unsupported output layout"},
		{"format", func(c *Config) { c.Output.Format = "gif" }, "unsupported output format"},
		{"jpeg alias", func(c *Config) { c.Output.Format = "jpg" }, ""},
		{"jpeg quality", func(c *Config) { c.Output.JPEGQuality = 0 }, "invalid jpeg quality"},
		{"card file", func(c *Config) { c.Source.CardFile = "" }, "invalid card file"},
		{"canvas size", func(c *Config) { c.Canvas.Size = 0 }, "invalid canvas size"},
		{"canvas fill", func(c *Config) { c.Canvas.Fill = 256 }, "invalid canvas fill"},
		{"negative percentage", func(c *Config) { c.Split.Validation = -5 }, "invalid validation percentage"},
		{"negative target", func(c *Config) { c.Augmentation.Target = -1 }, "invalid augmentation target"},
		{"zero target", func(c *Config) { c.Augmentation.Target = 0 }, ""},
		{"inverted range", func(c *Config) { c.Augmentation.Rotation = RangeConfig{Min: 5, Max: -5} }, "invalid rotation bounds"},
		{"noise variance", func(c *Config) { c.Augmentation.NoiseVariance = -1 }, "invalid noise variance"},
		{"infinite range", func(c *Config) { c.Augmentation.TranslateX = RangeConfig{Min: 0, Max: math.Inf(1)} }, "invalid translate_x bounds"},
		{"overflowing range", func(c *Config) { c.Augmentation.Contrast = RangeConfig{Min: 0.8, Max: 1e17} }, "invalid contrast bounds"},
		{"fractional brightness", func(c *Config) { c.Augmentation.Brightness = RangeConfig{Min: 0.6, Max: 0.9} }, "must be whole numbers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

// TestToGeneratorConfig tests the conversion to the dataset generator configuration.
func TestToGeneratorConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.Dir = "/data/src"
	cfg.Source.ClassPrefix = "NILF"
	cfg.Source.SkipDegenerateClasses = true
	cfg.Output.Dir = "/data/out"
	cfg.Output.Layout = "per-class"
	cfg.Output.Format = "jpg"
	cfg.Output.MetricsFile = "/tmp/m.prom"
	cfg.Canvas.Fill = 114

	gc := cfg.ToGeneratorConfig(99)
	if gc.SourceDir != "/data/src" || gc.OutputDir != "/data/out" {
		t.Errorf("unexpected directories: %s %s", gc.SourceDir, gc.OutputDir)
	}
	if gc.Source.ClassPrefix != "NILF" || gc.Source.CardFile != "card.txt" {
		t.Errorf("unexpected source options: %+v", gc.Source)
	}
	if !gc.SkipDegenerate {
		t.Error("Expected SkipDegenerate to be true")
	}
	if gc.Layout != dataset.LayoutPerClass {
		t.Errorf("Expected per-class layout, got %s", gc.Layout)
	}
	if gc.Format != string(utils.FormatJPEG) {
		t.Errorf("Expected jpeg format, got %s", gc.Format)
	}
	if gc.Fill != 114 || gc.CanvasSize != 128 || gc.AugmentationTarget != 60 {
		t.Errorf("unexpected canvas/augmentation settings: %+v", gc)
	}
	if gc.Seed != 99 || gc.MetricsFile != "/tmp/m.prom" || !gc.Manifest {
		t.Errorf("unexpected run settings: %+v", gc)
	}
	if gc.ClassIndexFile != "classes.txt" {
		t.Errorf("Expected class index 'classes.txt', got %s", gc.ClassIndexFile)
	}
	if err := gc.Validate(); err != nil {
		t.Errorf("generator config invalid: %v", err)
	}
}

// TestToEncoderAndWriterOptions tests the output conversions.
func TestToEncoderAndWriterOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Format = "jpeg"
	cfg.Output.JPEGQuality = 80

	enc, err := cfg.ToEncoder()
	if err != nil {
		t.Fatalf("ToEncoder() unexpected error: %v", err)
	}
	if enc.Format != utils.FormatJPEG || enc.JPEGQuality != 80 {
		t.Errorf("unexpected encoder: %+v", enc)
	}

	opts, err := cfg.ToWriterOptions()
	if err != nil {
		t.Fatalf("ToWriterOptions() unexpected error: %v", err)
	}
	if opts.Layout != dataset.LayoutFlat || opts.ImagesDir != "images" || opts.LabelFile != "labels.txt" {
		t.Errorf("unexpected writer options: %+v", opts)
	}

	cfg.Output.Format = "tiff"
	if _, err := cfg.ToEncoder(); err == nil {
		t.Error("ToEncoder() expected error for unsupported format")
	}
	cfg.Output.Layout = "nested"
	if _, err := cfg.ToWriterOptions(); err == nil {
		t.Error("ToWriterOptions() expected error for unsupported layout")
	}
}

// TestContains tests the contains helper function.
func TestContains(t *testing.T) {
	slice := []string{"a", "b"}
	if !contains(slice, "a") {
		t.Error("contains() should find 'a'")
	}
	if contains(slice, "c") {
		t.Error("contains() should not find 'c'")
	}
	if contains(nil, "a") {
		t.Error("contains() should not find anything in nil slice")
	}
}
