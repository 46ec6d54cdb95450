package dataset

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/cyberset/internal/split"
)

// DefaultManifestFile is written at the destination root when enabled.
const DefaultManifestFile = "manifest.yaml"

// Manifest describes a finished or interrupted run.
type Manifest struct {
	Version            string          `yaml:"version,omitempty"`
	CreatedAt          time.Time       `yaml:"created_at"`
	Source             string          `yaml:"source"`
	Layout             Layout          `yaml:"layout"`
	Format             string          `yaml:"format"`
	CanvasSize         int             `yaml:"canvas_size"`
	Fill               uint8           `yaml:"fill"`
	Percentages        ManifestPercent `yaml:"percentages"`
	AugmentationTarget int             `yaml:"augmentation_target"`
	Seed               uint64          `yaml:"seed"`
	Complete           bool            `yaml:"complete"`
	Classes            []ClassSummary  `yaml:"classes"`
	Skipped            []string        `yaml:"skipped,omitempty"`
}

// ManifestPercent mirrors split.Percentages with YAML tags.
type ManifestPercent struct {
	Train      float64 `yaml:"train"`
	Validation float64 `yaml:"validation"`
	Test       float64 `yaml:"test"`
}

func manifestPercent(p split.Percentages) ManifestPercent {
	return ManifestPercent{Train: p.Train, Validation: p.Validation, Test: p.Test}
}

// ClassSummary records what was written for one class.
type ClassSummary struct {
	Code       string `yaml:"code"`
	Label      string `yaml:"label"`
	Samples    int    `yaml:"samples"`
	Train      int    `yaml:"train"`
	Validation int    `yaml:"validation"`
	Test       int    `yaml:"test"`
	Written    int    `yaml:"written"`
	Augmented  int    `yaml:"augmented"`
}

// WriteManifest encodes m as YAML to path.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: manifest is not sensitive
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ReadManifest decodes a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-provided manifest path
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}
