//nolint:lll
package config

// Config represents the complete configuration for cyberset.
// It supports loading from configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`
	Seed     uint64 `mapstructure:"seed" yaml:"seed" json:"seed"`

	// Source tree of class directories
	Source SourceConfig `mapstructure:"source" yaml:"source" json:"source"`

	// Output tree
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Canvas normalization
	Canvas CanvasConfig `mapstructure:"canvas" yaml:"canvas" json:"canvas"`

	// Train/validation/test percentages
	Split SplitConfig `mapstructure:"split" yaml:"split" json:"split"`

	// Training-set augmentation
	Augmentation AugmentationConfig `mapstructure:"augmentation" yaml:"augmentation" json:"augmentation"`
}

// SourceConfig describes the input tree.
type SourceConfig struct {
	Dir                   string `mapstructure:"dir" yaml:"dir" json:"dir"`
	CardFile              string `mapstructure:"card_file" yaml:"card_file" json:"card_file"`
	ClassPrefix           string `mapstructure:"class_prefix" yaml:"class_prefix" json:"class_prefix"`
	SkipDegenerateClasses bool   `mapstructure:"skip_degenerate_classes" yaml:"skip_degenerate_classes" json:"skip_degenerate_classes"`
}

// OutputConfig describes the generated dataset.
type OutputConfig struct {
	Dir         string `mapstructure:"dir" yaml:"dir" json:"dir"`
	Layout      string `mapstructure:"layout" yaml:"layout" json:"layout"`
	Format      string `mapstructure:"format" yaml:"format" json:"format"`
	JPEGQuality int    `mapstructure:"jpeg_quality" yaml:"jpeg_quality" json:"jpeg_quality"`
	ClassIndex  string `mapstructure:"class_index" yaml:"class_index" json:"class_index"`
	LabelFile   string `mapstructure:"label_file" yaml:"label_file" json:"label_file"`
	ImagesDir   string `mapstructure:"images_dir" yaml:"images_dir" json:"images_dir"`
	Manifest    bool   `mapstructure:"manifest" yaml:"manifest" json:"manifest"`
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file" json:"metrics_file"`
	Progress    bool   `mapstructure:"progress" yaml:"progress" json:"progress"`
}

// CanvasConfig contains letterbox settings.
type CanvasConfig struct {
	Size int `mapstructure:"size" yaml:"size" json:"size"`
	Fill int `mapstructure:"fill" yaml:"fill" json:"fill"`
}

// SplitConfig contains the target split percentages.
type SplitConfig struct {
	Train      float64 `mapstructure:"train" yaml:"train" json:"train"`
	Validation float64 `mapstructure:"validation" yaml:"validation" json:"validation"`
	Test       float64 `mapstructure:"test" yaml:"test" json:"test"`
}

// RangeConfig is an inclusive sampling bound.
type RangeConfig struct {
	Min float64 `mapstructure:"min" yaml:"min" json:"min"`
	Max float64 `mapstructure:"max" yaml:"max" json:"max"`
}

// AugmentationConfig contains the augmentation target and sampling bounds.
type AugmentationConfig struct {
	Target        int         `mapstructure:"target" yaml:"target" json:"target"`
	NoiseVariance float64     `mapstructure:"noise_variance" yaml:"noise_variance" json:"noise_variance"`
	Contrast      RangeConfig `mapstructure:"contrast" yaml:"contrast" json:"contrast"`
	Brightness    RangeConfig `mapstructure:"brightness" yaml:"brightness" json:"brightness"`
	Blur          RangeConfig `mapstructure:"blur" yaml:"blur" json:"blur"`
	TranslateX    RangeConfig `mapstructure:"translate_x" yaml:"translate_x" json:"translate_x"`
	TranslateY    RangeConfig `mapstructure:"translate_y" yaml:"translate_y" json:"translate_y"`
	Rotation      RangeConfig `mapstructure:"rotation" yaml:"rotation" json:"rotation"`
	Scale         RangeConfig `mapstructure:"scale" yaml:"scale" json:"scale"`
	Shear         RangeConfig `mapstructure:"shear" yaml:"shear" json:"shear"`
	Color         RangeConfig `mapstructure:"color" yaml:"color" json:"color"`
}
