package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/cyberset/internal/augment"
	"github.com/MeKo-Tech/cyberset/internal/utils"
)

// augmentCmd represents the augment command.
var augmentCmd = &cobra.Command{
	Use:   "augment IMAGE",
	Short: "Write augmented variants of a single image",
	Long: `Normalize one image onto the canvas and write augmented variants of it.
This is useful to preview the configured augmentation bounds. The normalized
image is written as 0 and the variants as 1..N; the sampled parameters of
every variant are logged.

Examples:
  cyberset augment cover.jpg --count 8 --out ./preview
  cyberset augment cover.jpg --count 4 --out ./preview --seed 7 --format jpeg`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, slices.Concat(augmentBindings, canvasBindings))
	},
	RunE: runAugment,
}

var augmentBindings = []flagBinding{
	{"output.format", "format"},
	{"output.jpeg_quality", "jpeg-quality"},
}

func runAugment(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	count, _ := cmd.Flags().GetInt("count")
	outDir, _ := cmd.Flags().GetString("out")
	if count < 1 {
		return fmt.Errorf("invalid count: %d (must be positive)", count)
	}
	if outDir == "" {
		return errors.New("output directory is required")
	}

	encoder, err := cfg.ToEncoder()
	if err != nil {
		return err
	}
	img, _, err := utils.LoadImage(args[0])
	if err != nil {
		return err
	}
	bounds := cfg.ToBounds()
	canvas, err := utils.Letterbox(img, cfg.Canvas.Size, bounds.Fill)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := encoder.Save(canvas, filepath.Join(outDir, encoder.Filename(0))); err != nil {
		return err
	}

	rng, _ := newRand(cfg.Seed)
	composer := augment.NewComposer(bounds, rng, slog.Default())
	for i := 1; i <= count; i++ {
		variant, p := composer.Augment(canvas)
		path := filepath.Join(outDir, encoder.Filename(i))
		if err := encoder.Save(variant, path); err != nil {
			return err
		}
		slog.Info("wrote variant",
			"path", path,
			"contrast", p.Contrast,
			"brightness", p.Brightness,
			"blur", p.Blur,
			"rotation", p.Rotation,
			"scale", p.Scale,
			"shear", p.Shear,
			"translate", [2]float64{p.TranslateX, p.TranslateY},
			"color", p.Color,
		)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d variants of %s to %s\n", count, args[0], outDir)
	return nil
}

func init() {
	rootCmd.AddCommand(augmentCmd)

	augmentCmd.Flags().IntP("count", "n", 8, "number of variants to write")
	augmentCmd.Flags().StringP("out", "o", "", "output directory")
	augmentCmd.Flags().StringP("format", "f", "png", "image format (png, jpeg)")
	augmentCmd.Flags().Int("jpeg-quality", 95, "JPEG quality (1-100)")
	addCanvasFlags(augmentCmd)
}
