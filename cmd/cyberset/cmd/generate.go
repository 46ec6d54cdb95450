package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/cyberset/internal/augment"
	"github.com/MeKo-Tech/cyberset/internal/config"
	"github.com/MeKo-Tech/cyberset/internal/dataset"
	"github.com/MeKo-Tech/cyberset/internal/progress"
	"github.com/MeKo-Tech/cyberset/internal/version"
)

// generateCmd represents the generate command.
var generateCmd = &cobra.Command{
	Use:   "generate [SOURCE] [DEST]",
	Short: "Generate a split and augmented dataset from class directories",
	Long: `Generate a dataset from a source tree with one subdirectory per class.

Every class is split into train, validation and test sets. Training images are
oversampled with random augmentations until the augmentation target is reached;
validation and test images are only normalized.

SOURCE and DEST default to source.dir and output.dir from the configuration.

Examples:
  cyberset generate ./covers ./dataset
  cyberset generate ./covers ./dataset --layout per-class --format jpeg
  cyberset generate ./covers ./dataset --seed 42 --augment 100 --canvas-size 224`,
	Args: cobra.MaximumNArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, slices.Concat(generateBindings, canvasBindings, splitBindings, sourceBindings))
	},
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if len(args) > 0 {
		cfg.Source.Dir = args[0]
	}
	if len(args) > 1 {
		cfg.Output.Dir = args[1]
	}
	if cfg.Source.Dir == "" || cfg.Output.Dir == "" {
		return errors.New("source and destination directories are required")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, err := buildGenerator(cmd, cfg)
	if err != nil {
		return err
	}

	report, err := gen.Run(ctx)
	if report != nil {
		printSummary(cmd, cfg, report)
	}
	if errors.Is(err, context.Canceled) {
		return errors.New("interrupted; output written so far was kept")
	}
	return err
}

// buildGenerator wires the random source, composer, writer and progress
// reporting for a run.
func buildGenerator(cmd *cobra.Command, cfg *config.Config) (*dataset.Generator, error) {
	slog.Debug("starting cyberset", "version", version.String())
	rng, seed := newRand(cfg.Seed)

	encoder, err := cfg.ToEncoder()
	if err != nil {
		return nil, err
	}
	writerOpts, err := cfg.ToWriterOptions()
	if err != nil {
		return nil, err
	}
	renderer := &dataset.Renderer{
		Composer: augment.NewComposer(cfg.ToBounds(), rng, slog.Default()),
		Encoder:  encoder,
		Fill:     cfg.ToBounds().Fill,
	}
	writer, err := dataset.NewWriter(renderer, writerOpts)
	if err != nil {
		return nil, err
	}

	callbacks := progress.NewMulti(progress.NewLog(slog.Default(), slog.LevelDebug).WithInterval(10))
	if cfg.Output.Progress {
		callbacks.Add(progress.NewBar(cmd.ErrOrStderr()))
	}

	return dataset.NewGenerator(cfg.ToGeneratorConfig(seed), writer, rng,
		dataset.WithLogger(slog.Default()),
		dataset.WithProgress(callbacks),
	)
}

func printSummary(cmd *cobra.Command, cfg *config.Config, report *dataset.Report) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Wrote %s images (%s augmented) for %s classes in %s\n",
		humanize.Comma(int64(report.Written)),
		humanize.Comma(int64(report.Augmented)),
		humanize.Comma(int64(len(report.Classes))),
		report.Duration.Round(time.Millisecond),
	)
	if len(report.Skipped) > 0 {
		_, _ = fmt.Fprintf(out, "Skipped %d classes with too few samples: %v\n", len(report.Skipped), report.Skipped)
	}
	if size, err := dirSize(cfg.Output.Dir); err == nil {
		_, _ = fmt.Fprintf(out, "Output: %s (%s)\n", cfg.Output.Dir, humanize.Bytes(size))
	}
}

func dirSize(root string) (uint64, error) {
	var total uint64
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += uint64(info.Size()) //nolint:gosec // G115: file sizes are non-negative
		return nil
	})
	return total, err
}

var generateBindings = []flagBinding{
	{"output.layout", "layout"},
	{"output.format", "format"},
	{"output.jpeg_quality", "jpeg-quality"},
	{"augmentation.target", "augment"},
	{"source.skip_degenerate_classes", "skip-degenerate"},
	{"output.manifest", "manifest"},
	{"output.metrics_file", "metrics-file"},
	{"output.progress", "progress"},
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().String("layout", "flat", "output layout (flat, per-class)")
	cmd.Flags().StringP("format", "f", "png", "image format (png, jpeg)")
	cmd.Flags().Int("jpeg-quality", 95, "JPEG quality (1-100)")
	cmd.Flags().Int("augment", config.DefaultAugmentationTarget,
		"number of training images per class (0 disables augmentation)")
	cmd.Flags().Bool("skip-degenerate", false, "skip classes with too few samples to split instead of failing")
	cmd.Flags().Bool("manifest", true, "write manifest.yaml to the destination")
	cmd.Flags().String("metrics-file", "", "write Prometheus metrics in text format to this file")
	cmd.Flags().Bool("progress", false, "show a progress bar on stderr")
	addCanvasFlags(cmd)
	addSplitFlags(cmd)
	addSourceFlags(cmd)
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addGenerateFlags(generateCmd)
}
