// Package dataset turns a tree of class directories into split, normalized
// and augmented training images.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/MeKo-Tech/cyberset/internal/progress"
	"github.com/MeKo-Tech/cyberset/internal/split"
	"github.com/MeKo-Tech/cyberset/internal/version"
)

// Split directory names under the destination root.
const (
	SplitTrain      = "train"
	SplitValidation = "validation"
	SplitTest       = "test"
)

// Config holds everything the Generator needs besides its Writer.
type Config struct {
	SourceDir          string
	OutputDir          string
	Source             SourceOptions
	CanvasSize         int
	Fill               uint8
	Percentages        split.Percentages
	AugmentationTarget int
	SkipDegenerate     bool
	ClassIndexFile     string
	Manifest           bool
	MetricsFile        string

	// Recorded in the manifest only.
	Layout Layout
	Format string
	Seed   uint64
}

// Validate checks the generator configuration.
func (c Config) Validate() error {
	if c.SourceDir == "" {
		return errors.New("source directory is required")
	}
	if c.OutputDir == "" {
		return errors.New("output directory is required")
	}
	if c.CanvasSize <= 0 {
		return fmt.Errorf("invalid canvas size: %d (must be positive)", c.CanvasSize)
	}
	if c.AugmentationTarget < 0 {
		return fmt.Errorf("invalid augmentation target: %d (must be non-negative)", c.AugmentationTarget)
	}
	return c.Percentages.Validate()
}

// Report summarizes a run.
type Report struct {
	Classes   []ClassSummary
	Skipped   []string
	Written   int
	Augmented int
	Duration  time.Duration
}

// Generator is the dataset orchestrator: it plans, shuffles and writes every
// class of the source tree and maintains the class index.
type Generator struct {
	cfg      Config
	writer   Writer
	rng      *rand.Rand
	logger   *slog.Logger
	progress progress.Callback
	metrics  *Metrics
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithProgress sets the progress callback.
func WithProgress(cb progress.Callback) Option {
	return func(g *Generator) {
		if cb != nil {
			g.progress = cb
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(g *Generator) {
		if m != nil {
			g.metrics = m
		}
	}
}

// NewGenerator creates a Generator. rng drives the per-class shuffle and
// should be the same source the writer's Composer draws from.
func NewGenerator(cfg Config, w Writer, rng *rand.Rand, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator configuration: %w", err)
	}
	if w == nil {
		return nil, errors.New("writer is required")
	}
	if rng == nil {
		return nil, errors.New("random source is required")
	}
	if cfg.ClassIndexFile == "" {
		cfg.ClassIndexFile = DefaultClassIndexFile
	}
	g := &Generator{
		cfg:      cfg,
		writer:   w,
		rng:      rng,
		logger:   slog.Default(),
		progress: progress.NoOp{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.metrics == nil {
		g.metrics = NewMetrics()
	}
	return g, nil
}

// Metrics returns the run metrics.
func (g *Generator) Metrics() *Metrics { return g.metrics }

// Run processes every class. The first error aborts the run; output that was
// already written is left in place.
func (g *Generator) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	classes, err := ScanSource(g.cfg.SourceDir, g.cfg.Source)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(g.cfg.OutputDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	index, err := CreateClassIndex(filepath.Join(g.cfg.OutputDir, g.cfg.ClassIndexFile))
	if err != nil {
		return nil, err
	}
	defer func() { _ = index.Close() }()

	g.logger.Info("generating dataset",
		"source", g.cfg.SourceDir,
		"output", g.cfg.OutputDir,
		"classes", len(classes),
		"canvas", g.cfg.CanvasSize,
		"augmentation_target", g.cfg.AugmentationTarget,
	)

	report := &Report{}
	g.progress.OnStart(len(classes))
	runErr := g.runClasses(ctx, classes, index, report)
	report.Duration = time.Since(start)

	if runErr != nil {
		g.progress.OnError(len(report.Classes)+len(report.Skipped)+1, runErr)
	} else {
		g.progress.OnComplete()
	}

	if err := g.finish(report, runErr == nil); err != nil && runErr == nil {
		runErr = err
	}
	return report, runErr
}

func (g *Generator) runClasses(ctx context.Context, classes []Class, index *ClassIndex, report *Report) error {
	for i, class := range classes {
		if err := ctx.Err(); err != nil {
			return err
		}
		summary, err := g.processClass(ctx, class)
		switch {
		case errors.Is(err, split.ErrDegenerateSplit) && g.cfg.SkipDegenerate:
			g.logger.Warn("skipping class with degenerate split", "code", class.Card.Code, "samples", len(class.Samples))
			g.metrics.RecordSkip()
			report.Skipped = append(report.Skipped, class.Card.Code)
		case err != nil:
			return fmt.Errorf("class %s (%s): %w", class.Card.Code, class.Dir, err)
		default:
			if err := index.Append(class.Card); err != nil {
				return err
			}
			report.Classes = append(report.Classes, summary)
			report.Written += summary.Written
			report.Augmented += summary.Augmented
		}
		g.progress.OnProgress(i+1, len(classes))
	}
	return nil
}

func (g *Generator) processClass(ctx context.Context, class Class) (ClassSummary, error) {
	start := time.Now()
	summary := ClassSummary{Code: class.Card.Code, Label: class.Label(), Samples: len(class.Samples)}

	plan := split.Determine(len(class.Samples), g.cfg.Percentages)
	if err := plan.Validate(); err != nil {
		return summary, err
	}
	subsets, err := split.Partition(class.Samples, plan, g.rng)
	if err != nil {
		return summary, err
	}
	summary.Train, summary.Validation, summary.Test = plan.Train, plan.Validation, plan.Test

	jobs := []struct {
		name    string
		samples []string
		target  int
	}{
		{SplitTrain, subsets.Train, g.cfg.AugmentationTarget},
		{SplitValidation, subsets.Validation, 0},
		{SplitTest, subsets.Test, 0},
	}
	for _, job := range jobs {
		res, err := g.writer.Write(ctx, WriteRequest{
			Label:              class.Label(),
			Samples:            job.samples,
			Destination:        filepath.Join(g.cfg.OutputDir, job.name),
			Size:               g.cfg.CanvasSize,
			AugmentationTarget: job.target,
		})
		g.metrics.RecordWrite(job.name, res)
		summary.Written += res.Written()
		summary.Augmented += res.Augmented
		if err != nil {
			return summary, fmt.Errorf("%s split: %w", job.name, err)
		}
	}

	g.metrics.RecordClass(time.Since(start).Seconds())
	g.logger.Info("class written",
		"code", class.Card.Code,
		"label", summary.Label,
		"train", plan.Train,
		"validation", plan.Validation,
		"test", plan.Test,
		"written", summary.Written,
		"augmented", summary.Augmented,
	)
	return summary, nil
}

// finish writes the manifest and metrics file. It runs for failed runs too,
// so the manifest records what was written before the failure.
func (g *Generator) finish(report *Report, complete bool) error {
	if g.cfg.Manifest {
		m := &Manifest{
			Version:            version.Version,
			CreatedAt:          time.Now().UTC().Truncate(time.Second),
			Source:             g.cfg.SourceDir,
			Layout:             g.cfg.Layout,
			Format:             g.cfg.Format,
			CanvasSize:         g.cfg.CanvasSize,
			Fill:               g.cfg.Fill,
			Percentages:        manifestPercent(g.cfg.Percentages),
			AugmentationTarget: g.cfg.AugmentationTarget,
			Seed:               g.cfg.Seed,
			Complete:           complete,
			Classes:            report.Classes,
			Skipped:            report.Skipped,
		}
		if err := WriteManifest(filepath.Join(g.cfg.OutputDir, DefaultManifestFile), m); err != nil {
			return err
		}
	}
	if g.cfg.MetricsFile != "" {
		if err := g.metrics.WriteTextfile(g.cfg.MetricsFile); err != nil {
			return err
		}
	}
	return nil
}
