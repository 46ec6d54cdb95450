package dataset

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/MeKo-Tech/cyberset/internal/augment"
	"github.com/MeKo-Tech/cyberset/internal/utils"
)

// ErrNoSamples is returned when a writer is asked to synthesize images for a
// label that has no samples to synthesize from.
var ErrNoSamples = errors.New("no samples to augment")

// Layout names a Writer strategy.
type Layout string

const (
	// LayoutFlat writes one shared images directory plus a label file per split.
	LayoutFlat Layout = "flat"
	// LayoutPerClass writes one subdirectory per label.
	LayoutPerClass Layout = "per-class"
)

// ParseLayout converts a configuration string into a Layout.
func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case LayoutFlat, LayoutPerClass:
		return Layout(s), nil
	case "":
		return LayoutFlat, nil
	default:
		return "", fmt.Errorf("unsupported output layout: %q (must be %s or %s)", s, LayoutFlat, LayoutPerClass)
	}
}

// WriteRequest is one writer invocation: the samples of one label for one split.
type WriteRequest struct {
	Label              string
	Samples            []string
	Destination        string
	Size               int
	AugmentationTarget int
}

// WriteResult counts the images a writer produced.
type WriteResult struct {
	Originals int
	Augmented int
}

// Written returns the total number of images written.
func (r WriteResult) Written() int { return r.Originals + r.Augmented }

// Writer persists normalized and augmented images for one label.
type Writer interface {
	Write(ctx context.Context, req WriteRequest) (WriteResult, error)
}

// OutputCount returns how many images are written for m samples and an
// augmentation target of a.
func OutputCount(m, a int) int {
	return max(m, a)
}

// Renderer produces the image sequence shared by every Writer: the
// normalized originals in order, followed by augmented variants drawn
// cyclically from the originals until the augmentation target is reached.
type Renderer struct {
	Composer *augment.Composer
	Encoder  utils.Encoder
	Fill     uint8
}

// Normalize decodes a sample and places it on a size x size canvas.
func (r *Renderer) Normalize(path string, size int) (*image.NRGBA, error) {
	img, _, err := utils.LoadImage(path)
	if err != nil {
		return nil, err
	}
	canvas, err := utils.Letterbox(img, size, r.Fill)
	if err != nil {
		var ipe *utils.ImageProcessingError
		if errors.As(err, &ipe) && ipe.Path == "" {
			ipe.Path = path
		}
		return nil, err
	}
	return canvas, nil
}

// render calls emit for each output image with its local ordinal.
func (r *Renderer) render(ctx context.Context, req WriteRequest, emit func(i int, img image.Image) error) (WriteResult, error) {
	var res WriteResult
	m := len(req.Samples)
	if m == 0 {
		if req.AugmentationTarget > 0 {
			return res, fmt.Errorf("label %q (target %d): %w", req.Label, req.AugmentationTarget, ErrNoSamples)
		}
		return res, nil
	}
	if req.AugmentationTarget > m && r.Composer == nil {
		return res, errors.New("augmentation requested but no composer configured")
	}

	total := OutputCount(m, req.AugmentationTarget)
	for i := range total {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		canvas, err := r.Normalize(req.Samples[i%m], req.Size)
		if err != nil {
			return res, err
		}
		var out image.Image = canvas
		if i >= m {
			out, _ = r.Composer.Augment(canvas)
		}
		if err := emit(i, out); err != nil {
			return res, err
		}
		if i >= m {
			res.Augmented++
		} else {
			res.Originals++
		}
	}
	return res, nil
}

// FlatWriter puts the images of every label into one directory per split,
// named by a global ordinal, and appends one label line per image to a label
// file next to it. Line k of the label file is the label of image k.
type FlatWriter struct {
	renderer  *Renderer
	imagesDir string
	labelFile string

	mu       sync.Mutex
	counters map[string]*Counter
}

// NewFlatWriter creates a FlatWriter. Empty names fall back to "images" and
// "labels.txt".
func NewFlatWriter(r *Renderer, imagesDir, labelFile string) *FlatWriter {
	if imagesDir == "" {
		imagesDir = "images"
	}
	if labelFile == "" {
		labelFile = "labels.txt"
	}
	return &FlatWriter{
		renderer:  r,
		imagesDir: imagesDir,
		labelFile: labelFile,
		counters:  make(map[string]*Counter),
	}
}

func (w *FlatWriter) counter(dir string) *Counter {
	c, ok := w.counters[dir]
	if !ok {
		c = NewCounter(dir)
		w.counters[dir] = c
	}
	return c
}

// Write implements Writer. Calls are serialized so that image ordinals and
// label lines stay aligned.
func (w *FlatWriter) Write(ctx context.Context, req WriteRequest) (WriteResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	imagesDir := filepath.Join(req.Destination, w.imagesDir)
	if err := os.MkdirAll(imagesDir, 0o750); err != nil {
		return WriteResult{}, fmt.Errorf("failed to create images directory: %w", err)
	}

	base, err := w.counter(imagesDir).Reserve(OutputCount(len(req.Samples), req.AugmentationTarget))
	if err != nil {
		return WriteResult{}, err
	}

	labelPath := filepath.Join(req.Destination, w.labelFile)
	labels, err := os.OpenFile(labelPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G302: label file is a plain dataset artifact
	if err != nil {
		return WriteResult{}, fmt.Errorf("failed to open label file: %w", err)
	}
	defer func() { _ = labels.Close() }()

	line := []byte(req.Label + "\n")
	return w.renderer.render(ctx, req, func(i int, img image.Image) error {
		path := filepath.Join(imagesDir, w.renderer.Encoder.Filename(base+i))
		if err := w.renderer.Encoder.Save(img, path); err != nil {
			return err
		}
		if _, err := labels.Write(line); err != nil {
			return fmt.Errorf("failed to append label to %s: %w", labelPath, err)
		}
		return nil
	})
}

// PerClassWriter puts the images of each label into their own directory,
// named by the ordinal within the label. The directory name is the label.
type PerClassWriter struct {
	renderer *Renderer
}

// NewPerClassWriter creates a PerClassWriter.
func NewPerClassWriter(r *Renderer) *PerClassWriter {
	return &PerClassWriter{renderer: r}
}

// Write implements Writer.
func (w *PerClassWriter) Write(ctx context.Context, req WriteRequest) (WriteResult, error) {
	dir := filepath.Join(req.Destination, req.Label)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return WriteResult{}, fmt.Errorf("failed to create class directory: %w", err)
	}
	return w.renderer.render(ctx, req, func(i int, img image.Image) error {
		return w.renderer.Encoder.Save(img, filepath.Join(dir, w.renderer.Encoder.Filename(i)))
	})
}

// WriterOptions configures NewWriter.
type WriterOptions struct {
	Layout    Layout
	ImagesDir string
	LabelFile string
}

// NewWriter builds the Writer for a layout.
func NewWriter(r *Renderer, opts WriterOptions) (Writer, error) {
	switch opts.Layout {
	case LayoutFlat, "":
		return NewFlatWriter(r, opts.ImagesDir, opts.LabelFile), nil
	case LayoutPerClass:
		return NewPerClassWriter(r), nil
	default:
		return nil, fmt.Errorf("unsupported output layout: %q", opts.Layout)
	}
}
