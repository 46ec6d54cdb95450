package utils

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format identifies an output encoding for generated images.
type Format string

const (
	// FormatPNG is lossless and the default output encoding.
	FormatPNG Format = "png"
	// FormatJPEG trades exactness for size.
	FormatJPEG Format = "jpeg"
)

// DefaultJPEGQuality is used when an encoder is built with quality 0.
const DefaultJPEGQuality = 95

// ParseFormat converts a configuration string into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q (must be png or jpeg)", s)
	}
}

// Extension returns the file extension (with dot) used for the format.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return ".png"
}

// ImageMetadata captures lightweight file and pixel information.
type ImageMetadata struct {
	Path      string
	Format    string
	SizeBytes int64
	Width     int
	Height    int
}

// LoadImage opens and decodes an image file. Any format registered with the
// image package is accepted; the file extension is not consulted.
func LoadImage(path string) (image.Image, ImageMetadata, error) {
	if path == "" {
		return nil, ImageMetadata{}, &ImageProcessingError{Operation: "load", Err: errors.New("empty path")}
	}

	f, err := os.Open(path) //nolint:gosec // G304: sample paths come from the source tree
	if err != nil {
		return nil, ImageMetadata{}, &ImageProcessingError{Operation: "load", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	fi, err := f.Stat()
	if err != nil {
		return nil, ImageMetadata{}, &ImageProcessingError{Operation: "load", Path: path, Err: err}
	}

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, ImageMetadata{}, &ImageProcessingError{Operation: "decode", Path: path, Err: err}
	}

	b := img.Bounds()
	meta := ImageMetadata{
		Path:      path,
		Format:    format,
		SizeBytes: fi.Size(),
		Width:     b.Dx(),
		Height:    b.Dy(),
	}
	return img, meta, nil
}

// Encoder writes images to disk in a fixed format.
type Encoder struct {
	Format      Format
	JPEGQuality int
}

// NewEncoder returns an Encoder for the given format.
func NewEncoder(format Format, jpegQuality int) Encoder {
	if jpegQuality <= 0 {
		jpegQuality = DefaultJPEGQuality
	}
	return Encoder{Format: format, JPEGQuality: jpegQuality}
}

// Filename returns the file name used for the given ordinal.
func (e Encoder) Filename(ordinal int) string {
	return fmt.Sprintf("%d%s", ordinal, e.Format.Extension())
}

// Save encodes img to path, creating parent directories as needed.
func (e Encoder) Save(img image.Image, path string) error {
	if img == nil {
		return &ImageProcessingError{Operation: "encode", Path: path, Err: errors.New("input image is nil")}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return &ImageProcessingError{Operation: "encode", Path: path, Err: err}
	}

	var err error
	switch e.Format {
	case FormatJPEG:
		err = imaging.Save(img, path, imaging.JPEGQuality(e.JPEGQuality))
	default:
		err = imaging.Save(img, path)
	}
	if err != nil {
		return &ImageProcessingError{Operation: "encode", Path: path, Err: err}
	}
	return nil
}
