package testutil

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ClassFixture describes one class directory of a synthetic source tree.
type ClassFixture struct {
	Dir     string
	Title   string
	Author  string
	Code    string
	Samples int
	Size    ImageSize
}

// NewClassFixture returns a class whose directory name is also its code.
func NewClassFixture(code string, samples int) ClassFixture {
	return ClassFixture{
		Dir:     code,
		Title:   "Title of " + code,
		Author:  "Author of " + code,
		Code:    code,
		Samples: samples,
		Size:    CoverSize,
	}
}

// CardText returns the metadata record contents for the class.
func (c ClassFixture) CardText() string {
	return fmt.Sprintf("%s\n%s\n%s\n", c.Title, c.Author, c.Code)
}

// WriteCard writes a metadata record with the given contents.
func WriteCard(t *testing.T, dir, name, contents string) {
	t.Helper()

	require.NoError(t, EnsureDir(dir))
	//nolint:gosec // G306: test fixture
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

// WriteClass writes the class directory under root and returns its path.
// Samples are named sample_00.png, sample_01.png, ... and each has a
// distinct background so they can be told apart after normalization.
func WriteClass(t *testing.T, root string, c ClassFixture) string {
	t.Helper()

	dir, err := WriteClassFiles(root, c)
	require.NoError(t, err)
	return dir
}

// WriteClassFiles is WriteClass without a testing.T, for the integration
// steps and the test data generator.
func WriteClassFiles(root string, c ClassFixture) (string, error) {
	dir := filepath.Join(root, c.Dir)
	if err := EnsureDir(dir); err != nil {
		return "", err
	}
	//nolint:gosec // G306: test fixture
	if err := os.WriteFile(filepath.Join(dir, "card.txt"), []byte(c.CardText()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write card: %w", err)
	}

	size := c.Size
	if size.Width == 0 || size.Height == 0 {
		size = CoverSize
	}
	for i := range c.Samples {
		cfg := DefaultCoverConfig()
		cfg.Text = fmt.Sprintf("%d", i)
		cfg.Size = size
		cfg.Background = color.NRGBA{R: uint8(40 + 20*i), G: uint8(200 - 15*i), B: uint8(90 + 7*i), A: 255} //nolint:gosec // G115: small fixture counts
		if err := WriteImageFile(GenerateCover(cfg), filepath.Join(dir, fmt.Sprintf("sample_%02d.png", i))); err != nil {
			return "", fmt.Errorf("failed to write sample %d: %w", i, err)
		}
	}
	return dir, nil
}

// WriteSourceTree writes every class under a fresh temporary directory and
// returns the root.
func WriteSourceTree(t *testing.T, classes ...ClassFixture) string {
	t.Helper()

	root := t.TempDir()
	for _, c := range classes {
		WriteClass(t, root, c)
	}
	return root
}
