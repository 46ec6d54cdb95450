package support

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"

	// Register the decoders used to inspect generated images.
	_ "image/jpeg"
	_ "image/png"

	"github.com/MeKo-Tech/cyberset/internal/dataset"
	"github.com/MeKo-Tech/cyberset/internal/testutil"
)

// aSourceTreeWithClass writes a class directory with n generated samples.
func (testCtx *TestContext) aSourceTreeWithClass(root, code string, n int) error {
	return testCtx.writeClass(root, testutil.NewClassFixture(code, n))
}

// aSourceTreeWithClasses writes one class per table row (code, samples).
func (testCtx *TestContext) aSourceTreeWithClasses(root string, table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		if len(row.Cells) < 2 {
			return fmt.Errorf("row %d: expected code and samples", i)
		}
		var n int
		if _, err := fmt.Sscanf(row.Cells[1].Value, "%d", &n); err != nil {
			return fmt.Errorf("row %d: invalid sample count %q", i, row.Cells[1].Value)
		}
		if err := testCtx.writeClass(root, testutil.NewClassFixture(row.Cells[0].Value, n)); err != nil {
			return err
		}
	}
	return nil
}

func (testCtx *TestContext) writeClass(root string, c testutil.ClassFixture) error {
	if _, err := testutil.WriteClassFiles(testCtx.Path(root), c); err != nil {
		return fmt.Errorf("failed to write class %s: %w", c.Code, err)
	}
	testCtx.TrackDirectory(root)
	return nil
}

// theClassHasTheCard overwrites the card file of a class.
func (testCtx *TestContext) theClassHasTheCard(root, dir string, content *godog.DocString) error {
	path := filepath.Join(testCtx.Path(root), dir, dataset.DefaultCardFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	//nolint:gosec // G306: test fixture
	return os.WriteFile(path, []byte(content.Content+"\n"), 0o644)
}

// anImageOfSize writes a single cover image.
func (testCtx *TestContext) anImageOfSize(filename string, width, height int) error {
	cfg := testutil.DefaultCoverConfig()
	cfg.Size = testutil.ImageSize{Width: width, Height: height}
	return testutil.WriteImageFile(testutil.GenerateCover(cfg), testCtx.Path(filename))
}

// theLabelsShouldMatchTheImages checks the flat layout invariant: one label
// line per image, in ordinal order.
func (testCtx *TestContext) theLabelsShouldMatchTheImages(splitDir string) error {
	images := filepath.Join(splitDir, "images")
	entries, err := os.ReadDir(testCtx.Path(images))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", images, err)
	}
	labels, err := testCtx.readLines(filepath.Join(splitDir, "labels.txt"))
	if err != nil {
		return err
	}
	if len(labels) != len(entries) {
		return fmt.Errorf("%s has %d images but %d labels", splitDir, len(entries), len(labels))
	}
	for i := range labels {
		found := false
		for _, ext := range []string{".png", ".jpg"} {
			if _, err := os.Stat(filepath.Join(testCtx.Path(images), fmt.Sprintf("%d%s", i, ext))); err == nil {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s: no image for label line %d", splitDir, i)
		}
	}
	return nil
}

// theLabelShouldAppearTimes counts the occurrences of label in a labels file.
func (testCtx *TestContext) theLabelShouldAppearTimes(label, filename string, n int) error {
	lines, err := testCtx.readLines(filename)
	if err != nil {
		return err
	}
	count := 0
	for _, l := range lines {
		if l == label {
			count++
		}
	}
	if count != n {
		return fmt.Errorf("label %q appears %d times in %s, expected %d", label, count, filename, n)
	}
	return nil
}

// theImagesShouldBeSquare checks the canvas size of every image in a directory.
func (testCtx *TestContext) theImagesShouldBeSquare(dirname string, size int) error {
	entries, err := os.ReadDir(testCtx.Path(dirname))
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dirname, err)
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		f, err := os.Open(filepath.Join(testCtx.Path(dirname), e.Name()))
		if err != nil {
			return err
		}
		cfg, _, err := image.DecodeConfig(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", e.Name(), err)
		}
		if cfg.Width != size || cfg.Height != size {
			return fmt.Errorf("%s is %dx%d, expected %dx%d", e.Name(), cfg.Width, cfg.Height, size, size)
		}
	}
	return nil
}

// theDirectoriesShouldBeIdentical compares two directory trees byte for byte.
func (testCtx *TestContext) theDirectoriesShouldBeIdentical(a, b string) error {
	rootA, rootB := testCtx.Path(a), testCtx.Path(b)
	count := 0
	err := filepath.WalkDir(rootA, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(rootA, path)
		if err != nil {
			return err
		}
		left, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		right, err := os.ReadFile(filepath.Join(rootB, rel))
		if err != nil {
			return fmt.Errorf("%s missing from %s: %w", rel, b, err)
		}
		if !bytes.Equal(left, right) {
			return fmt.Errorf("%s differs between %s and %s", rel, a, b)
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("directory %s is empty", a)
	}
	return nil
}

// theManifestShouldRecord checks the class count and completion flag.
func (testCtx *TestContext) theManifestShouldRecord(filename string, classes int, state string) error {
	m, err := dataset.ReadManifest(testCtx.Path(filename))
	if err != nil {
		return err
	}
	if len(m.Classes) != classes {
		return fmt.Errorf("manifest records %d classes, expected %d", len(m.Classes), classes)
	}
	if complete := state == "complete"; m.Complete != complete {
		return fmt.Errorf("manifest complete=%v, expected %s", m.Complete, state)
	}
	return nil
}

// RegisterDatasetSteps registers the source tree and dataset steps.
func (testCtx *TestContext) RegisterDatasetSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a source tree "([^"]*)" with class "([^"]*)" having (\d+) samples?$`, testCtx.aSourceTreeWithClass)
	sc.Step(`^a source tree "([^"]*)" with classes:$`, testCtx.aSourceTreeWithClasses)
	sc.Step(`^the class "([^"]*)" in "([^"]*)" has the card:$`,
		func(dir, root string, content *godog.DocString) error {
			return testCtx.theClassHasTheCard(root, dir, content)
		})
	sc.Step(`^an image "([^"]*)" of (\d+)x(\d+) pixels$`, testCtx.anImageOfSize)
	sc.Step(`^the labels in "([^"]*)" should match the images$`, testCtx.theLabelsShouldMatchTheImages)
	sc.Step(`^the label "([^"]*)" should appear (\d+) times? in "([^"]*)"$`,
		func(label string, n int, filename string) error {
			return testCtx.theLabelShouldAppearTimes(label, filename, n)
		})
	sc.Step(`^the images in "([^"]*)" should be (\d+)x\d+ pixels$`, testCtx.theImagesShouldBeSquare)
	sc.Step(`^the directories "([^"]*)" and "([^"]*)" should be identical$`, testCtx.theDirectoriesShouldBeIdentical)
	sc.Step(`^the manifest "([^"]*)" should record (\d+) classes? as (complete|incomplete)$`, testCtx.theManifestShouldRecord)
}
