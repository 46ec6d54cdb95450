package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/cyberset/internal/split"
	"github.com/MeKo-Tech/cyberset/internal/testutil"
)

func TestClassIndex_TruncatesAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultClassIndexFile)
	//nolint:gosec // G306: test fixture
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	index, err := CreateClassIndex(path)
	require.NoError(t, err)
	require.NoError(t, index.Append(Card{Title: "A", Author: "B", Code: "NILFaaaa"}))
	require.NoError(t, index.Append(Card{Title: "C", Author: "D", Code: "NILFbbbb"}))
	require.NoError(t, index.Close())

	assert.Equal(t, []string{"NILFaaaa\tA\tB", "NILFbbbb\tC\tD"}, testutil.ReadLines(t, path))
}

func TestCreateClassIndex_MissingDirectory(t *testing.T) {
	_, err := CreateClassIndex(filepath.Join(t.TempDir(), "missing", DefaultClassIndexFile))
	require.Error(t, err)
}

func TestManifest_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultManifestFile)
	want := &Manifest{
		Version:            "v1.0.0",
		CreatedAt:          time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Source:             "covers",
		Layout:             LayoutPerClass,
		Format:             "jpeg",
		CanvasSize:         128,
		Fill:               127,
		Percentages:        manifestPercent(split.DefaultPercentages()),
		AugmentationTarget: 60,
		Seed:               99,
		Complete:           false,
		Classes: []ClassSummary{
			{Code: "NILFaaaa", Label: "aaaa", Samples: 10, Train: 7, Validation: 2, Test: 1, Written: 63, Augmented: 53},
		},
		Skipped: []string{"NILFbbbb"},
	}
	require.NoError(t, WriteManifest(path, want))

	got, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "layout: per-class")
	assert.Contains(t, string(data), "complete: false")
}

func TestReadManifest_Errors(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), DefaultManifestFile)
	//nolint:gosec // G306: test fixture
	require.NoError(t, os.WriteFile(path, []byte("classes: [unterminated"), 0o644))
	_, err = ReadManifest(path)
	require.Error(t, err)
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RecordWrite(SplitTrain, WriteResult{Originals: 7, Augmented: 53})
	m.RecordWrite(SplitTest, WriteResult{Originals: 1})
	m.RecordClass(0.2)
	m.RecordSkip()

	path := filepath.Join(t.TempDir(), "cyberset.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `cyberset_images_written_total{kind="augmented",split="train"} 53`)
	assert.Contains(t, text, `cyberset_images_written_total{kind="original",split="test"} 1`)
	assert.Contains(t, text, "cyberset_classes_processed_total 1")
	assert.Contains(t, text, "cyberset_classes_skipped_total 1")
	assert.Contains(t, text, "cyberset_class_duration_seconds_count 1")
}
