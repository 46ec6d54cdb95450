package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/cyberset/internal/testutil"
)

func TestParseCard(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteCard(t, dir, "card.txt", "Neuromancer\r\nWilliam Gibson\r\nNILF0042\r\nextra line\n")

	card, err := ParseCard(filepath.Join(dir, "card.txt"), "NILF")
	require.NoError(t, err)
	assert.Equal(t, "Neuromancer", card.Title)
	assert.Equal(t, "William Gibson", card.Author)
	assert.Equal(t, "NILF0042", card.Code)
	assert.Equal(t, "0042", card.Label())
}

func TestParseCard_NormalizesFields(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteCard(t, dir, "card.txt", "Cafe\u0301\tnoir\nAuthor\nABCDxyz\n")

	card, err := ParseCard(filepath.Join(dir, "card.txt"), "")
	require.NoError(t, err)
	assert.Equal(t, "Caf\u00e9 noir", card.Title)
	assert.Equal(t, "ABCDxyz\tCaf\u00e9 noir\tAuthor", FormatIndexLine(card))
}

func TestParseCard_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		prefix   string
		reason   string
	}{
		{"too few lines", "Title\nAuthor\n", "", "expected at least 3 lines"},
		{"empty", "", "", "expected at least 3 lines"},
		{"code without identifier", "Title\nAuthor\nNILF\n", "", "prefix or identifier"},
		{"wrong prefix", "Title\nAuthor\nABCD1234\n", "NILF", "does not start with"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			testutil.WriteCard(t, dir, "card.txt", tt.contents)

			_, err := ParseCard(filepath.Join(dir, "card.txt"), tt.prefix)
			var me *MetadataError
			require.ErrorAs(t, err, &me)
			assert.Contains(t, me.Reason, tt.reason)
			assert.Equal(t, filepath.Join(dir, "card.txt"), me.Path)
		})
	}
}

func TestParseCard_Missing(t *testing.T) {
	_, err := ParseCard(filepath.Join(t.TempDir(), "card.txt"), "")
	var me *MetadataError
	require.ErrorAs(t, err, &me)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadClass(t *testing.T) {
	root := t.TempDir()
	dir := testutil.WriteClass(t, root, testutil.NewClassFixture("NILFaaaa", 3))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o750))

	class, err := ReadClass(dir, SourceOptions{})
	require.NoError(t, err)
	assert.Equal(t, "aaaa", class.Label())
	assert.Equal(t, []string{
		filepath.Join(dir, "sample_00.png"),
		filepath.Join(dir, "sample_01.png"),
		filepath.Join(dir, "sample_02.png"),
	}, class.Samples)
}

func TestReadClass_CustomCardFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteCard(t, dir, "meta.txt", "T\nA\nXXXXlabel\n")
	testutil.WriteCard(t, dir, "card.txt", "not a sample either way\n")

	class, err := ReadClass(dir, SourceOptions{CardFile: "meta.txt"})
	require.NoError(t, err)
	assert.Equal(t, "label", class.Label())
	// Any file other than the metadata record counts as a sample.
	assert.Equal(t, []string{filepath.Join(dir, "card.txt")}, class.Samples)
}

func TestScanSource(t *testing.T) {
	root := testutil.WriteSourceTree(t,
		testutil.NewClassFixture("NILFbbbb", 0),
		testutil.NewClassFixture("NILFaaaa", 2),
	)
	testutil.WriteCard(t, root, "README.txt", "top-level files are ignored\n")

	classes, err := ScanSource(root, SourceOptions{ClassPrefix: "NILF"})
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "NILFaaaa", classes[0].Card.Code)
	assert.Len(t, classes[0].Samples, 2)
	assert.Equal(t, "NILFbbbb", classes[1].Card.Code)
	assert.Empty(t, classes[1].Samples)
}

func TestScanSource_Errors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, err := ScanSource(filepath.Join(t.TempDir(), "missing"), SourceOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("malformed class aborts", func(t *testing.T) {
		root := testutil.WriteSourceTree(t, testutil.NewClassFixture("NILFaaaa", 1))
		testutil.WriteCard(t, filepath.Join(root, "broken"), "card.txt", "only a title\n")

		_, err := ScanSource(root, SourceOptions{})
		var me *MetadataError
		assert.ErrorAs(t, err, &me)
	})

	t.Run("duplicate label", func(t *testing.T) {
		a := testutil.NewClassFixture("NILFaaaa", 1)
		b := testutil.NewClassFixture("XXXXaaaa", 1)
		_, err := ScanSource(testutil.WriteSourceTree(t, a, b), SourceOptions{})
		assert.ErrorIs(t, err, ErrDuplicateLabel)
	})
}
