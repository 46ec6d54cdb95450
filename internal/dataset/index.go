package dataset

import (
	"fmt"
	"os"
	"strings"
)

// DefaultClassIndexFile is the class index written at the destination root.
const DefaultClassIndexFile = "classes.txt"

// ClassIndex writes one tab-separated "code\ttitle\tauthor" line per class.
type ClassIndex struct {
	path string
	f    *os.File
}

// CreateClassIndex creates or truncates the class index at path.
func CreateClassIndex(path string) (*ClassIndex, error) {
	f, err := os.Create(path) //nolint:gosec // G304: destination path is user-configured
	if err != nil {
		return nil, fmt.Errorf("failed to create class index: %w", err)
	}
	return &ClassIndex{path: path, f: f}, nil
}

// FormatIndexLine returns the class index line for card, without newline.
func FormatIndexLine(card Card) string {
	return strings.Join([]string{card.Code, card.Title, card.Author}, "\t")
}

// Append writes the line for card.
func (x *ClassIndex) Append(card Card) error {
	if _, err := x.f.WriteString(FormatIndexLine(card) + "\n"); err != nil {
		return fmt.Errorf("failed to write class index %s: %w", x.path, err)
	}
	return nil
}

// Close closes the underlying file.
func (x *ClassIndex) Close() error {
	return x.f.Close()
}
