package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultCardFile is the metadata record file name inside every class directory.
const DefaultCardFile = "card.txt"

// CodePrefixLen is the length of the fixed prefix of a class code; the rest
// of the code is the label.
const CodePrefixLen = 4

// MetadataError reports a malformed class metadata record.
type MetadataError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MetadataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed class metadata %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed class metadata %s: %s", e.Path, e.Reason)
}

func (e *MetadataError) Unwrap() error { return e.Err }

// Card is the parsed metadata record of a class.
type Card struct {
	Title  string
	Author string
	Code   string
}

// Label returns the class code without its fixed prefix.
func (c Card) Label() string {
	if len(c.Code) <= CodePrefixLen {
		return ""
	}
	return c.Code[CodePrefixLen:]
}

// ParseCard reads a metadata record: title, author and class code on the first
// three lines. When prefix is not empty the code must start with it.
func ParseCard(path, prefix string) (Card, error) {
	f, err := os.Open(path) //nolint:gosec // G304: metadata path comes from the source tree
	if err != nil {
		return Card{}, &MetadataError{Path: path, Reason: "cannot read", Err: err}
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() && len(lines) < 3 {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return Card{}, &MetadataError{Path: path, Reason: "cannot read", Err: err}
	}
	if len(lines) < 3 {
		return Card{}, &MetadataError{Path: path, Reason: fmt.Sprintf("expected at least 3 lines, got %d", len(lines))}
	}

	card := Card{
		Title:  cleanField(lines[0]),
		Author: cleanField(lines[1]),
		Code:   strings.TrimSpace(lines[2]),
	}
	if len(card.Code) <= CodePrefixLen {
		return Card{}, &MetadataError{
			Path:   path,
			Reason: fmt.Sprintf("class code %q is missing its %d-character prefix or identifier", card.Code, CodePrefixLen),
		}
	}
	if prefix != "" && !strings.HasPrefix(card.Code, prefix) {
		return Card{}, &MetadataError{Path: path, Reason: fmt.Sprintf("class code %q does not start with %q", card.Code, prefix)}
	}
	return card, nil
}

// cleanField normalizes a display field to NFC and removes characters that
// would break the tab-separated class index.
func cleanField(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, s)
}

// Class is one labeled source directory.
type Class struct {
	Dir     string
	Card    Card
	Samples []string
}

// Label returns the label used for the class in generated datasets.
func (c Class) Label() string { return c.Card.Label() }

// SourceOptions controls how a source tree is scanned.
type SourceOptions struct {
	CardFile    string
	ClassPrefix string
}

func (o SourceOptions) cardFile() string {
	if o.CardFile == "" {
		return DefaultCardFile
	}
	return o.CardFile
}

// ReadClass lists the samples of a class directory and parses its metadata.
// Every regular file other than the metadata record is a sample; samples are
// returned in directory listing (lexical) order.
func ReadClass(dir string, opts SourceOptions) (Class, error) {
	card, err := ParseCard(filepath.Join(dir, opts.cardFile()), opts.ClassPrefix)
	if err != nil {
		return Class{}, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Class{}, fmt.Errorf("cannot list class directory %s: %w", dir, err)
	}
	samples := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || e.Name() == opts.cardFile() {
			continue
		}
		samples = append(samples, filepath.Join(dir, e.Name()))
	}
	return Class{Dir: dir, Card: card, Samples: samples}, nil
}

// ScanSource reads every class directory directly under root, sorted by name.
// Plain files at the top level are ignored.
func ScanSource(root string, opts SourceOptions) ([]Class, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access source directory %s: %w", root, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	classes := make([]Class, 0, len(entries))
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		class, err := ReadClass(filepath.Join(root, e.Name()), opts)
		if err != nil {
			return nil, err
		}
		if other, dup := seen[class.Label()]; dup {
			return nil, fmt.Errorf("label %q is used by both %s and %s: %w",
				class.Label(), other, class.Dir, ErrDuplicateLabel)
		}
		seen[class.Label()] = class.Dir
		classes = append(classes, class)
	}
	return classes, nil
}

// ErrDuplicateLabel is returned when two class directories resolve to the same label.
var ErrDuplicateLabel = errors.New("duplicate class label")
