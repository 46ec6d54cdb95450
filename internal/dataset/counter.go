package dataset

import (
	"fmt"
	"os"
	"sync"
)

// Counter hands out globally unique, increasing image ordinals for one flat
// images directory. The next ordinal is re-derived from the directory's entry
// count on every reservation, so an interrupted run resumes numbering where it
// stopped; the in-memory high-water mark keeps ordinals unique even when
// reservations run ahead of the files actually written.
type Counter struct {
	dir  string
	mu   sync.Mutex
	next int
}

// NewCounter creates a Counter for dir.
func NewCounter(dir string) *Counter {
	return &Counter{dir: dir}
}

// Reserve claims n consecutive ordinals and returns the first one.
func (c *Counter) Reserve(n int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("cannot count images in %s: %w", c.dir, err)
	}
	base := max(len(entries), c.next)
	c.next = base + n
	return base, nil
}
