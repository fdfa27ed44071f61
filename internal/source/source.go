package source

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Reader reads a tabular file into raw cell strings, header row first.
type Reader interface {
	Read(ctx context.Context, path string) ([][]string, error)
}

// Constructor is a function that creates a new Reader instance.
type Constructor func() Reader

var (
	mu       sync.RWMutex
	registry = map[string]Constructor{}
)

// Register adds a reader constructor under a file extension such as ".xlsx".
func Register(ext string, ctor Constructor) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(ext)] = ctor
}

// Get returns the reader constructor for the extension of path.
func Get(path string) (Constructor, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mu.RLock()
	defer mu.RUnlock()
	ctor, ok := registry[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported source format %q (%s)", ext, path)
	}
	return ctor, nil
}

// Formats returns the registered extensions, sorted.
func Formats() []string {
	mu.RLock()
	defer mu.RUnlock()
	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
