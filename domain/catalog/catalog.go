// Package catalog lists and watches the images of an annotation directory.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoImages is returned when a directory holds no supported image.
var ErrNoImages = errors.New("catalog: no supported images")

// Extensions lists the supported image file extensions (lower case).
var Extensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// IsImage reports whether name carries a supported image extension.
func IsImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// List returns the supported images directly inside dir, sorted by file name.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, dir)
	}
	sort.Strings(out)
	return out, nil
}
