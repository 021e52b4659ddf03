package images

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/webp"
)

// Loader decodes images from disk and keeps the most recently used ones in memory.
// Pixel coordinates refer to the stored orientation; EXIF rotation is not applied.
type Loader struct {
	cache  *lru.Cache[string, image.Image]
	logger *slog.Logger
	open   func(string) (image.Image, error)
}

// NewLoader returns a loader caching up to size decoded images.
func NewLoader(size int, logger *slog.Logger) (*Loader, error) {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	c, err := lru.New[string, image.Image](size)
	if err != nil {
		return nil, err
	}
	return &Loader{cache: c, logger: logger, open: func(p string) (image.Image, error) { return imaging.Open(p) }}, nil
}

// Load returns the decoded image at path.
func (l *Loader) Load(path string) (image.Image, error) {
	if img, ok := l.cache.Get(path); ok {
		return img, nil
	}
	img, err := l.open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	l.cache.Add(path, img)
	b := img.Bounds()
	l.logger.Debug("image decoded", "path", path, "width", b.Dx(), "height", b.Dy())
	return img, nil
}
