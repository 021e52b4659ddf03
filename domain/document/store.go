package document

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/soocke/crop-annotator/domain/annotation"
)

// Store reads and writes annotation documents inside a save directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore returns a store rooted at dir. The directory is created on first write.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// Dir returns the save directory.
func (s *Store) Dir() string { return s.dir }

// PathFor returns the document path for an image: <save_dir>/<image base name without extension>.json.
func (s *Store) PathFor(imagePath string) string {
	base := filepath.Base(imagePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(s.dir, base+".json")
}

// Read loads the raw document for an image.
func (s *Store) Read(imagePath string) (Document, error) {
	data, err := os.ReadFile(s.PathFor(imagePath))
	if err != nil {
		return Document{}, err
	}
	return Unmarshal(data)
}

// Load returns a buffer seeded with the persisted records of an image. A
// missing document yields an empty buffer; an unreadable or malformed one is
// logged and also yields an empty buffer. The boolean reports whether prior
// annotations were found.
func (s *Store) Load(imagePath, defaultLabel string) (*annotation.Buffer, bool) {
	doc, err := s.Read(imagePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("ignoring unreadable annotation document", "image", imagePath, "path", s.PathFor(imagePath), "error", err)
		}
		return annotation.NewBuffer(defaultLabel), false
	}
	records, err := doc.Records()
	if err != nil {
		s.logger.Warn("ignoring malformed annotation document", "image", imagePath, "path", s.PathFor(imagePath), "error", err)
		return annotation.NewBuffer(defaultLabel), false
	}
	s.logger.Debug("annotation document loaded", "image", imagePath, "crops", len(records))
	return annotation.FromRecords(records, defaultLabel), len(records) > 0
}

// Write persists doc for an image. The file is replaced atomically so a
// failed write never truncates an existing document.
func (s *Store) Write(imagePath string, doc Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", imagePath, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	target := s.PathFor(imagePath)
	tmp, err := os.CreateTemp(s.dir, ".annotation-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", target, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", target, err)
	}
	s.logger.Debug("annotation document written", "image", imagePath, "path", target, "crops", len(doc.Crops))
	return nil
}
