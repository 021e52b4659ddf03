package document

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// vocAnnotation mirrors the subset of a Pascal VOC file the importer reads.
type vocAnnotation struct {
	XMLName  xml.Name    `xml:"annotation"`
	Filename string      `xml:"filename"`
	Path     string      `xml:"path"`
	Objects  []vocObject `xml:"object"`
}

type vocObject struct {
	Name   string `xml:"name"`
	BndBox struct {
		XMin float64 `xml:"xmin"`
		YMin float64 `xml:"ymin"`
		XMax float64 `xml:"xmax"`
		YMax float64 `xml:"ymax"`
	} `xml:"bndbox"`
}

// isStemObject reports whether a VOC object name denotes a stem. Matching is
// case-sensitive: "STEM" is not a stem.
func isStemObject(name string) bool {
	return strings.Contains(name, "stem") || strings.Contains(name, "tige")
}

// ParseVOC converts a VOC annotation into a document. Every stem object
// becomes one crop whose stem is the center of its bounding box; the object
// name becomes the label. Other objects are ignored.
func ParseVOC(r io.Reader) (Document, error) {
	var a vocAnnotation
	if err := xml.NewDecoder(r).Decode(&a); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	doc := Document{ImageName: a.Filename, ImagePath: a.Path, Crops: []Crop{}}
	for _, o := range a.Objects {
		if !isStemObject(o.Name) {
			continue
		}
		x := int((o.BndBox.XMin + o.BndBox.XMax) / 2)
		y := int((o.BndBox.YMin + o.BndBox.YMax) / 2)
		doc.Crops = append(doc.Crops, Crop{
			Label: o.Name,
			Parts: []Part{{Kind: "stem", Location: Location{X: x, Y: y}}},
		})
	}
	return doc, nil
}

// ConvertResult summarizes a directory conversion.
type ConvertResult struct {
	Converted int
	Skipped   int
}

// ConvertVOCDir converts every .xml file in dir and writes the resulting
// documents through store. Files that fail to parse or hold no stem object
// are logged and skipped.
func ConvertVOCDir(dir string, store *Store, logger *slog.Logger) (ConvertResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ConvertResult{}, fmt.Errorf("read %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var res ConvertResult
	for _, name := range names {
		path := filepath.Join(dir, name)
		doc, err := parseVOCFile(path)
		if err != nil {
			logger.Warn("skipping VOC file", "path", path, "error", err)
			res.Skipped++
			continue
		}
		if len(doc.Crops) == 0 {
			logger.Info("no stem objects in VOC file", "path", path)
			res.Skipped++
			continue
		}
		key := doc.ImageName
		if key == "" {
			key = name
		}
		if err := store.Write(key, doc); err != nil {
			return res, err
		}
		logger.Info("converted VOC file", "path", path, "output", store.PathFor(key), "crops", len(doc.Crops))
		res.Converted++
	}
	return res, nil
}

func parseVOCFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return ParseVOC(f)
}
