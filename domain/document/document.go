// Package document maps annotation buffers to the per-image JSON document and back.
package document

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/soocke/crop-annotator/domain/annotation"
)

// ErrMalformed is returned when a document cannot be mapped to records.
var ErrMalformed = errors.New("document: malformed annotation document")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Location is a keypoint position in pixels.
type Location struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Part is one keypoint of a crop.
type Part struct {
	Kind     string   `json:"kind"`
	Location Location `json:"location"`
}

// Box is the persisted bounding box.
type Box struct {
	XMin int `json:"x_min"`
	YMin int `json:"y_min"`
	XMax int `json:"x_max"`
	YMax int `json:"y_max"`
}

// Crop is one persisted record. The box key is omitted when absent; a null
// box is accepted on load.
type Crop struct {
	Label string `json:"label"`
	Box   *Box   `json:"box,omitempty"`
	Parts []Part `json:"parts"`
}

// Document is the annotation file written next to (or on behalf of) one image.
type Document struct {
	ImageName string `json:"image_name"`
	ImagePath string `json:"image_path"`
	Crops     []Crop `json:"crops"`
}

// Encode builds the document for an image from records. Empty records are skipped;
// records are not modified.
func Encode(imageName, imagePath string, records []annotation.Record) Document {
	doc := Document{ImageName: imageName, ImagePath: imagePath, Crops: []Crop{}}
	for i := range records {
		r := &records[i]
		if r.IsEmpty() {
			continue
		}
		doc.Crops = append(doc.Crops, encodeRecord(r))
	}
	return doc
}

func encodeRecord(r *annotation.Record) Crop {
	c := Crop{Label: r.Label, Parts: make([]Part, 0, r.PointCount())}
	if r.Stem != nil {
		c.Parts = append(c.Parts, Part{Kind: annotation.KindStem.String(), Location: Location{r.Stem.X, r.Stem.Y}})
	}
	for _, l := range r.Leaves {
		c.Parts = append(c.Parts, Part{Kind: annotation.KindLeaf.String(), Location: Location{l.X, l.Y}})
	}
	if r.Box != nil {
		c.Box = &Box{XMin: r.Box.XMin, YMin: r.Box.YMin, XMax: r.Box.XMax, YMax: r.Box.YMax}
	}
	return c
}

// Records maps the document's crops back to records in order.
// Unknown labels are preserved as-is.
func (d Document) Records() ([]annotation.Record, error) {
	out := make([]annotation.Record, 0, len(d.Crops))
	for i, c := range d.Crops {
		r, err := decodeCrop(c)
		if err != nil {
			return nil, fmt.Errorf("crop %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func decodeCrop(c Crop) (annotation.Record, error) {
	r := annotation.Record{Label: c.Label}
	for j, p := range c.Parts {
		kind, ok := annotation.ParsePartKind(p.Kind)
		if !ok {
			return r, fmt.Errorf("%w: unknown part kind %q", ErrMalformed, p.Kind)
		}
		pt := annotation.Pt(p.Location.X, p.Location.Y)
		switch kind {
		case annotation.KindStem:
			if j != 0 {
				return r, fmt.Errorf("%w: stem at position %d", ErrMalformed, j)
			}
			r.Stem = &pt
		case annotation.KindLeaf:
			r.Leaves = append(r.Leaves, pt)
		}
	}
	if c.Box != nil {
		b := annotation.Box{XMin: c.Box.XMin, YMin: c.Box.YMin, XMax: c.Box.XMax, YMax: c.Box.YMax}
		if !b.Valid() {
			return r, fmt.Errorf("%w: degenerate box %v", ErrMalformed, b)
		}
		r.Box = &b
	}
	return r, nil
}

// Marshal renders doc as JSON indented with two spaces.
func Marshal(doc Document) ([]byte, error) {
	crops := make([]Crop, len(doc.Crops))
	copy(crops, doc.Crops)
	for i := range crops {
		if crops[i].Parts == nil {
			crops[i].Parts = []Part{}
		}
	}
	doc.Crops = crops
	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal parses a document. Syntax errors are reported as ErrMalformed.
func Unmarshal(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return doc, nil
}
