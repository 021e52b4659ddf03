package document

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soocke/crop-annotator/domain/annotation"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func sampleRecords() []annotation.Record {
	stem := annotation.Pt(100, 200)
	return []annotation.Record{
		{
			Label:  "maize",
			Stem:   &stem,
			Leaves: []annotation.Point{{X: 110, Y: 180}, {X: 90, Y: 170}},
			Box:    &annotation.Box{XMin: 50, YMin: 150, XMax: 150, YMax: 250},
		},
		{Label: "maize"},
		{Label: "weed", Box: &annotation.Box{XMin: 1, YMin: 2, XMax: 3, YMax: 4}},
	}
}

func TestEncode_SkipsEmptyRecordsAndKeepsOrder(t *testing.T) {
	doc := Encode("plot_001.jpg", "/data/plot_001.jpg", sampleRecords())
	if len(doc.Crops) != 2 {
		t.Fatalf("expected 2 crops, got %d", len(doc.Crops))
	}
	c := doc.Crops[0]
	if len(c.Parts) != 3 || c.Parts[0].Kind != "stem" || c.Parts[1].Kind != "leaf" || c.Parts[2].Location != (Location{90, 170}) {
		t.Fatalf("unexpected parts %+v", c.Parts)
	}
	if doc.Crops[1].Label != "weed" || len(doc.Crops[1].Parts) != 0 {
		t.Fatalf("unexpected box-only crop %+v", doc.Crops[1])
	}
}

func TestMarshal_Format(t *testing.T) {
	stem := annotation.Pt(1, 2)
	doc := Encode("a.png", "in/a.png", []annotation.Record{{Label: "x", Stem: &stem}})
	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"image_name": "a.png"`, `"kind": "stem"`, "\n  \"crops\""} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %q in\n%s", want, s)
		}
	}
	if strings.Contains(s, `"box"`) {
		t.Fatalf("absent box must be omitted, got\n%s", s)
	}
	empty, _ := Marshal(Document{ImageName: "b.png"})
	if !bytes.Contains(empty, []byte(`"crops": []`)) {
		t.Fatalf("empty crops should encode as [], got %s", empty)
	}
}

func TestRoundTrip(t *testing.T) {
	in := Encode("p.jpg", "p.jpg", sampleRecords())
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	recs, err := out.Records()
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	again := Encode(out.ImageName, out.ImagePath, recs)
	a, _ := Marshal(in)
	b, _ := Marshal(again)
	if !bytes.Equal(a, b) {
		t.Fatalf("round trip mismatch:\n%s\n---\n%s", a, b)
	}
}

func TestUnmarshal_AcceptsNullBox(t *testing.T) {
	doc, err := Unmarshal([]byte(`{"image_name":"a.jpg","image_path":"a.jpg","crops":[{"label":"stem","box":null,"parts":[{"kind":"stem","location":{"x":3,"y":4}}]}]}`))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	recs, err := doc.Records()
	if err != nil || len(recs) != 1 || recs[0].Box != nil || *recs[0].Stem != annotation.Pt(3, 4) {
		t.Fatalf("unexpected records %+v err=%v", recs, err)
	}
}

func TestSaveScenario_UndoDropsBoxKey(t *testing.T) {
	b := annotation.NewBuffer("unknown")
	b.AddPoint(annotation.Pt(10, 10))
	b.AddPoint(annotation.Pt(20, 20))
	b.SetBox(annotation.Box{XMin: 0, YMin: 0, XMax: 30, YMax: 30})
	doc := Encode("a.jpg", "a.jpg", b.Records())
	c := doc.Crops[0]
	if c.Box == nil || *c.Box != (Box{0, 0, 30, 30}) || len(c.Parts) != 2 || c.Parts[1].Location != (Location{20, 20}) {
		t.Fatalf("unexpected crop %+v", c)
	}
	b.Undo()
	data, _ := Marshal(Encode("a.jpg", "a.jpg", b.Records()))
	if bytes.Contains(data, []byte(`"box"`)) || !bytes.Contains(data, []byte(`"kind": "leaf"`)) {
		t.Fatalf("after undo the box key must be absent and parts unchanged:\n%s", data)
	}
}

func TestEncode_HoleIsFilteredNotCompacted(t *testing.T) {
	b := annotation.NewBuffer("x")
	b.AddPoint(annotation.Pt(1, 1))
	b.NewCrop()
	b.AddPoint(annotation.Pt(2, 2))
	b.AddPoint(annotation.Pt(3, 3))
	b.SetFocus(1)
	b.Undo()
	b.Undo()
	if b.Len() != 2 {
		t.Fatalf("hole must stay in the buffer, len=%d", b.Len())
	}
	doc := Encode("a.jpg", "a.jpg", b.Records())
	if len(doc.Crops) != 1 || doc.Crops[0].Parts[0].Location != (Location{1, 1}) {
		t.Fatalf("expected only record 0 exported, got %+v", doc.Crops)
	}
}

func TestRecords_RejectsMalformedParts(t *testing.T) {
	cases := []Crop{
		{Label: "x", Parts: []Part{{Kind: "root"}}},
		{Label: "x", Parts: []Part{{Kind: "leaf"}, {Kind: "stem"}}},
		{Label: "x", Box: &Box{XMin: 5, YMin: 5, XMax: 5, YMax: 9}},
	}
	for i, c := range cases {
		_, err := Document{Crops: []Crop{c}}.Records()
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("case %d: expected ErrMalformed, got %v", i, err)
		}
	}
}

func TestStore_WriteThenLoad(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "out"), discardLogger)
	img := filepath.Join(dir, "plot_001.jpg")
	if err := s.Write(img, Encode("plot_001.jpg", img, sampleRecords())); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := s.PathFor(img); got != filepath.Join(dir, "out", "plot_001.json") {
		t.Fatalf("unexpected path %s", got)
	}
	buf, loaded := s.Load(img, "unknown")
	if !loaded || buf.Len() != 2 {
		t.Fatalf("expected 2 loaded records, loaded=%v len=%d", loaded, buf.Len())
	}
	if buf.UndoDepth() != 0 {
		t.Fatalf("loaded content must not be undoable")
	}
}

func TestStore_LoadAbsorbsMissingAndMalformed(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, discardLogger)
	if buf, loaded := s.Load("missing.png", "x"); loaded || buf.Len() != 0 {
		t.Fatalf("missing document should give empty buffer")
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if buf, loaded := s.Load("bad.png", "x"); loaded || buf.Len() != 0 {
		t.Fatalf("malformed document should give empty buffer")
	}
}

const vocSample = `<annotation>
  <filename>field_07.jpg</filename>
  <path>/data/field_07.jpg</path>
  <object><name>stem</name><bndbox><xmin>10</xmin><ymin>20</ymin><xmax>15</xmax><ymax>31</ymax></bndbox></object>
  <object><name>leaf</name><bndbox><xmin>0</xmin><ymin>0</ymin><xmax>4</xmax><ymax>4</ymax></bndbox></object>
  <object><name>tige_mais</name><bndbox><xmin>100.5</xmin><ymin>50</ymin><xmax>103</xmax><ymax>52</ymax></bndbox></object>
</annotation>`

func TestParseVOC(t *testing.T) {
	doc, err := ParseVOC(strings.NewReader(vocSample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.ImageName != "field_07.jpg" || len(doc.Crops) != 2 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if loc := doc.Crops[0].Parts[0].Location; loc != (Location{12, 25}) {
		t.Fatalf("stem center = %+v", loc)
	}
	if doc.Crops[1].Label != "tige_mais" || doc.Crops[1].Box != nil {
		t.Fatalf("unexpected second crop %+v", doc.Crops[1])
	}
}

func TestIsStemObject(t *testing.T) {
	for name, want := range map[string]bool{
		"stem":       true,
		"maize_stem": true,
		"tige_mais":  true,
		"STEM":       false,
		"Tige":       false,
		"leaf":       false,
	} {
		if got := isStemObject(name); got != want {
			t.Fatalf("isStemObject(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestConvertVOCDir(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "json")
	if err := os.WriteFile(filepath.Join(in, "field_07.xml"), []byte(vocSample), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(in, "broken.xml"), []byte("<annotation>"), 0o644); err != nil {
		t.Fatal(err)
	}
	leavesOnly := `<annotation><filename>empty.jpg</filename><object><name>leaf</name><bndbox><xmin>0</xmin><ymin>0</ymin><xmax>4</xmax><ymax>4</ymax></bndbox></object></annotation>`
	if err := os.WriteFile(filepath.Join(in, "empty.xml"), []byte(leavesOnly), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := ConvertVOCDir(in, NewStore(out, discardLogger), discardLogger)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if res.Converted != 1 || res.Skipped != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, err := os.Stat(filepath.Join(out, "field_07.json")); err != nil {
		t.Fatalf("expected output document: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "empty.json")); !os.IsNotExist(err) {
		t.Fatalf("file without stems must not produce a document, err=%v", err)
	}
}
