package view

import (
	"fmt"
	"image"

	"github.com/soocke/crop-annotator/assets"
	"github.com/soocke/crop-annotator/ui/images"
	"github.com/soocke/crop-annotator/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	tk "modernc.org/tk9.0"
)

// LegendPanel lists the labels with their number keys, the key reference and
// the cursor loupe.
type LegendPanel interface {
	SetLabels(labels []string, active int)
	ShowLoupe(img image.Image)
}

type legendPanel struct {
	frame  *tk.FrameWidget
	rows   []*tk.TLabelWidget
	labels []string
	loupe  *tk.LabelWidget
	photo  *tk.Img
}

// NewLegendPanel builds the panel in column 1 of row.
func NewLegendPanel(row int) LegendPanel {
	f := tk.Frame(tk.Borderwidth(1), tk.Relief("groove"))
	tk.Grid(f, tk.Row(row), tk.Column(1), tk.Sticky("nsew"), tk.Padx("0.4m"), tk.Pady("0.4m"))
	title := tk.TLabel(tk.Txt("Labels"), tk.Style(theme.StyleHeaderLabel))
	tk.Grid(title, tk.In(f), tk.Row(0), tk.Column(0), tk.Columnspan(2), tk.Sticky("we"), tk.Padx("0.4m"), tk.Pady("0.3m"))

	r := 1 + 9
	keys := tk.TLabel(tk.Txt("Keys"), tk.Style(theme.StyleHeaderLabel))
	tk.Grid(keys, tk.In(f), tk.Row(r), tk.Column(0), tk.Columnspan(2), tk.Sticky("we"), tk.Padx("0.4m"), tk.Pady("0.3m"))
	for _, kb := range assets.KeyBindings() {
		r++
		k := tk.TLabel(tk.Txt(kb.Keys), tk.Style(theme.StyleKeyLabel), tk.Anchor("w"))
		tk.Grid(k, tk.In(f), tk.Row(r), tk.Column(0), tk.Sticky("w"), tk.Padx("0.4m"))
		a := tk.TLabel(tk.Txt(kb.Action), tk.Anchor("w"))
		tk.Grid(a, tk.In(f), tk.Row(r), tk.Column(1), tk.Sticky("w"), tk.Padx("0.4m"))
	}
	r++
	photo := tk.NewPhoto(tk.Data(images.EncodePNG(image.NewRGBA(image.Rect(0, 0, 155, 155)))))
	loupe := tk.Label(tk.Image(photo), tk.Borderwidth(1), tk.Relief("sunken"))
	tk.Grid(loupe, tk.In(f), tk.Row(r), tk.Column(0), tk.Columnspan(2), tk.Padx("0.4m"), tk.Pady("0.6m"))
	return &legendPanel{frame: f, loupe: loupe, photo: photo}
}

// ShowLoupe replaces the loupe image.
func (v *legendPanel) ShowLoupe(img image.Image) {
	if v == nil || v.loupe == nil || img == nil {
		return
	}
	if v.photo != nil {
		v.photo.Delete()
	}
	v.photo = tk.NewPhoto(tk.Data(images.EncodePNG(img)))
	v.loupe.Configure(tk.Image(v.photo))
}

// SetLabels rebuilds the label rows and highlights the active one.
func (v *legendPanel) SetLabels(labels []string, active int) {
	if v == nil || v.frame == nil {
		return
	}
	if !sameLabels(v.labels, labels) {
		for _, w := range v.rows {
			tk.Destroy(w)
		}
		v.rows = v.rows[:0]
		for i, l := range labels {
			w := tk.TLabel(tk.Txt(fmt.Sprintf("%d  %s", i+1, l)), tk.Anchor("w"))
			tk.Grid(w, tk.In(v.frame), tk.Row(1+i), tk.Column(0), tk.Columnspan(2), tk.Sticky("we"), tk.Padx("0.4m"))
			v.rows = append(v.rows, w)
		}
		v.labels = append(v.labels[:0], labels...)
	}
	for i, w := range v.rows {
		if i == active {
			w.Configure(tk.Style(theme.StyleActiveLabel))
		} else {
			w.Configure(tk.Style(theme.StyleLegendLabel))
		}
	}
}

func sameLabels(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
