// Package render draws annotation overlays onto the displayed image.
package render

import (
	"image"
	"image/color"
	"strconv"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/soocke/crop-annotator/domain/annotation"
)

// Style holds overlay colors and sizes in display pixels.
type Style struct {
	MarkerRadius float64
	LineWidth    float64
	Stem         color.Color
	Leaf         color.Color
	Link         color.Color
	Box          color.Color
	Focus        color.Color
	Drag         color.Color
	Cursor       color.Color
	Text         color.Color
}

// DefaultStyle returns the standard palette: green stems, red leaves and links,
// blue boxes and a white crosshair.
func DefaultStyle(markerRadius int) Style {
	if markerRadius < 1 {
		markerRadius = 5
	}
	return Style{
		MarkerRadius: float64(markerRadius),
		LineWidth:    2,
		Stem:         color.RGBA{0, 255, 0, 255},
		Leaf:         color.RGBA{255, 0, 0, 255},
		Link:         color.RGBA{255, 0, 0, 255},
		Box:          color.RGBA{0, 0, 255, 255},
		Focus:        color.RGBA{255, 215, 0, 255},
		Drag:         color.RGBA{0, 160, 255, 255},
		Cursor:       color.White,
		Text:         color.White,
	}
}

// Scene is everything drawn on top of an image, in image coordinates.
type Scene struct {
	Crops  []annotation.Record
	Focus  int
	Drag   *image.Rectangle
	Cursor *image.Point
}

// Draw renders scene over base. base is the image as displayed and scale maps
// image coordinates to it. base is not modified.
func Draw(base image.Image, scene Scene, scale float64, st Style) image.Image {
	dc := gg.NewContextForImage(base)
	if scale <= 0 {
		scale = 1
	}
	px := func(v int) float64 { return float64(v) * scale }

	for i := range scene.Crops {
		drawCrop(dc, &scene.Crops[i], i == scene.Focus, px, st)
	}
	if scene.Drag != nil {
		r := scene.Drag.Canon()
		dc.SetColor(st.Drag)
		dc.SetLineWidth(st.LineWidth)
		dc.SetDash(6, 4)
		dc.DrawRectangle(px(r.Min.X), px(r.Min.Y), px(r.Dx()), px(r.Dy()))
		dc.Stroke()
		dc.SetDash()
	}
	if scene.Cursor != nil {
		w, h := float64(dc.Width()), float64(dc.Height())
		x, y := px(scene.Cursor.X)+0.5, px(scene.Cursor.Y)+0.5
		dc.SetColor(st.Cursor)
		dc.SetLineWidth(1)
		dc.DrawLine(0, y, w, y)
		dc.DrawLine(x, 0, x, h)
		dc.Stroke()
	}
	return dc.Image()
}

func drawCrop(dc *gg.Context, r *annotation.Record, focused bool, px func(int) float64, st Style) {
	if r.IsEmpty() {
		return
	}
	if r.Box != nil {
		dc.SetColor(st.Box)
		if focused {
			dc.SetColor(st.Focus)
		}
		dc.SetLineWidth(st.LineWidth)
		dc.DrawRectangle(px(r.Box.XMin), px(r.Box.YMin), px(r.Box.XMax-r.Box.XMin), px(r.Box.YMax-r.Box.YMin))
		dc.Stroke()
	}
	if r.Stem != nil {
		sx, sy := px(r.Stem.X), px(r.Stem.Y)
		dc.SetColor(st.Link)
		dc.SetLineWidth(st.LineWidth / 2)
		for _, l := range r.Leaves {
			dc.DrawLine(sx, sy, px(l.X), px(l.Y))
		}
		dc.Stroke()
	}
	for _, l := range r.Leaves {
		dc.DrawCircle(px(l.X), px(l.Y), st.MarkerRadius)
	}
	dc.SetColor(st.Leaf)
	dc.Fill()
	if r.Stem != nil {
		sx, sy := px(r.Stem.X), px(r.Stem.Y)
		dc.DrawCircle(sx, sy, st.MarkerRadius)
		dc.SetColor(st.Stem)
		dc.Fill()
		if focused {
			dc.DrawCircle(sx, sy, st.MarkerRadius+3)
			dc.SetColor(st.Focus)
			dc.SetLineWidth(st.LineWidth)
			dc.Stroke()
		}
	}
	if ax, ay, ok := anchor(r, px); ok {
		dc.SetFontFace(basicfont.Face7x13)
		dc.SetColor(st.Text)
		dc.DrawString(labelText(r), ax, ay)
	}
}

// anchor places the label above the box, or beside the stem when there is no box.
func anchor(r *annotation.Record, px func(int) float64) (float64, float64, bool) {
	switch {
	case r.Box != nil:
		return px(r.Box.XMin) + 2, px(r.Box.YMin) - 4, true
	case r.Stem != nil:
		return px(r.Stem.X) + 8, px(r.Stem.Y) - 8, true
	}
	return 0, 0, false
}

func labelText(r *annotation.Record) string {
	if len(r.Leaves) == 0 {
		return r.Label
	}
	return r.Label + " (" + strconv.Itoa(len(r.Leaves)) + ")"
}
