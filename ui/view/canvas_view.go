package view

import (
	"image"

	"github.com/soocke/crop-annotator/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	tk "modernc.org/tk9.0"
)

// Canvas shows the rendered annotation frame and reports pointer input in
// label-relative display coordinates.
type Canvas interface {
	ShowFrame(img image.Image)
	Widget() *tk.LabelWidget
}

// CanvasHandlers receive pointer input from the canvas.
type CanvasHandlers struct {
	DoubleClick func(x, y int)
	DragStart   func(x, y int)
	DragMove    func(x, y int)
	DragEnd     func(x, y int)
	Motion      func(x, y int)
	Leave       func()
}

type canvas struct {
	label *tk.LabelWidget
	photo *tk.Img // last Tk photo; deleted before replacement
}

// NewCanvas creates the image label at (row, 0) and binds pointer events.
func NewCanvas(row, width, height int, h CanvasHandlers) Canvas {
	placeholder := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	photo := tk.NewPhoto(tk.Data(images.EncodePNG(placeholder)))
	lbl := tk.Label(tk.Image(photo), tk.Anchor("nw"), tk.Borderwidth(0), tk.Cursor("crosshair"))
	tk.Grid(lbl, tk.Row(row), tk.Column(0), tk.Sticky("nw"), tk.Padx("0.4m"), tk.Pady("0.4m"))

	xy := func(f func(x, y int)) func(*tk.Event) {
		return func(e *tk.Event) {
			if f != nil {
				f(e.X, e.Y)
			}
		}
	}
	tk.Bind(lbl, "<Double-Button-1>", tk.Command(xy(h.DoubleClick)))
	tk.Bind(lbl, "<ButtonPress-2>", tk.Command(xy(h.DragStart)))
	tk.Bind(lbl, "<B2-Motion>", tk.Command(xy(h.DragMove)))
	tk.Bind(lbl, "<ButtonRelease-2>", tk.Command(xy(h.DragEnd)))
	tk.Bind(lbl, "<Motion>", tk.Command(xy(h.Motion)))
	tk.Bind(lbl, "<Leave>", tk.Command(func() {
		if h.Leave != nil {
			h.Leave()
		}
	}))
	return &canvas{label: lbl, photo: photo}
}

func (c *canvas) Widget() *tk.LabelWidget { return c.label }

// ShowFrame replaces the displayed image.
func (c *canvas) ShowFrame(img image.Image) {
	if c == nil || c.label == nil || img == nil {
		return
	}
	if c.photo != nil {
		c.photo.Delete()
	}
	c.photo = tk.NewPhoto(tk.Data(images.EncodePNG(img)))
	c.label.Configure(tk.Image(c.photo))
}
