package presenter

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"time"

	"github.com/soocke/crop-annotator/domain/annotation"
	"github.com/soocke/crop-annotator/domain/session"
	"github.com/soocke/crop-annotator/ui/images"
	"github.com/soocke/crop-annotator/ui/model"
	"github.com/soocke/crop-annotator/ui/render"
)

// Controller is the part of the session the presenter drives.
type Controller interface {
	Dispatch(session.Command) error
	State() session.RenderState
}

// ImageSource decodes images by path.
type ImageSource interface {
	Load(path string) (image.Image, error)
}

// CanvasView shows rendered frames and modal errors.
type CanvasView interface {
	ShowFrame(img image.Image)
	ShowError(title, message string)
}

// LoupeView shows a magnified neighborhood of the cursor.
type LoupeView interface {
	ShowLoupe(img image.Image)
}

var errNoImageSource = errors.New("no image source")

const (
	loupeSize = 31 // source pixels
	loupeZoom = 5
)

// AnnotationPresenter turns pointer and key input into session commands and
// redraws the canvas. State changes mark the frame dirty; drawing happens on Tick.
type AnnotationPresenter struct {
	ctl    Controller
	images ImageSource
	view   CanvasView
	logger *slog.Logger
	style  render.Style
	maxW   int
	maxH   int
	onExit func()
	loupe  LoupeView

	viewport model.ViewportModel
	drag     model.DragModel
	cursor   *image.Point

	state      session.RenderState
	src        image.Image
	scaled     image.Image
	scaledPath string
	dirty      bool
}

// NewAnnotationPresenter returns a presenter fitting images into maxW x maxH display pixels.
func NewAnnotationPresenter(ctl Controller, src ImageSource, view CanvasView, style render.Style, maxW, maxH int, logger *slog.Logger) *AnnotationPresenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnnotationPresenter{ctl: ctl, images: src, view: view, style: style, maxW: maxW, maxH: maxH, logger: logger}
}

// SetExitHandler registers f to run after a successful quit.
func (p *AnnotationPresenter) SetExitHandler(f func()) {
	if p != nil {
		p.onExit = f
	}
}

// SetLoupeView enables the cursor loupe.
func (p *AnnotationPresenter) SetLoupeView(v LoupeView) {
	if p != nil {
		p.loupe = v
	}
}

// Refresh pulls the current state from the controller.
func (p *AnnotationPresenter) Refresh() {
	if p == nil || p.ctl == nil {
		return
	}
	p.OnState(p.ctl.State())
}

// OnState receives session snapshots from the session listener. A new image
// is decoded right away so that input maps through its viewport.
func (p *AnnotationPresenter) OnState(st session.RenderState) {
	if p == nil {
		return
	}
	if st.ImagePath != p.state.ImagePath {
		p.drag.Cancel()
	}
	p.state = st
	p.dirty = true
	if st.ImagePath != "" && st.ImagePath != p.scaledPath {
		p.loadImage(st.ImagePath)
	}
}

// onImage reports whether (x, y) lies on a displayed image. Nothing is
// accepted while the placeholder is shown.
func (p *AnnotationPresenter) onImage(x, y int) bool {
	return p.src != nil && p.viewport.Contains(x, y)
}

// DoubleClick adds a point at the display position (x, y).
func (p *AnnotationPresenter) DoubleClick(x, y int) {
	if p == nil || !p.onImage(x, y) {
		return
	}
	pt := p.viewport.ToImage(x, y)
	p.dispatch(session.AddPoint(annotation.Pt(pt.X, pt.Y)))
}

// DragStart begins a provisional box at (x, y).
func (p *AnnotationPresenter) DragStart(x, y int) {
	if p == nil || p.src == nil {
		return
	}
	p.drag.Begin(p.viewport.ToImage(x, y))
	p.dirty = true
}

// DragMove updates the provisional box and the crosshair.
func (p *AnnotationPresenter) DragMove(x, y int) {
	if p == nil || p.src == nil {
		return
	}
	pt := p.viewport.ToImage(x, y)
	p.drag.Update(pt)
	p.cursor = &pt
	p.dirty = true
}

// DragEnd commits the dragged box.
func (p *AnnotationPresenter) DragEnd(x, y int) {
	if p == nil {
		return
	}
	if p.src == nil {
		p.drag.Cancel()
		return
	}
	r, ok := p.drag.End(p.viewport.ToImage(x, y))
	p.dirty = true
	if !ok {
		return
	}
	p.dispatch(session.DragBox(r))
}

// PointerMoved moves the crosshair. Positions off the image hide it.
func (p *AnnotationPresenter) PointerMoved(x, y int) {
	if p == nil {
		return
	}
	if !p.onImage(x, y) {
		p.PointerLeft()
		return
	}
	pt := p.viewport.ToImage(x, y)
	p.cursor = &pt
	p.dirty = true
}

// PointerLeft hides the crosshair.
func (p *AnnotationPresenter) PointerLeft() {
	if p == nil || p.cursor == nil {
		return
	}
	p.cursor = nil
	p.dirty = true
}

// Key handles a key press by keysym. Unbound keys are ignored.
func (p *AnnotationPresenter) Key(keysym string) {
	if p == nil {
		return
	}
	if cmd, ok := CommandForKey(keysym); ok {
		p.dispatch(cmd)
	}
}

// Quit requests a flush and exit, as triggered by closing the window.
func (p *AnnotationPresenter) Quit() {
	if p == nil {
		return
	}
	p.dispatch(session.Simple(session.CmdQuit))
}

func (p *AnnotationPresenter) dispatch(cmd session.Command) {
	if p.ctl == nil {
		return
	}
	err := p.ctl.Dispatch(cmd)
	var fe *session.FlushError
	switch {
	case err == nil:
		if cmd.Kind == session.CmdQuit && p.onExit != nil {
			p.onExit()
		}
	case errors.Is(err, session.ErrClosed):
	case errors.As(err, &fe):
		if p.view != nil {
			p.view.ShowError("Save failed", fe.Error())
		}
	default:
		p.logger.Error("command rejected", "command", cmd.Kind.String(), "error", err)
	}
}

// Tick redraws the canvas when something changed since the last frame.
func (p *AnnotationPresenter) Tick(now time.Time) {
	if p == nil || !p.dirty || p.view == nil || p.state.ImagePath == "" {
		return
	}
	p.dirty = false
	if p.state.ImagePath != p.scaledPath {
		p.loadImage(p.state.ImagePath)
	}
	scene := render.Scene{Crops: p.state.Crops, Focus: p.state.Focus, Cursor: p.cursor}
	if r, ok := p.drag.Rect(); ok {
		scene.Drag = &r
	}
	p.view.ShowFrame(render.Draw(p.scaled, scene, p.viewport.Scale(), p.style))
	p.showLoupe()
}

func (p *AnnotationPresenter) showLoupe() {
	if p.loupe == nil || p.cursor == nil || p.src == nil {
		return
	}
	img, roi, err := images.Loupe(p.src, p.cursor.X, p.cursor.Y, loupeSize, loupeZoom)
	if err != nil {
		return
	}
	st := p.style
	st.MarkerRadius = max(st.MarkerRadius, 1) * loupeZoom / 2
	scene := render.Scene{Focus: p.state.Focus, Crops: translate(p.state.Crops, roi.Min)}
	c := p.cursor.Sub(roi.Min)
	scene.Cursor = &c
	p.loupe.ShowLoupe(render.Draw(img, scene, loupeZoom, st))
}

// translate shifts records so that origin becomes (0, 0).
func translate(crops []annotation.Record, origin image.Point) []annotation.Record {
	out := make([]annotation.Record, len(crops))
	shift := func(pt annotation.Point) annotation.Point { return annotation.Pt(pt.X-origin.X, pt.Y-origin.Y) }
	for i := range crops {
		r := crops[i].Clone()
		if r.Stem != nil {
			s := shift(*r.Stem)
			r.Stem = &s
		}
		for j := range r.Leaves {
			r.Leaves[j] = shift(r.Leaves[j])
		}
		if r.Box != nil {
			b := annotation.Box{XMin: r.Box.XMin - origin.X, YMin: r.Box.YMin - origin.Y, XMax: r.Box.XMax - origin.X, YMax: r.Box.YMax - origin.Y}
			r.Box = &b
		}
		out[i] = r
	}
	return out
}

func (p *AnnotationPresenter) loadImage(path string) {
	p.scaledPath = path
	var src image.Image
	err := errNoImageSource
	if p.images != nil {
		src, err = p.images.Load(path)
	}
	if err != nil {
		p.logger.Error("image unavailable", "image", path, "error", err)
		blank := image.NewRGBA(image.Rect(0, 0, max(p.maxW, 1), max(p.maxH, 1)))
		draw.Draw(blank, blank.Bounds(), &image.Uniform{C: color.Gray{Y: 40}}, image.Point{}, draw.Src)
		p.scaled = blank
		p.src = nil
		p.viewport = model.ViewportModel{}
		p.cursor = nil
		if p.view != nil {
			p.view.ShowError("Image unavailable", err.Error())
		}
		return
	}
	scaled, f := images.ScaleToFit(src, p.maxW, p.maxH)
	p.src = src
	p.scaled = scaled
	p.viewport.Set(src.Bounds().Size(), f)
}
