package view

import (
	"image"
	"log/slog"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	tk "modernc.org/tk9.0"
)

// Handlers are invoked on user actions.
type Handlers struct {
	Canvas CanvasHandlers
	Key    func(keysym string)
	Close  func()
}

// RootView composes the top-level application layout and wires UI callbacks.
// It owns the subviews and exposes the view contracts presenters depend on.
type RootView struct {
	logger *slog.Logger
	width  int
	height int

	Canvas Canvas
	Legend LegendPanel
	Status StatusBar
}

// UI abstracts the subset of view operations needed by presenters.
type UI interface {
	ShowFrame(img image.Image)
	ShowError(title, message string)
	SetStatus(text string)
	SetLabels(labels []string, active int)
	ShowLoupe(img image.Image)
}

var _ UI = (*RootView)(nil)

// NewRootView returns a view whose canvas is sized canvasW x canvasH display pixels.
func NewRootView(canvasW, canvasH int, logger *slog.Logger) *RootView {
	return &RootView{width: canvasW, height: canvasH, logger: logger}
}

// Build constructs the layout: canvas and legend on row 0, status bar on row 1.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	tk.GridColumnConfigure(tk.App, 0, tk.Weight(1))
	tk.GridRowConfigure(tk.App, 0, tk.Weight(1))
	rv.Canvas = NewCanvas(0, rv.width, rv.height, h.Canvas)
	rv.Legend = NewLegendPanel(0)
	rv.Status = NewStatusBar(1)

	tk.Bind(tk.App, "<KeyPress>", tk.Command(func(e *tk.Event) {
		if h.Key != nil && e.Keysym != "" {
			h.Key(e.Keysym)
		}
	}))
	if h.Close != nil {
		tk.WmProtocol(tk.App, "WM_DELETE_WINDOW", h.Close)
	}
	tk.Focus(rv.Canvas.Widget())
}

// ShowFrame proxies to the canvas.
func (rv *RootView) ShowFrame(img image.Image) {
	if rv != nil && rv.Canvas != nil {
		rv.Canvas.ShowFrame(img)
	}
}

// ShowError opens a modal error dialog.
func (rv *RootView) ShowError(title, message string) {
	if rv == nil {
		return
	}
	if rv.logger != nil {
		rv.logger.Warn("showing error dialog", "title", title, "message", message)
	}
	tk.MessageBox(tk.Icon("error"), tk.Title(title), tk.Msg(message), tk.Type("ok"))
}

// SetStatus proxies to the status bar.
func (rv *RootView) SetStatus(text string) {
	if rv != nil && rv.Status != nil {
		rv.Status.SetStatus(text)
	}
}

// SetLabels proxies to the legend panel.
func (rv *RootView) SetLabels(labels []string, active int) {
	if rv != nil && rv.Legend != nil {
		rv.Legend.SetLabels(labels, active)
	}
}

// ShowLoupe proxies to the legend panel.
func (rv *RootView) ShowLoupe(img image.Image) {
	if rv != nil && rv.Legend != nil {
		rv.Legend.ShowLoupe(img)
	}
}
