package view

import (
	"github.com/soocke/crop-annotator/ui/theme"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	tk "modernc.org/tk9.0"
)

// StatusBar shows the one-line session summary under the canvas.
type StatusBar interface {
	SetStatus(text string)
}

type statusBar struct {
	lbl *tk.TLabelWidget
}

// NewStatusBar creates the status label spanning both columns of row.
func NewStatusBar(row int) StatusBar {
	s := &statusBar{lbl: tk.TLabel(tk.Txt("loading..."), tk.Style(theme.StyleStatusLabel), tk.Anchor("w"))}
	tk.Grid(s.lbl, tk.Row(row), tk.Column(0), tk.Columnspan(2), tk.Sticky("we"), tk.Padx("0.4m"), tk.Pady("0.2m"))
	return s
}

// SetStatus replaces the status text.
func (s *statusBar) SetStatus(text string) {
	if s == nil || s.lbl == nil {
		return
	}
	s.lbl.Configure(tk.Txt(text))
}
