package presenter

import (
	"slices"
	"time"

	"github.com/soocke/crop-annotator/domain/session"
)

// LegendView lists the labels and highlights the active one.
type LegendView interface {
	SetLabels(labels []string, active int)
}

type legendState struct {
	labels []string
	active int
}

// LabelPresenter queues label changes from the session listener and reflects
// the most recent one in the legend on Tick.
type LabelPresenter struct {
	view    LegendView
	latest  legendState
	shown   bool
	pending []legendState
}

func NewLabelPresenter(view LegendView) *LabelPresenter {
	return &LabelPresenter{view: view}
}

// OnState queues the label set and active label of st.
func (p *LabelPresenter) OnState(st session.RenderState) {
	if p == nil {
		return
	}
	p.pending = append(p.pending, legendState{labels: st.Labels, active: st.ActiveLabel})
}

// Tick updates the view with the most recent queued state and clears the queue.
func (p *LabelPresenter) Tick(now time.Time) {
	if p == nil || p.view == nil || len(p.pending) == 0 {
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	if p.shown && last.active == p.latest.active && slices.Equal(last.labels, p.latest.labels) {
		return
	}
	p.latest = last
	p.shown = true
	p.view.SetLabels(last.labels, last.active)
}
