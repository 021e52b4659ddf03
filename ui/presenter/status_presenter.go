package presenter

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/soocke/crop-annotator/domain/session"
	"github.com/soocke/crop-annotator/ui/model"
)

// StatusView displays the one-line session summary.
type StatusView interface {
	SetStatus(text string)
}

// StatusPresenter formats the session position, focus and save time for the status bar.
type StatusPresenter struct {
	timer *model.TimerModel
	view  StatusView
	state session.RenderState
	ready bool
	last  string
}

// NewStatusPresenter returns a new StatusPresenter.
func NewStatusPresenter(timer *model.TimerModel, view StatusView) *StatusPresenter {
	return &StatusPresenter{timer: timer, view: view}
}

// OnState records the latest session snapshot.
func (p *StatusPresenter) OnState(st session.RenderState) {
	if p == nil {
		return
	}
	p.state = st
	p.ready = true
}

// Tick advances the timer and pushes the status line when it changed.
func (p *StatusPresenter) Tick(now time.Time) {
	if p == nil || p.timer == nil || p.view == nil || !p.ready {
		return
	}
	p.timer.OnTick(p.state.ImageIndex, now)
	onImage, _ := p.timer.Values()
	text := FormatStatus(p.state, onImage, now)
	if text == p.last {
		return
	}
	p.last = text
	p.view.SetStatus(text)
}

// FormatStatus renders the status line for st.
func FormatStatus(st session.RenderState, onImage time.Duration, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s  %s", humanize.Comma(int64(st.ImageIndex+1)), humanize.Comma(int64(st.ImageCount)), st.ImageName)

	crops := 0
	for i := range st.Crops {
		if !st.Crops[i].IsEmpty() {
			crops++
		}
	}
	fmt.Fprintf(&b, "  |  %d %s", crops, plural(crops, "crop", "crops"))
	if st.FocusVirtual {
		b.WriteString("  |  focus: new")
	} else {
		fmt.Fprintf(&b, "  |  focus: %d", st.Focus+1)
	}
	if st.ActiveLabel >= 0 && st.ActiveLabel < len(st.Labels) {
		fmt.Fprintf(&b, "  |  label: %s", st.Labels[st.ActiveLabel])
	}
	if st.LastSaved.IsZero() {
		b.WriteString("  |  not saved yet")
	} else {
		fmt.Fprintf(&b, "  |  saved %s", humanize.RelTime(st.LastSaved, now, "ago", "from now"))
	}
	fmt.Fprintf(&b, "  |  %s on image", onImage.Truncate(time.Second))
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
