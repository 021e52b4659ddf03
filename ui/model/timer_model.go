package model

import (
	"time"
)

// TimerModel tracks time spent on the current image and on the whole session.
// Presenters feed it on every tick and poll Values(). The zero value is ready to use.
type TimerModel struct {
	started    bool
	image      int
	imageStart time.Time
	sessionAt  time.Time
	last       time.Time
}

// NewTimerModel returns a pointer to a ready-to-use TimerModel.
func NewTimerModel() *TimerModel { return &TimerModel{} }

// OnTick records that image is displayed at now. A change of image restarts the per-image clock.
func (m *TimerModel) OnTick(image int, now time.Time) {
	if m == nil {
		return
	}
	if !m.started {
		m.started = true
		m.sessionAt = now
		m.image = image
		m.imageStart = now
	}
	if image != m.image {
		m.image = image
		m.imageStart = now
	}
	if now.After(m.last) {
		m.last = now
	}
}

// Values returns time on the current image and total session time as of the last tick.
func (m *TimerModel) Values() (onImage, total time.Duration) {
	if m == nil || !m.started {
		return 0, 0
	}
	return m.last.Sub(m.imageStart), m.last.Sub(m.sessionAt)
}
