package model

import (
	"image"
)

// DragModel tracks an in-progress box drag in image coordinates. The zero value is idle and usable.
// No synchronization needed: updates occur on the UI thread.
type DragModel struct {
	active bool
	start  image.Point
	cur    image.Point
}

// Begin starts a drag at p, discarding any previous one.
func (m *DragModel) Begin(p image.Point) {
	if m == nil {
		return
	}
	m.active = true
	m.start = p
	m.cur = p
}

// Update moves the free corner. Ignored when no drag is active.
func (m *DragModel) Update(p image.Point) {
	if m == nil || !m.active {
		return
	}
	m.cur = p
}

// End finishes the drag at p and returns the dragged rectangle (not canonicalized).
func (m *DragModel) End(p image.Point) (image.Rectangle, bool) {
	if m == nil || !m.active {
		return image.Rectangle{}, false
	}
	m.cur = p
	r := image.Rectangle{Min: m.start, Max: m.cur}
	m.active = false
	return r, true
}

// Cancel drops the current drag.
func (m *DragModel) Cancel() {
	if m == nil {
		return
	}
	m.active = false
}

// Active reports whether a drag is in progress.
func (m *DragModel) Active() bool { return m != nil && m.active }

// Rect returns the provisional rectangle while dragging.
func (m *DragModel) Rect() (image.Rectangle, bool) {
	if !m.Active() {
		return image.Rectangle{}, false
	}
	return image.Rectangle{Min: m.start, Max: m.cur}.Canon(), true
}
