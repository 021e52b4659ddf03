package model

import "image"

// ViewportModel maps between display coordinates (the scaled image shown in
// the canvas) and image pixel coordinates. The zero value maps 1:1.
type ViewportModel struct {
	size  image.Point // source image size
	scale float64
}

// Set records the source image size and the display scale factor.
func (m *ViewportModel) Set(size image.Point, scale float64) {
	if m == nil {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	m.size = size
	m.scale = scale
}

// Scale returns the display factor (1 when unset).
func (m *ViewportModel) Scale() float64 {
	if m == nil || m.scale <= 0 {
		return 1
	}
	return m.scale
}

// ToImage converts a display position to image pixels, clamped to the image bounds.
func (m *ViewportModel) ToImage(x, y int) image.Point {
	s := m.Scale()
	p := image.Pt(int(float64(x)/s), int(float64(y)/s))
	if m == nil || m.size.X <= 0 || m.size.Y <= 0 {
		return p
	}
	p.X = clamp(p.X, 0, m.size.X-1)
	p.Y = clamp(p.Y, 0, m.size.Y-1)
	return p
}

// Contains reports whether a display position lies on the image.
func (m *ViewportModel) Contains(x, y int) bool {
	if m == nil || m.size.X <= 0 {
		return true
	}
	s := m.Scale()
	return x >= 0 && y >= 0 && float64(x) < float64(m.size.X)*s && float64(y) < float64(m.size.Y)*s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
