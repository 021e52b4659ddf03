package annotation

import (
	"fmt"
	"image"
)

// Point is an absolute pixel position in image coordinates (origin top-left).
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Box is an axis-aligned rectangle in absolute pixel coordinates.
// A committed box satisfies XMin < XMax and YMin < YMax.
type Box struct {
	XMin int
	YMin int
	XMax int
	YMax int
}

// NormalizeBox builds a box from two opposite corners given in any order.
func NormalizeBox(a, b Point) Box {
	bx := Box{XMin: a.X, YMin: a.Y, XMax: b.X, YMax: b.Y}
	if bx.XMin > bx.XMax {
		bx.XMin, bx.XMax = bx.XMax, bx.XMin
	}
	if bx.YMin > bx.YMax {
		bx.YMin, bx.YMax = bx.YMax, bx.YMin
	}
	return bx
}

// BoxFromRect converts a (possibly non-canonical) rectangle into a normalized box.
func BoxFromRect(r image.Rectangle) Box {
	return NormalizeBox(Point{r.Min.X, r.Min.Y}, Point{r.Max.X, r.Max.Y})
}

// Valid reports whether the box has a strictly positive width and height.
func (b Box) Valid() bool { return b.XMin < b.XMax && b.YMin < b.YMax }

// Rect returns the box as an image.Rectangle.
func (b Box) Rect() image.Rectangle { return image.Rect(b.XMin, b.YMin, b.XMax, b.YMax) }

func (b Box) String() string {
	return fmt.Sprintf("[%d,%d %d,%d]", b.XMin, b.YMin, b.XMax, b.YMax)
}
