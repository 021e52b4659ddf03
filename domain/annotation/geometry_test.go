package annotation

import (
	"image"
	"testing"
)

func TestNormalizeBox_AnyCornerOrder(t *testing.T) {
	want := Box{XMin: 10, YMin: 20, XMax: 30, YMax: 40}
	cases := [][2]Point{
		{{10, 20}, {30, 40}},
		{{30, 40}, {10, 20}},
		{{30, 20}, {10, 40}},
		{{10, 40}, {30, 20}},
	}
	for _, c := range cases {
		if got := NormalizeBox(c[0], c[1]); got != want {
			t.Fatalf("NormalizeBox(%v,%v) = %v, want %v", c[0], c[1], got, want)
		}
	}
	if got := BoxFromRect(image.Rectangle{Min: image.Pt(30, 40), Max: image.Pt(10, 20)}); got != want {
		t.Fatalf("BoxFromRect = %v, want %v", got, want)
	}
}

func TestBox_Valid(t *testing.T) {
	if (Box{XMin: 1, YMin: 1, XMax: 1, YMax: 5}).Valid() {
		t.Fatalf("zero width box reported valid")
	}
	if !(Box{XMin: 1, YMin: 1, XMax: 2, YMax: 2}).Valid() {
		t.Fatalf("1x1 box reported invalid")
	}
}
