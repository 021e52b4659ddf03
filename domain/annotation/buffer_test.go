package annotation

import "testing"

func TestBuffer_FirstPointIsStemRestAreLeaves(t *testing.T) {
	b := NewBuffer("unknown")
	i, kind := b.AddPoint(Pt(100, 200))
	if i != 0 || kind != KindStem {
		t.Fatalf("first point: got record=%d kind=%v", i, kind)
	}
	_, kind = b.AddPoint(Pt(110, 180))
	if kind != KindLeaf {
		t.Fatalf("second point should be a leaf, got %v", kind)
	}
	r, _ := b.Record(0)
	if r.Stem == nil || *r.Stem != Pt(100, 200) || len(r.Leaves) != 1 || r.Leaves[0] != Pt(110, 180) {
		t.Fatalf("unexpected record %+v", r)
	}
	if r.Label != "unknown" {
		t.Fatalf("expected default label, got %q", r.Label)
	}
}

func TestBuffer_UndoRemovesBoxBeforePoints(t *testing.T) {
	b := NewBuffer("maize")
	b.AddPoint(Pt(10, 10))
	b.AddPoint(Pt(12, 8))
	if _, ok := b.SetBox(Box{XMin: 0, YMin: 0, XMax: 50, YMax: 50}); !ok {
		t.Fatalf("expected box accepted")
	}
	b.Undo()
	r, _ := b.Record(0)
	if r.Box != nil {
		t.Fatalf("box should be removed first, got %v", r.Box)
	}
	if r.Stem == nil || len(r.Leaves) != 1 {
		t.Fatalf("points should be intact, got %+v", r)
	}
	b.Undo()
	r, _ = b.Record(0)
	if len(r.Leaves) != 0 || r.Stem == nil {
		t.Fatalf("second undo should pop the leaf, got %+v", r)
	}
	b.Undo()
	r, _ = b.Record(0)
	if !r.IsEmpty() {
		t.Fatalf("third undo should clear the stem, got %+v", r)
	}
	if b.Undo() {
		t.Fatalf("undo on empty log should be a no-op")
	}
}

func TestBuffer_UndoRestoresPreviousBox(t *testing.T) {
	b := NewBuffer("x")
	first := Box{XMin: 1, YMin: 1, XMax: 5, YMax: 5}
	b.SetBox(first)
	b.SetBox(Box{XMin: 2, YMin: 2, XMax: 9, YMax: 9})
	b.Undo()
	r, _ := b.Record(0)
	if r.Box == nil || *r.Box != first {
		t.Fatalf("expected previous box restored, got %v", r.Box)
	}
}

func TestBuffer_SetBoxNormalizesAndRejectsDegenerate(t *testing.T) {
	b := NewBuffer("x")
	if _, ok := b.SetBox(Box{XMin: 10, YMin: 10, XMax: 10, YMax: 40}); ok {
		t.Fatalf("zero-width box must be rejected")
	}
	if b.Len() != 0 || b.UndoDepth() != 0 {
		t.Fatalf("rejected box must not materialize a record")
	}
	b.SetBox(Box{XMin: 40, YMin: 30, XMax: 10, YMax: 5})
	r, _ := b.Record(0)
	want := Box{XMin: 10, YMin: 5, XMax: 40, YMax: 30}
	if r.Box == nil || *r.Box != want {
		t.Fatalf("expected normalized %v, got %v", want, r.Box)
	}
}

func TestBuffer_NewCropMaterializesLazily(t *testing.T) {
	b := NewBuffer("x")
	b.AddPoint(Pt(1, 1))
	b.NewCrop()
	if !b.FocusVirtual() || b.Len() != 1 {
		t.Fatalf("new crop should focus a virtual record; len=%d focus=%d", b.Len(), b.Focus())
	}
	b.NewCrop()
	if b.Len() != 1 {
		t.Fatalf("repeated new crop must not grow the buffer")
	}
	b.AddPoint(Pt(2, 2))
	if b.Len() != 2 || b.Focus() != 1 {
		t.Fatalf("point should materialize record 1; len=%d focus=%d", b.Len(), b.Focus())
	}
}

func TestBuffer_UndoEmptiedRecordKeepsIndices(t *testing.T) {
	b := NewBuffer("x")
	b.AddPoint(Pt(1, 1))
	b.NewCrop()
	b.AddPoint(Pt(2, 2))
	b.NewCrop()
	b.AddPoint(Pt(3, 3))

	b.SetFocus(1)
	b.Undo()
	if b.Len() != 3 {
		t.Fatalf("emptied record must keep its slot, len=%d", b.Len())
	}
	r, _ := b.Record(1)
	if !r.IsEmpty() {
		t.Fatalf("record 1 should be empty, got %+v", r)
	}
	if b.NonEmpty() != 2 {
		t.Fatalf("expected 2 non-empty records, got %d", b.NonEmpty())
	}
}

func TestBuffer_UndoFallsBackToMostRecentRecord(t *testing.T) {
	b := NewBuffer("x")
	b.AddPoint(Pt(1, 1))
	b.NewCrop()
	b.AddPoint(Pt(2, 2))
	b.NewCrop()
	if !b.Undo() {
		t.Fatalf("undo from virtual focus should revert the latest record")
	}
	if b.Focus() != 1 {
		t.Fatalf("focus should move to record 1, got %d", b.Focus())
	}
	r, _ := b.Record(1)
	if !r.IsEmpty() {
		t.Fatalf("record 1 should be empty after undo, got %+v", r)
	}
}

func TestBuffer_LoadedContentIsNotUndoable(t *testing.T) {
	stem := Pt(5, 5)
	b := FromRecords([]Record{{Label: "bean", Stem: &stem, Leaves: []Point{{6, 6}}}}, "maize")
	b.AddPoint(Pt(7, 7))
	b.Undo()
	if b.Undo() {
		t.Fatalf("loaded points must not be undone")
	}
	r, _ := b.Record(0)
	if r.Stem == nil || len(r.Leaves) != 1 {
		t.Fatalf("loaded record altered: %+v", r)
	}
}

func TestBuffer_CycleFocusWraps(t *testing.T) {
	b := NewBuffer("x")
	b.AddPoint(Pt(1, 1))
	b.NewCrop()
	b.AddPoint(Pt(2, 2))
	b.SetFocus(0)
	b.CycleFocus(-1)
	if b.Focus() != 2 {
		t.Fatalf("prev from 0 should wrap to virtual slot 2, got %d", b.Focus())
	}
	b.CycleFocus(1)
	if b.Focus() != 0 {
		t.Fatalf("next from virtual slot should wrap to 0, got %d", b.Focus())
	}
}

func TestBuffer_RemoveEmptyTrailing(t *testing.T) {
	b := NewBuffer("x")
	b.AddPoint(Pt(1, 1))
	b.NewCrop()
	b.AddPoint(Pt(2, 2))
	b.Undo()
	if n := b.RemoveEmptyTrailing(); n != 1 {
		t.Fatalf("expected 1 trailing record removed, got %d", n)
	}
	if b.Len() != 1 || b.Focus() != 1 {
		t.Fatalf("unexpected len=%d focus=%d", b.Len(), b.Focus())
	}
}

func TestBuffer_RemoveEmptyTrailingKeepsInnerHoles(t *testing.T) {
	b := NewBuffer("x")
	for i := 0; i < 4; i++ {
		if i > 0 {
			b.NewCrop()
		}
		b.AddPoint(Pt(i, i))
	}
	b.SetFocus(1)
	b.Undo()
	b.SetFocus(3)
	b.Undo()
	if b.Len() != 4 {
		t.Fatalf("expected 4 records before compaction, got %d", b.Len())
	}
	if n := b.RemoveEmptyTrailing(); n != 1 {
		t.Fatalf("expected only the tail removed, got %d", n)
	}
	if b.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", b.Len())
	}
	if r, _ := b.Record(1); !r.IsEmpty() {
		t.Fatalf("hole at index 1 must stay in place, got %+v", r)
	}
	if r, _ := b.Record(2); r.Stem == nil || *r.Stem != Pt(2, 2) {
		t.Fatalf("record 2 must keep its index, got %+v", r)
	}
}

func TestBuffer_LabelIsNotRetroactive(t *testing.T) {
	b := NewBuffer("maize")
	b.AddPoint(Pt(1, 1))
	b.SetDefaultLabel("bean")
	b.NewCrop()
	b.AddPoint(Pt(2, 2))
	r0, _ := b.Record(0)
	r1, _ := b.Record(1)
	if r0.Label != "maize" || r1.Label != "bean" {
		t.Fatalf("labels: got %q and %q", r0.Label, r1.Label)
	}
}

func TestBuffer_FullUndoRestoresVisitStart(t *testing.T) {
	stem := Pt(5, 5)
	b := FromRecords([]Record{{Label: "bean", Stem: &stem}}, "bean")
	b.AddPoint(Pt(6, 6))
	b.SetBox(Box{XMin: 0, YMin: 0, XMax: 9, YMax: 9})
	b.NewCrop()
	b.AddPoint(Pt(20, 20))
	b.AddPoint(Pt(21, 21))
	for b.UndoDepth() > 0 {
		if !b.Undo() {
			t.Fatalf("undo stalled with depth %d", b.UndoDepth())
		}
	}
	b.RemoveEmptyTrailing()
	recs := b.Records()
	if len(recs) != 1 || recs[0].Box != nil || len(recs[0].Leaves) != 0 || *recs[0].Stem != stem {
		t.Fatalf("expected only the loaded record, got %+v", recs)
	}
}

func TestBuffer_UndoStemAddedToLoadedLeaves(t *testing.T) {
	b := FromRecords([]Record{{Label: "x", Leaves: []Point{Pt(1, 1), Pt(2, 2)}}}, "x")
	if _, kind := b.AddPoint(Pt(5, 5)); kind != KindStem {
		t.Fatalf("expected the added point to become the stem, got %v", kind)
	}
	if !b.Undo() {
		t.Fatalf("expected undo to apply")
	}
	r, _ := b.Record(0)
	if r.Stem != nil || len(r.Leaves) != 2 {
		t.Fatalf("undo must revert the added stem only, got %+v", r)
	}
}
