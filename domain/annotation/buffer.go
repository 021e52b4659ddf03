package annotation

// Buffer holds the crop records of the image being annotated, the focused
// record and the undo log of the current visit.
//
// Record indices are stable: a record emptied by undo keeps its slot until
// RemoveEmptyTrailing runs. Focus ranges over [0, Len()]; Focus() == Len()
// designates a virtual record that is materialized by the first AddPoint or
// SetBox aimed at it.
type Buffer struct {
	records      []*Record
	focus        int
	defaultLabel string
	undo         UndoLog
}

// NewBuffer returns an empty buffer. New records are created with defaultLabel.
func NewBuffer(defaultLabel string) *Buffer {
	return &Buffer{defaultLabel: defaultLabel}
}

// FromRecords builds a buffer from previously persisted records. Loaded
// content is never undoable. Focus starts on the first record.
func FromRecords(records []Record, defaultLabel string) *Buffer {
	b := NewBuffer(defaultLabel)
	for i := range records {
		r := records[i].Clone()
		b.records = append(b.records, &r)
	}
	return b
}

// Len returns the number of real records, empty ones included.
func (b *Buffer) Len() int { return len(b.records) }

// Focus returns the focused record index in [0, Len()].
func (b *Buffer) Focus() int { return b.focus }

// FocusVirtual reports whether focus points past the last real record.
func (b *Buffer) FocusVirtual() bool { return b.focus >= len(b.records) }

// SetDefaultLabel changes the label of future records. Existing records keep theirs.
func (b *Buffer) SetDefaultLabel(label string) { b.defaultLabel = label }

// UndoDepth returns the number of undoable operations.
func (b *Buffer) UndoDepth() int { return b.undo.Len() }

// Record returns a copy of record i.
func (b *Buffer) Record(i int) (Record, bool) {
	if i < 0 || i >= len(b.records) {
		return Record{}, false
	}
	return b.records[i].Clone(), true
}

// Records returns copies of all records, empty ones included, in index order.
func (b *Buffer) Records() []Record {
	out := make([]Record, len(b.records))
	for i, r := range b.records {
		out[i] = r.Clone()
	}
	return out
}

// NonEmpty counts the records that would be persisted.
func (b *Buffer) NonEmpty() int {
	n := 0
	for _, r := range b.records {
		if !r.IsEmpty() {
			n++
		}
	}
	return n
}

// SetFocus moves focus to i, clamped to [0, Len()].
func (b *Buffer) SetFocus(i int) {
	switch {
	case i < 0:
		i = 0
	case i > len(b.records):
		i = len(b.records)
	}
	b.focus = i
}

// CycleFocus moves focus by delta, wrapping over the Len()+1 focus slots.
func (b *Buffer) CycleFocus(delta int) {
	slots := len(b.records) + 1
	b.focus = ((b.focus+delta)%slots + slots) % slots
}

// focused returns the focused record, materializing the virtual one.
func (b *Buffer) focused() (int, *Record) {
	if b.focus >= len(b.records) {
		b.records = append(b.records, NewRecord(b.defaultLabel))
		b.focus = len(b.records) - 1
	}
	return b.focus, b.records[b.focus]
}

// AddPoint adds p to the focused record: as the stem when it has none,
// otherwise as the next leaf. It returns the record index and the role p took.
func (b *Buffer) AddPoint(p Point) (int, PartKind) {
	i, r := b.focused()
	kind := r.addPoint(p)
	b.undo.Push(Op{Kind: OpRemoveLastPoint, Record: i, Part: kind})
	return i, kind
}

// SetBox replaces the focused record's box. The box is normalized first;
// degenerate boxes are rejected and leave the buffer untouched.
func (b *Buffer) SetBox(box Box) (int, bool) {
	box = NormalizeBox(Point{box.XMin, box.YMin}, Point{box.XMax, box.YMax})
	if !box.Valid() {
		return b.focus, false
	}
	i, r := b.focused()
	b.undo.Push(Op{Kind: OpClearBox, Record: i, Previous: r.Box})
	r.Box = &box
	return i, true
}

// NewCrop focuses a fresh record. When the last record is still empty it is
// reused instead of growing the buffer; when focus is already virtual this is a no-op.
func (b *Buffer) NewCrop() {
	n := len(b.records)
	if b.focus >= n {
		return
	}
	if n > 0 && b.records[n-1].IsEmpty() {
		b.records[n-1].Label = b.defaultLabel
		b.focus = n - 1
		return
	}
	b.focus = n
}

// Undo reverts the most recent operation on the focused record. A committed
// box is cleared before points are removed. When the focused record has
// nothing to undo, the record touched by the most recent operation is
// reverted instead and receives focus. It reports whether anything changed.
func (b *Buffer) Undo() bool {
	top, ok := b.undo.Top()
	if !ok {
		return false
	}
	target := b.focus
	if target >= len(b.records) || !b.undo.Has(target) {
		target = top.Record
	}
	if target < 0 || target >= len(b.records) {
		b.undo.take(top.Record, 0)
		return false
	}

	r := b.records[target]
	var op Op
	found := false
	if r.Box != nil {
		op, found = b.undo.take(target, OpClearBox)
	}
	if !found {
		op, found = b.undo.take(target, OpRemoveLastPoint)
	}
	if !found {
		op, found = b.undo.take(target, 0)
	}
	if !found {
		return false
	}

	switch op.Kind {
	case OpClearBox:
		r.Box = op.Previous
	case OpRemoveLastPoint:
		r.removeLastPoint(op.Part)
	}
	b.focus = target
	return true
}

// RemoveEmptyTrailing drops empty records from the end of the buffer and
// returns how many were removed. Focus is clamped to the new length.
func (b *Buffer) RemoveEmptyTrailing() int {
	n := len(b.records)
	for n > 0 && b.records[n-1].IsEmpty() {
		n--
	}
	removed := len(b.records) - n
	if removed == 0 {
		return 0
	}
	for i := n; i < len(b.records); i++ {
		b.records[i] = nil
	}
	b.records = b.records[:n]
	b.undo.dropFrom(n)
	if b.focus > n {
		b.focus = n
	}
	return removed
}
