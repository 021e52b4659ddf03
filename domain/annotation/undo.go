package annotation

// OpKind tags an inverse operation stored in the undo log.
type OpKind int

const (
	// OpRemoveLastPoint reverts an added point on Record.
	OpRemoveLastPoint OpKind = iota + 1
	// OpClearBox reverts a committed box on Record, restoring Previous.
	OpClearBox
)

func (k OpKind) String() string {
	switch k {
	case OpRemoveLastPoint:
		return "remove_last_point"
	case OpClearBox:
		return "clear_box"
	default:
		return "unknown"
	}
}

// Op is one inverse operation. It is pushed together with the forward mutation it reverses.
type Op struct {
	Kind     OpKind
	Record   int
	Part     PartKind // OpRemoveLastPoint only
	Previous *Box     // OpClearBox only
}

// UndoLog is a stack of inverse operations scoped to one buffer. The zero value is ready to use.
type UndoLog struct {
	ops []Op
}

// Push records op on top of the stack.
func (l *UndoLog) Push(op Op) { l.ops = append(l.ops, op) }

// Len returns the number of recorded operations.
func (l *UndoLog) Len() int { return len(l.ops) }

// Clear drops every recorded operation.
func (l *UndoLog) Clear() { l.ops = l.ops[:0] }

// Top returns the most recent operation without removing it.
func (l *UndoLog) Top() (Op, bool) {
	if len(l.ops) == 0 {
		return Op{}, false
	}
	return l.ops[len(l.ops)-1], true
}

// Has reports whether any operation targets record.
func (l *UndoLog) Has(record int) bool {
	for i := len(l.ops) - 1; i >= 0; i-- {
		if l.ops[i].Record == record {
			return true
		}
	}
	return false
}

// take removes and returns the most recent operation on record of the given kind.
// A zero kind matches any kind.
func (l *UndoLog) take(record int, kind OpKind) (Op, bool) {
	for i := len(l.ops) - 1; i >= 0; i-- {
		op := l.ops[i]
		if op.Record != record || (kind != 0 && op.Kind != kind) {
			continue
		}
		l.ops = append(l.ops[:i], l.ops[i+1:]...)
		return op, true
	}
	return Op{}, false
}

// dropFrom discards operations on records with index >= n.
func (l *UndoLog) dropFrom(n int) {
	kept := l.ops[:0]
	for _, op := range l.ops {
		if op.Record < n {
			kept = append(kept, op)
		}
	}
	l.ops = kept
}
