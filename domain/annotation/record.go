package annotation

// PartKind distinguishes the stem from the leaves of a crop.
type PartKind int

const (
	KindStem PartKind = iota + 1
	KindLeaf
)

func (k PartKind) String() string {
	switch k {
	case KindStem:
		return "stem"
	case KindLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// ParsePartKind maps the persisted kind name back to a PartKind.
func ParsePartKind(s string) (PartKind, bool) {
	switch s {
	case "stem":
		return KindStem, true
	case "leaf":
		return KindLeaf, true
	}
	return 0, false
}

// Record is one annotated plant: a stem, leaves in insertion order, an optional box and a label.
type Record struct {
	Label  string
	Stem   *Point
	Leaves []Point
	Box    *Box
}

// NewRecord returns an empty record carrying label.
func NewRecord(label string) *Record { return &Record{Label: label} }

// IsEmpty reports whether the record holds no stem, no leaves and no box.
// Empty records are never persisted.
func (r *Record) IsEmpty() bool {
	return r == nil || (r.Stem == nil && len(r.Leaves) == 0 && r.Box == nil)
}

// PointCount returns the number of keypoints (stem included).
func (r *Record) PointCount() int {
	if r == nil {
		return 0
	}
	n := len(r.Leaves)
	if r.Stem != nil {
		n++
	}
	return n
}

// addPoint stores p as the stem when none is set, otherwise appends it as a leaf.
func (r *Record) addPoint(p Point) PartKind {
	if r.Stem == nil {
		r.Stem = &p
		return KindStem
	}
	r.Leaves = append(r.Leaves, p)
	return KindLeaf
}

// removeLastPoint reverts a point added as kind: the stem itself, or the
// most recent leaf. A zero kind drops the last leaf, or the stem once no
// leaves remain.
func (r *Record) removeLastPoint(kind PartKind) bool {
	if kind == KindStem {
		if r.Stem == nil {
			return false
		}
		r.Stem = nil
		return true
	}
	if n := len(r.Leaves); n > 0 {
		r.Leaves = r.Leaves[:n-1]
		return true
	}
	if r.Stem != nil {
		r.Stem = nil
		return true
	}
	return false
}

// Clone returns a deep copy so callers can hand records to renderers safely.
func (r *Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	c := Record{Label: r.Label}
	if r.Stem != nil {
		s := *r.Stem
		c.Stem = &s
	}
	if len(r.Leaves) > 0 {
		c.Leaves = append([]Point(nil), r.Leaves...)
	}
	if r.Box != nil {
		b := *r.Box
		c.Box = &b
	}
	return c
}
