package record

import (
	"slices"
	"strings"
)

// Priority field names as they appear on the wire.
const (
	FieldName   = "name"
	FieldHash   = "hash"
	FieldSID    = "sid"
	FieldFileID = "fileid"
)

// PriorityFields lists the fields pinned to the front of rendered records.
var PriorityFields = []string{FieldName, FieldHash, FieldSID, FieldFileID}

// DefaultOrdering is the field ordering policy used for all command output.
var DefaultOrdering = NewOrdering(PriorityFields...)

// Ordering is a total order over field names. Priority fields sort first in
// their listed sequence; everything else follows in byte-wise order.
type Ordering struct {
	priority []string
	rank     map[string]int
}

// NewOrdering builds an ordering that pins the given fields in order.
// Repeated names keep their first position.
func NewOrdering(priority ...string) *Ordering {
	o := &Ordering{rank: make(map[string]int, len(priority))}
	for _, name := range priority {
		if _, ok := o.rank[name]; ok {
			continue
		}
		o.rank[name] = len(o.priority)
		o.priority = append(o.priority, name)
	}
	return o
}

// Priority returns a copy of the pinned field names.
func (o *Ordering) Priority() []string {
	return slices.Clone(o.priority)
}

// Compare returns a negative number when a sorts before b, zero when they are
// the same field, and a positive number otherwise.
func (o *Ordering) Compare(a, b string) int {
	if a == b {
		return 0
	}
	ra, aPinned := o.rank[a]
	rb, bPinned := o.rank[b]
	switch {
	case aPinned && bPinned:
		if ra < rb {
			return -1
		}
		return 1
	case aPinned:
		return -1
	case bPinned:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// Less reports whether a sorts strictly before b.
func (o *Ordering) Less(a, b string) bool {
	return o.Compare(a, b) < 0
}

// Keys returns the field names of r in canonical order.
func (o *Ordering) Keys(r Record) []string {
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, o.Compare)
	return keys
}
