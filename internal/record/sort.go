package record

import (
	"cmp"
	"slices"
	"strings"
)

// SortOptions controls Sort.
type SortOptions struct {
	Field         string
	Reverse       bool
	CaseSensitive bool
}

// Sort orders records by the value at opts.Field, keeping equal records in
// their input order. Numbers compare numerically and sort before text;
// records missing the field sort last, also when reversed. The input slice
// is not modified.
func Sort(records []Record, opts SortOptions) []Record {
	field := opts.Field
	if field == "" {
		field = FieldName
	}

	type keyed struct {
		rec Record
		key sortKey
	}
	items := make([]keyed, len(records))
	for i, r := range records {
		items[i] = keyed{rec: r, key: newSortKey(r, field, opts.CaseSensitive)}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		if a.key.missing || b.key.missing {
			return cmp.Compare(boolRank(a.key.missing), boolRank(b.key.missing))
		}
		c := a.key.compare(b.key)
		if opts.Reverse {
			return -c
		}
		return c
	})

	out := make([]Record, len(items))
	for i, item := range items {
		out[i] = item.rec
	}
	return out
}

type sortKey struct {
	missing bool
	numeric bool
	number  float64
	text    string
}

func newSortKey(r Record, field string, caseSensitive bool) sortKey {
	value, ok := r[field]
	if !ok {
		return sortKey{missing: true}
	}
	if n, ok := numberValue(value); ok {
		return sortKey{numeric: true, number: n}
	}
	text := valueText(value)
	if !caseSensitive {
		text = Fold(text)
	}
	return sortKey{text: text}
}

func (k sortKey) compare(other sortKey) int {
	switch {
	case k.numeric && other.numeric:
		return cmp.Compare(k.number, other.number)
	case k.numeric:
		return -1
	case other.numeric:
		return 1
	default:
		return strings.Compare(k.text, other.text)
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
