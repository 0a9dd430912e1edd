package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Ordered is a record with a fixed field sequence. Its JSON encoding writes
// fields in that sequence.
type Ordered struct {
	keys   []string
	values Record
}

// Canonical reorders r's fields using the ordering policy. The input is not
// modified.
func (o *Ordering) Canonical(r Record) Ordered {
	return Ordered{keys: o.Keys(r), values: r.Clone()}
}

// CanonicalList renders every record in records.
func (o *Ordering) CanonicalList(records []Record) []Ordered {
	out := make([]Ordered, 0, len(records))
	for _, r := range records {
		out = append(out, o.Canonical(r))
	}
	return out
}

// Canonical renders r with DefaultOrdering.
func Canonical(r Record) Ordered {
	return DefaultOrdering.Canonical(r)
}

// Keys returns the field names in rendered order.
func (r Ordered) Keys() []string {
	return slices.Clone(r.keys)
}

// MarshalJSON encodes the fields as a JSON object in rendered order.
func (r Ordered) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, fmt.Errorf("encode field %q: %w", key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
