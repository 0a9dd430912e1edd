package record

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrMissingKey   = errors.New("missing key field")
	ErrDuplicateKey = errors.New("duplicate key")
)

// KeyError reports a record that cannot be placed in a keyed collection.
type KeyError struct {
	Field string
	Key   string
	Index int
	Err   error
}

func (e *KeyError) Error() string {
	if errors.Is(e.Err, ErrDuplicateKey) {
		return fmt.Sprintf("record %d: %s %q for field %q", e.Index, e.Err, e.Key, e.Field)
	}
	return fmt.Sprintf("record %d: %s %q", e.Index, e.Err, e.Field)
}

func (e *KeyError) Unwrap() error { return e.Err }

// Keyed is the keyed form of a record collection. Entries are indexed by
// the text of their key value, and the original value is kept so ToList
// restores it unchanged.
type Keyed struct {
	field   string
	entries map[string]keyedEntry
}

type keyedEntry struct {
	key  any
	body Record
}

// NewKeyed builds a keyed collection from bodies indexed by text keys, as
// read from the JSON object form.
func NewKeyed(keyField string, bodies map[string]Record) *Keyed {
	k := &Keyed{field: keyField, entries: make(map[string]keyedEntry, len(bodies))}
	for key, body := range bodies {
		k.entries[key] = keyedEntry{key: key, body: body.Clone()}
	}
	return k
}

// Len returns the number of entries.
func (k *Keyed) Len() int { return len(k.entries) }

// Keys returns the entry keys in sorted order.
func (k *Keyed) Keys() []string {
	keys := make([]string, 0, len(k.entries))
	for key := range k.entries {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Delete removes key from the collection.
func (k *Keyed) Delete(key string) {
	delete(k.entries, key)
}

// ToMap keys records by the value at keyField. Each stored body is a copy
// with keyField removed. A record lacking keyField, or two records sharing a
// key, fail the whole conversion.
func ToMap(records []Record, keyField string) (*Keyed, error) {
	out := &Keyed{field: keyField, entries: make(map[string]keyedEntry, len(records))}
	for i, r := range records {
		raw, ok := r[keyField]
		if !ok {
			return nil, &KeyError{Field: keyField, Index: i, Err: ErrMissingKey}
		}
		key := valueText(raw)
		if _, dup := out.entries[key]; dup {
			return nil, &KeyError{Field: keyField, Key: key, Index: i, Err: ErrDuplicateKey}
		}
		body := r.Clone()
		delete(body, keyField)
		out.entries[key] = keyedEntry{key: raw, body: body}
	}
	return out, nil
}

// ToList flattens a keyed collection back into records, restoring the key
// field with its original value. Records come back ordered by key.
func ToList(k *Keyed) []Record {
	out := make([]Record, 0, k.Len())
	for _, key := range k.Keys() {
		entry := k.entries[key]
		r := entry.body.Clone()
		if r == nil {
			r = Record{}
		}
		r[k.field] = entry.key
		out = append(out, r)
	}
	return out
}
