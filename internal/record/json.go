package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrEmptyInput is returned by Decode when the stream holds no JSON value.
var ErrEmptyInput = errors.New("no records in input")

var errTrailingData = errors.New("decode records: unexpected data after the first collection")

// Decode reads exactly one JSON collection from r. A JSON array is returned as is; a
// JSON object is treated as the keyed form and flattened with keyField.
// Numbers decode as json.Number so they re-encode unchanged.
func Decode(r io.Reader, keyField string) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	switch data[0] {
	case '[':
		var list []Record
		if err := dec.Decode(&list); err != nil {
			return nil, fmt.Errorf("decode record list: %w", err)
		}
		if dec.More() {
			return nil, errTrailingData
		}
		for i, rec := range list {
			if rec == nil {
				return nil, fmt.Errorf("decode record list: element %d is not an object", i)
			}
		}
		return list, nil
	case '{':
		var keyed map[string]Record
		if err := dec.Decode(&keyed); err != nil {
			return nil, fmt.Errorf("decode keyed records: %w", err)
		}
		if dec.More() {
			return nil, errTrailingData
		}
		return ToList(NewKeyed(keyField, keyed)), nil
	default:
		return nil, errors.New("decode records: expected a JSON array or object")
	}
}

// EncodeList writes records as an indented JSON array of canonical records.
func EncodeList(w io.Writer, records []Record) error {
	return encode(w, DefaultOrdering.CanonicalList(records))
}

// EncodeMap writes a keyed collection as an indented JSON object. Keys are
// emitted as text in sorted order and each value is rendered canonically.
func EncodeMap(w io.Writer, keyed *Keyed) error {
	out := make(map[string]Ordered, keyed.Len())
	for key, entry := range keyed.entries {
		out[key] = Canonical(entry.body)
	}
	return encode(w, out)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
