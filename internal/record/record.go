package record

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"strconv"
)

// Record maps field names to opaque values. Different record kinds carry
// different field sets.
type Record map[string]any

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// Text returns the value at field rendered as text. The boolean is false
// when the field is absent.
func (r Record) Text(field string) (string, bool) {
	value, ok := r[field]
	if !ok {
		return "", false
	}
	return valueText(value), true
}

// Number returns the value at field as a float64 when it holds a number.
func (r Record) Number(field string) (float64, bool) {
	value, ok := r[field]
	if !ok {
		return 0, false
	}
	return numberValue(value)
}

func valueText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func numberValue(value any) (float64, bool) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return v, !math.IsNaN(v)
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
