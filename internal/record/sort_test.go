package record_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"btc/internal/record"
)

func TestSortByNameIsCaseInsensitiveAndStable(t *testing.T) {
	input := []record.Record{
		{"name": "ubuntu-server", "hash": "1"},
		{"name": "debian", "hash": "2"},
		{"name": "Ubuntu", "hash": "3"},
		{"name": "DEBIAN", "hash": "4"},
	}
	got := record.Sort(input, record.SortOptions{})
	want := []string{"debian", "DEBIAN", "Ubuntu", "ubuntu-server"}
	if !reflect.DeepEqual(names(got), want) {
		t.Fatalf("unexpected order: %v", names(got))
	}
	if input[0]["name"] != "ubuntu-server" {
		t.Fatal("input slice was reordered")
	}
}

func TestSortCaseSensitive(t *testing.T) {
	input := []record.Record{{"name": "b"}, {"name": "B"}, {"name": "a"}}
	got := record.Sort(input, record.SortOptions{CaseSensitive: true})
	if !reflect.DeepEqual(names(got), []string{"B", "a", "b"}) {
		t.Fatalf("unexpected order: %v", names(got))
	}
}

func TestSortNumericValues(t *testing.T) {
	input := []record.Record{
		{"name": "big", "size": json.Number("1000")},
		{"name": "small", "size": int64(9)},
		{"name": "mid", "size": 100.5},
		{"name": "unknown"},
		{"name": "text", "size": "n/a"},
	}
	got := record.Sort(input, record.SortOptions{Field: "size"})
	if !reflect.DeepEqual(names(got), []string{"small", "mid", "big", "text", "unknown"}) {
		t.Fatalf("unexpected order: %v", names(got))
	}

	reversed := record.Sort(input, record.SortOptions{Field: "size", Reverse: true})
	if !reflect.DeepEqual(names(reversed), []string{"text", "big", "mid", "small", "unknown"}) {
		t.Fatalf("unexpected reversed order: %v", names(reversed))
	}
}
