package textutil

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"  ubuntu.iso ":     "ubuntu.iso",
		"Movie: Part 1?":    "Movie- Part 1",
		`a/b\c`:             "a-b-c",
		`<weird>|"name"*.x`: "weirdname-.x",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRelativePath(t *testing.T) {
	cases := map[string]string{
		"ubuntu.iso":        "ubuntu.iso",
		"disc/extras/a.mkv": filepath.Join("disc", "extras", "a.mkv"),
		`disc\sub\b.srt`:    filepath.Join("disc", "sub", "b.srt"),
		"/abs/./x.bin":      filepath.Join("abs", "x.bin"),
		"dir//What?.txt":    filepath.Join("dir", "What.txt"),
	}
	for in, want := range cases {
		got, err := RelativePath(in)
		if err != nil {
			t.Fatalf("RelativePath(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("RelativePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRelativePathRejectsEscapes(t *testing.T) {
	for _, in := range []string{"", "../etc/passwd", `a\..\..\b`, "///", "?"} {
		if _, err := RelativePath(in); !errors.Is(err, ErrUnsafePath) {
			t.Fatalf("RelativePath(%q): expected ErrUnsafePath, got %v", in, err)
		}
	}
}
