package textutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsafePath reports a name that would resolve outside the target
// directory or to nothing at all.
var ErrUnsafePath = errors.New("unsafe file name")

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"\x00", "",
)

// SanitizeFileName cleans a single path segment. Colons and asterisks become
// dashes, other unsafe characters are removed, and separators become dashes.
func SanitizeFileName(name string) string {
	name = strings.NewReplacer("/", "-", "\\", "-").Replace(name)
	return strings.TrimSpace(fileNameReplacer.Replace(strings.TrimSpace(name)))
}

// RelativePath converts a daemon file name, which may use either slash as a
// separator, into a relative path for the local OS. Empty and "." segments
// are dropped; a ".." segment is rejected.
func RelativePath(name string) (string, error) {
	segments := strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' })
	clean := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = SanitizeFileName(segment)
		switch segment {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
		}
		clean = append(clean, segment)
	}
	if len(clean) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return filepath.Join(clean...), nil
}
