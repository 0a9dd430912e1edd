package record

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// Filter selects records whose field value matches a shell-style glob.
type Filter struct {
	Field         string
	Pattern       string
	CaseSensitive bool
	Invert        bool
}

// Apply returns the matching records in their original relative order.
// Records missing Field never match.
func (f Filter) Apply(records []Record) ([]Record, error) {
	field := f.Field
	if field == "" {
		field = FieldName
	}
	pattern := f.Pattern
	if !f.CaseSensitive {
		pattern = Fold(pattern)
	}
	re, err := CompileGlob(pattern)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		text, ok := r.Text(field)
		matched := false
		if ok {
			if !f.CaseSensitive {
				text = Fold(text)
			}
			matched = re.MatchString(text)
		}
		if matched != f.Invert {
			out = append(out, r)
		}
	}
	return out, nil
}

// Fold returns s case-folded for caseless comparison.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// CompileGlob translates an fnmatch-style pattern into an anchored regular
// expression. '*' and '?' match any character including '/'; bracket
// expressions accept a leading '!' for negation. An unterminated '['
// matches itself.
func CompileGlob(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString(`(?s)^`)
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; c {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			end := bracketEnd(runes, i)
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(bracketClass(runes[i+1 : end]))
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString(`$`)
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}

// bracketEnd returns the index of the ']' closing the class opened at start,
// or -1. A ']' directly after '[' or '[!' is a literal member.
func bracketEnd(runes []rune, start int) int {
	j := start + 1
	if j < len(runes) && runes[j] == '!' {
		j++
	}
	if j < len(runes) && runes[j] == ']' {
		j++
	}
	for ; j < len(runes); j++ {
		if runes[j] == ']' {
			return j
		}
	}
	return -1
}

func bracketClass(body []rune) string {
	var b strings.Builder
	b.WriteByte('[')
	if len(body) > 0 && body[0] == '!' {
		b.WriteByte('^')
		body = body[1:]
	}
	for _, c := range body {
		switch c {
		case '\\', '[', ']', '^':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	b.WriteByte(']')
	return b.String()
}
