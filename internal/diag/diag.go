// Package diag writes the uniform `<program>: error: <message>` and
// `<program>: warning: <message>` diagnostics every btc command emits.
package diag

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Reporter formats diagnostics for one program name.
type Reporter struct {
	program string
	out     io.Writer
	errTag  *color.Color
	warnTag *color.Color
}

// New returns a reporter writing to w. Labels are coloured only when w is a
// terminal and NO_COLOR is unset.
func New(program string, w io.Writer) *Reporter {
	r := &Reporter{
		program: filepath.Base(program),
		out:     w,
		errTag:  color.New(color.FgRed, color.Bold),
		warnTag: color.New(color.FgYellow, color.Bold),
	}
	if ShouldColorize(w) {
		r.errTag.EnableColor()
		r.warnTag.EnableColor()
	} else {
		r.errTag.DisableColor()
		r.warnTag.DisableColor()
	}
	return r
}

// Program returns the name diagnostics are prefixed with.
func (r *Reporter) Program() string {
	return r.program
}

// Error reports err.
func (r *Reporter) Error(err error) {
	if err == nil {
		return
	}
	r.Errorf("%s", err)
}

// Errorf reports a formatted error message.
func (r *Reporter) Errorf(format string, args ...any) {
	fmt.Fprintf(r.out, "%s: %s %s\n", r.program, r.errTag.Sprint("error:"), fmt.Sprintf(format, args...))
}

// Warningf reports a formatted warning message.
func (r *Reporter) Warningf(format string, args ...any) {
	fmt.Fprintf(r.out, "%s: %s %s\n", r.program, r.warnTag.Sprint("warning:"), fmt.Sprintf(format, args...))
}

// ShouldColorize reports whether w is a colour-capable terminal.
func ShouldColorize(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return IsTerminal(w)
}

// IsTerminal reports whether v is an *os.File attached to a terminal.
func IsTerminal(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
