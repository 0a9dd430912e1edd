package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Invocation is the rewritten process context handed to a sub-command.
type Invocation struct {
	Program string
	Args    []string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// Runner executes one sub-command and returns its exit status.
type Runner interface {
	Run(ctx context.Context, inv Invocation) int
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, inv Invocation) int

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, inv Invocation) int {
	return f(ctx, inv)
}

// Descriptor names a registered command.
type Descriptor struct {
	Name    string
	Summary string
}

// Registry holds the known sub-commands in registration order.
type Registry struct {
	order   []Descriptor
	runners map[string]Runner
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{runners: make(map[string]Runner)}
}

// Register adds a command. Names must be non-empty, free of whitespace and
// unique.
func (r *Registry) Register(name, summary string, runner Runner) error {
	if name == "" || strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("register command: invalid name %q", name)
	}
	if runner == nil {
		return fmt.Errorf("register command %q: runner is nil", name)
	}
	if _, ok := r.runners[name]; ok {
		return fmt.Errorf("register command %q: already registered", name)
	}
	r.runners[name] = runner
	r.order = append(r.order, Descriptor{Name: name, Summary: summary})
	return nil
}

// MustRegister is Register for static wiring; it panics on error.
func (r *Registry) MustRegister(name, summary string, runner Runner) {
	if err := r.Register(name, summary, runner); err != nil {
		panic(err)
	}
}

// Lookup returns the runner registered under name.
func (r *Registry) Lookup(name string) (Runner, bool) {
	runner, ok := r.runners[name]
	return runner, ok
}

// Commands lists registered commands in registration order.
func (r *Registry) Commands() []Descriptor {
	out := make([]Descriptor, len(r.order))
	copy(out, r.order)
	return out
}

// Usage writes the top-level usage text for program.
func (r *Registry) Usage(w io.Writer, program string) {
	app := filepath.Base(program)
	if fields := strings.Fields(app); len(fields) > 0 {
		app = fields[0]
	}
	fmt.Fprintf(w, "usage: %s <command> [<args>]\n", app)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands are:")
	for _, d := range r.order {
		fmt.Fprintf(w, "    %-10s: %s\n", d.Name, d.Summary)
	}
}

// ErrUnknownCommand marks a command name with no registered runner.
var ErrUnknownCommand = errors.New("no such command")

// ErrNoCommand is returned by Resolve when argv names no command.
var ErrNoCommand = errors.New("no command given")

// UnknownCommandError carries the unmatched command name.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownCommand, e.Name)
}

func (e *UnknownCommandError) Is(target error) bool {
	return target == ErrUnknownCommand
}
