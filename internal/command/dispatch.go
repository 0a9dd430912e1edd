package command

import (
	"context"
	"errors"
	"fmt"
	"io"

	"btc/internal/diag"
)

// Resolve looks up argv[1] and builds the rewritten invocation: the program
// name gains the command name as a suffix and the command token is dropped
// from the arguments.
func (r *Registry) Resolve(argv []string) (Runner, Invocation, error) {
	if len(argv) < 2 {
		return nil, Invocation{}, ErrNoCommand
	}
	name := argv[1]
	runner, ok := r.Lookup(name)
	if !ok {
		return nil, Invocation{}, &UnknownCommandError{Name: name}
	}
	args := make([]string, len(argv)-2)
	copy(args, argv[2:])
	return runner, Invocation{
		Program: fmt.Sprintf("%s %s", argv[0], name),
		Args:    args,
	}, nil
}

// Dispatch runs the command named by argv[1] and returns the exit status to
// terminate the process with. A missing or unknown command prints the usage
// text to stdout and yields 1.
func Dispatch(ctx context.Context, reg *Registry, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	program := "btc"
	if len(argv) > 0 {
		program = argv[0]
	}

	runner, inv, err := reg.Resolve(argv)
	if err != nil {
		if !errors.Is(err, ErrNoCommand) {
			diag.New(program, stderr).Error(err)
			fmt.Fprintln(stdout)
		}
		reg.Usage(stdout, program)
		return 1
	}

	inv.Stdin = stdin
	inv.Stdout = stdout
	inv.Stderr = stderr
	return runner.Run(ctx, inv)
}
