package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"btc/internal/btclient"
	"btc/internal/command"
	"btc/internal/config"
	"btc/internal/diag"
	"btc/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run wires the process context and dispatches argv. It returns the exit
// status.
func run(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	program := "btc"
	if len(argv) > 0 {
		program = argv[0]
	}
	report := diag.New(program, stderr)

	cfg, _, _, err := config.Load("")
	if err != nil {
		report.Error(err)
		return 1
	}
	logger, err := logging.NewFromConfig(cfg, stderr)
	if err != nil {
		report.Error(err)
		return 1
	}
	client, err := btclient.New(btclient.Options{
		BaseURL:  cfg.BaseURL(),
		Username: cfg.Username,
		Password: cfg.Password,
		Logger:   logger,
	})
	if err != nil {
		report.Error(err)
		return 1
	}

	cc := newCommandContext(cfg, logger, client)
	return command.Dispatch(ctx, newRegistry(cc), argv, stdin, stdout, stderr)
}
