package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"btc/internal/command"
	"btc/internal/diag"
	"btc/internal/logging"
)

// cobraRunner adapts a cobra command builder to the dispatcher. A fresh
// command tree is built per invocation so flag state never leaks between
// runs.
type cobraRunner struct {
	ctx   *commandContext
	build func(*commandContext) *cobra.Command
}

func (r cobraRunner) Run(ctx context.Context, inv command.Invocation) int {
	report := diag.New(inv.Program, inv.Stderr)
	cmd := r.build(r.ctx)
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[cobra.CommandDisplayNameAnnotation] = report.Program()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs(inv.Args)
	if inv.Stdin != nil {
		cmd.SetIn(inv.Stdin)
	}
	if inv.Stdout != nil {
		cmd.SetOut(inv.Stdout)
	}
	if inv.Stderr != nil {
		cmd.SetErr(inv.Stderr)
	}

	logger := logging.NewComponentLogger(r.ctx.logger, "cli")
	logger.Debug("command started",
		logging.String(logging.FieldCommand, cmd.Name()),
		logging.Any("args", inv.Args),
	)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("command canceled", logging.String(logging.FieldCommand, cmd.Name()))
			return 1
		}
		logger.Debug("command failed", logging.String(logging.FieldCommand, cmd.Name()), logging.Error(err))
		report.Error(err)
		return 1
	}
	return 0
}

func newRegistry(ctx *commandContext) *command.Registry {
	reg := command.NewRegistry()
	entries := []struct {
		name    string
		summary string
		build   func(*commandContext) *cobra.Command
	}{
		{"list", "list client torrents", newListCommand},
		{"files", "list files of torrents", newFilesCommand},
		{"add", "add torrent to client", newAddCommand},
		{"remove", "remove torrent", newRemoveCommand},
		{"start", "start torrent", newStartCommand},
		{"stop", "stop torrent", newStopCommand},
		{"download", "download torrent file locally", newDownloadCommand},
		{"stream", "stream torrent file locally", newStreamCommand},
		{"wait", "wait for torrent download to complete", newWaitCommand},
		{"filter", "filter elements of a list", newFilterCommand},
		{"sort", "sort elements of a list", newSortCommand},
	}
	for _, entry := range entries {
		reg.MustRegister(entry.name, entry.summary, cobraRunner{ctx: ctx, build: entry.build})
	}
	return reg
}
