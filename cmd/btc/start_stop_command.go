package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newStartCommand(ctx *commandContext) *cobra.Command {
	return newToggleCommand(ctx, "start", "Start torrent", ctx.client.Start)
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return newToggleCommand(ctx, "stop", "Stop torrent", ctx.client.Stop)
}

// newToggleCommand builds start and stop, which differ only in the daemon
// action they send. Both print the refreshed records of the targets.
func newToggleCommand(ctx *commandContext, name, short string, apply func(context.Context, ...string) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [hash...]",
		Short: short,
		Long:  "Apply " + name + " to torrents named by hash, or to the torrent records piped on stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			hashes, err := ctx.targetHashes(cmd, args)
			if err != nil {
				return err
			}
			if err := apply(cmd.Context(), hashes...); err != nil {
				return err
			}
			torrents, err := ctx.refreshed(cmd, hashes)
			if err != nil {
				return err
			}
			return writeRecords(cmd, torrents)
		},
	}
}
