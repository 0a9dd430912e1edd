package main

import (
	"github.com/spf13/cobra"

	"btc/internal/logging"
)

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	var dropData bool

	cmd := &cobra.Command{
		Use:   "remove [hash...]",
		Short: "Remove torrent",
		Long: "Remove torrents named by hash, or the torrent records piped on stdin.\n" +
			"Downloaded data is kept unless --drop-data is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			hashes, err := ctx.targetHashes(cmd, args)
			if err != nil {
				return err
			}
			if err := ctx.client.Remove(cmd.Context(), dropData, hashes...); err != nil {
				return err
			}
			ctx.logger.Info("torrents removed",
				logging.Int("count", len(hashes)),
				logging.Bool("drop_data", dropData),
			)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&dropData, "drop-data", "d", false, "Also delete downloaded data")
	return cmd
}
