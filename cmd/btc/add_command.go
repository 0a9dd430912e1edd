package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"btc/internal/config"
	"btc/internal/logging"
	"btc/internal/record"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <torrent-file|url>...",
		Short: "Add torrent to client",
		Long: "Add torrents to the daemon. Arguments naming an existing local file are\n" +
			"uploaded; anything else (http URLs, magnet links) is passed to the daemon\n" +
			"to fetch. The torrents that appeared are printed as records.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := ctx.client.ListTorrents(cmd.Context())
			if err != nil {
				return err
			}
			known, err := record.ToMap(before, record.FieldHash)
			if err != nil {
				return err
			}

			for _, arg := range args {
				if err := ctx.addOne(cmd, arg); err != nil {
					return err
				}
			}

			after, err := ctx.client.ListTorrents(cmd.Context())
			if err != nil {
				return err
			}
			current, err := record.ToMap(after, record.FieldHash)
			if err != nil {
				return err
			}
			for _, hash := range known.Keys() {
				current.Delete(hash)
			}
			return writeRecords(cmd, record.Sort(record.ToList(current), nameOrder))
		},
	}
}

func (c *commandContext) addOne(cmd *cobra.Command, arg string) error {
	if isLink(arg) {
		c.logger.Info("adding torrent link", logging.String("link", arg))
		return c.client.AddURL(cmd.Context(), arg)
	}
	path, err := config.ExpandPath(arg)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read torrent file: %w", err)
	}
	c.logger.Info("uploading torrent file", logging.String(logging.FieldPath, path))
	return c.client.AddFile(cmd.Context(), path, content)
}

func isLink(arg string) bool {
	lower := strings.ToLower(strings.TrimSpace(arg))
	if strings.HasPrefix(lower, "magnet:") {
		return true
	}
	if strings.Contains(lower, "://") {
		if _, err := os.Stat(arg); err != nil {
			return true
		}
	}
	return false
}
