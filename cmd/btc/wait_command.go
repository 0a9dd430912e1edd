package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"btc/internal/btclient"
	"btc/internal/logging"
	"btc/internal/record"
)

const defaultWaitInterval = 5 * time.Second

func newWaitCommand(ctx *commandContext) *cobra.Command {
	var interval time.Duration
	var timeout time.Duration
	var caseSensitive bool

	cmd := &cobra.Command{
		Use:   "wait [glob]",
		Short: "Wait for torrent download to complete",
		Long: "Poll the daemon until every selected torrent is fully downloaded, then\n" +
			"print their records. Torrents come from glob, stdin records, or all\n" +
			"torrents when neither is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("interval must be positive, got %s", interval)
			}
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			torrents, err := ctx.selectTorrents(cmd, pattern, caseSensitive)
			if err != nil {
				return err
			}
			hashes, err := hashesOf(torrents)
			if err != nil {
				return err
			}

			waitCtx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				waitCtx, cancel = context.WithTimeout(waitCtx, timeout)
				defer cancel()
			}
			done, err := ctx.waitComplete(waitCtx, hashes, interval)
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("timed out after %s waiting for %d torrents", timeout, len(hashes))
			}
			if err != nil {
				return err
			}
			return writeRecords(cmd, done)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", defaultWaitInterval, "Polling interval")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 waits forever)")
	cmd.Flags().BoolVarP(&caseSensitive, "case-sensitive", "s", false, "Match the glob case-sensitively")
	return cmd
}

// waitComplete polls until every hash reports 100% progress. A torrent that
// disappears from the daemon ends the wait with an error.
func (c *commandContext) waitComplete(ctx context.Context, hashes []string, interval time.Duration) ([]record.Record, error) {
	logger := logging.NewComponentLogger(c.logger, "wait")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		all, err := c.client.ListTorrents(ctx)
		if err != nil {
			return nil, err
		}
		current, err := pickTorrents(all, hashes)
		if err != nil {
			return nil, fmt.Errorf("wait: %w", err)
		}
		pending := 0
		for _, t := range current {
			if progress, _ := t.Number(btclient.FieldProgress); progress < 100 {
				pending++
			}
		}
		if pending == 0 {
			return current, nil
		}
		logger.Info("waiting for torrents", logging.Int("pending", pending), logging.Int("total", len(current)), logging.Duration("interval", interval))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
