package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"btc/internal/btclient"
)

func newStreamCommand(ctx *commandContext) *cobra.Command {
	var printURL bool
	var caseSensitive bool

	cmd := &cobra.Command{
		Use:   "stream [glob]",
		Short: "Stream torrent file locally",
		Long: "Copy exactly one file's bytes to stdout, for piping into a player.\n" +
			"With --url the authenticated proxy URL of every selected file is\n" +
			"printed instead, one per line.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			files, err := ctx.selectFiles(cmd, pattern, caseSensitive)
			if err != nil {
				return err
			}

			if printURL {
				for _, f := range files {
					sid, fileID, err := fileLocation(f)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), ctx.client.FileURL(sid, fileID))
				}
				return nil
			}

			if len(files) != 1 {
				return fmt.Errorf("stream needs exactly one file, selection has %d", len(files))
			}
			sid, fileID, err := fileLocation(files[0])
			if err != nil {
				return err
			}
			body, size, err := ctx.client.OpenFile(cmd.Context(), sid, fileID)
			if err != nil {
				return err
			}
			defer body.Close()
			if expected, ok := files[0].Number(btclient.FieldSize); ok && size < 0 {
				size = int64(expected)
			}
			written, err := io.Copy(cmd.OutOrStdout(), body)
			if err != nil {
				return fmt.Errorf("stream file: %w", err)
			}
			if size >= 0 && written != size {
				return fmt.Errorf("stream file: expected %d bytes, received %d bytes", size, written)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&printURL, "url", false, "Print proxy URLs instead of streaming bytes")
	cmd.Flags().BoolVarP(&caseSensitive, "case-sensitive", "s", false, "Match the glob case-sensitively")
	return cmd
}
