package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFilesCommand(ctx *commandContext) *cobra.Command {
	var caseSensitive bool
	var format string

	cmd := &cobra.Command{
		Use:   "files [glob]",
		Short: "List files of torrents",
		Long: "List the files of the torrents matching glob, or of the torrent records\n" +
			"piped on stdin. With neither, files of every torrent are listed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			torrents, err := ctx.selectTorrents(cmd, pattern, caseSensitive)
			if err != nil {
				return err
			}
			files, err := ctx.client.ListFiles(cmd.Context(), torrents)
			if err != nil {
				return err
			}
			if format == formatTable {
				fmt.Fprint(cmd.OutOrStdout(), fileTable(files))
				return nil
			}
			return writeRecords(cmd, files)
		},
	}
	cmd.Flags().BoolVarP(&caseSensitive, "case-sensitive", "s", false, "Match the glob case-sensitively")
	cmd.Flags().StringVar(&format, "format", formatJSON, "Output format (json or table)")
	return cmd
}
