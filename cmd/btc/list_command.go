package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"btc/internal/record"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var caseSensitive bool
	var keyed bool
	var format string

	cmd := &cobra.Command{
		Use:   "list [glob]",
		Short: "List client torrents",
		Long: "List the daemon's torrents as JSON records sorted by name. An optional\n" +
			"shell-style glob restricts the output to matching names.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			torrents, err := ctx.client.ListTorrents(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				torrents, err = record.Filter{
					Field:         record.FieldName,
					Pattern:       args[0],
					CaseSensitive: caseSensitive,
				}.Apply(torrents)
				if err != nil {
					return err
				}
			}
			torrents = record.Sort(torrents, nameOrder)

			switch {
			case format == formatTable:
				fmt.Fprint(cmd.OutOrStdout(), torrentTable(torrents))
				return nil
			case keyed:
				return writeKeyed(cmd, torrents, record.FieldHash)
			default:
				return writeRecords(cmd, torrents)
			}
		},
	}
	cmd.Flags().BoolVarP(&caseSensitive, "case-sensitive", "s", false, "Match the glob case-sensitively")
	cmd.Flags().BoolVar(&keyed, "keyed", false, "Print an object keyed by torrent hash instead of a list")
	cmd.Flags().StringVar(&format, "format", formatJSON, "Output format (json or table)")
	return cmd
}
