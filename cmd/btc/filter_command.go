package main

import (
	"github.com/spf13/cobra"

	"btc/internal/record"
)

func newFilterCommand(_ *commandContext) *cobra.Command {
	var field string
	var keyField string
	var caseSensitive bool
	var invert bool

	cmd := &cobra.Command{
		Use:   "filter [glob]",
		Short: "Filter elements of a list",
		Long: "Keep the records piped on stdin whose field value matches the glob.\n" +
			"Records lacking the field never match. A keyed object on stdin is\n" +
			"filtered the same way and printed back in keyed form.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := "*"
			if len(args) == 1 {
				pattern = args[0]
			}
			input, err := requireInput(cmd, keyField)
			if err != nil {
				return err
			}
			kept, err := record.Filter{
				Field:         field,
				Pattern:       pattern,
				CaseSensitive: caseSensitive,
				Invert:        invert,
			}.Apply(input.records)
			if err != nil {
				return err
			}
			if input.keyed {
				return writeKeyed(cmd, kept, keyField)
			}
			return writeRecords(cmd, kept)
		},
	}
	cmd.Flags().StringVarP(&field, "key", "k", record.FieldName, "Field to match against")
	cmd.Flags().StringVar(&keyField, "key-field", record.FieldHash, "Field holding the keys of keyed input")
	cmd.Flags().BoolVarP(&caseSensitive, "case-sensitive", "s", false, "Match case-sensitively")
	cmd.Flags().BoolVarP(&invert, "invert-match", "v", false, "Keep records that do not match")
	return cmd
}
