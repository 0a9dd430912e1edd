package main

import (
	"github.com/spf13/cobra"

	"btc/internal/record"
)

func newSortCommand(_ *commandContext) *cobra.Command {
	var keyField string
	var reverse bool
	var caseSensitive bool

	cmd := &cobra.Command{
		Use:   "sort [key]",
		Short: "Sort elements of a list",
		Long: "Sort the records piped on stdin by a field (name by default). Numbers\n" +
			"compare numerically and come before text; records lacking the field\n" +
			"are placed last.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			field := record.FieldName
			if len(args) == 1 {
				field = args[0]
			}
			input, err := requireInput(cmd, keyField)
			if err != nil {
				return err
			}
			sorted := record.Sort(input.records, record.SortOptions{
				Field:         field,
				Reverse:       reverse,
				CaseSensitive: caseSensitive,
			})
			return writeRecords(cmd, sorted)
		},
	}
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "Reverse the order")
	cmd.Flags().BoolVarP(&caseSensitive, "case-sensitive", "s", false, "Compare text case-sensitively")
	cmd.Flags().StringVar(&keyField, "key-field", record.FieldHash, "Field holding the keys of keyed input")
	return cmd
}
