package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"btc/internal/diag"
	"btc/internal/record"
)

// writeRecords prints records as a canonical JSON list.
func writeRecords(cmd *cobra.Command, records []record.Record) error {
	if records == nil {
		records = []record.Record{}
	}
	return record.EncodeList(cmd.OutOrStdout(), records)
}

// writeKeyed prints records in the keyed form, indexed by keyField.
func writeKeyed(cmd *cobra.Command, records []record.Record, keyField string) error {
	keyed, err := record.ToMap(records, keyField)
	if err != nil {
		return err
	}
	return record.EncodeMap(cmd.OutOrStdout(), keyed)
}

// recordInput is what a command found on stdin.
type recordInput struct {
	records []record.Record
	keyed   bool
}

// readInput decodes the record collection piped on stdin. A terminal or an
// empty stream yields ok=false.
func readInput(cmd *cobra.Command, keyField string) (recordInput, bool, error) {
	in := cmd.InOrStdin()
	if diag.IsTerminal(in) {
		return recordInput{}, false, nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return recordInput{}, false, fmt.Errorf("read stdin: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return recordInput{}, false, nil
	}
	records, err := record.Decode(bytes.NewReader(data), keyField)
	if err != nil {
		return recordInput{}, false, err
	}
	return recordInput{records: records, keyed: data[0] == '{'}, true, nil
}

// requireInput is readInput for commands that cannot run without records.
func requireInput(cmd *cobra.Command, keyField string) (recordInput, error) {
	input, ok, err := readInput(cmd, keyField)
	if err != nil {
		return recordInput{}, err
	}
	if !ok {
		return recordInput{}, fmt.Errorf("%w: pipe a JSON list on stdin", record.ErrEmptyInput)
	}
	return input, nil
}

var errNoSelection = errors.New("no torrents selected")
