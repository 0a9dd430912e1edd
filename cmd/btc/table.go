package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"btc/internal/btclient"
	"btc/internal/record"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

func validateFormat(format string) error {
	switch format {
	case formatJSON, formatTable:
		return nil
	default:
		return fmt.Errorf("unsupported format %q (want %s or %s)", format, formatJSON, formatTable)
	}
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render() + "\n"
}

var stateTitle = cases.Title(language.English)

func torrentTable(torrents []record.Record) string {
	rows := make([][]string, 0, len(torrents))
	for _, t := range torrents {
		name, _ := t.Text(record.FieldName)
		state, _ := t.Text(btclient.FieldState)
		rows = append(rows, []string{
			name,
			stateTitle.String(state),
			byteCell(t, btclient.FieldSize),
			percentCell(t, btclient.FieldProgress),
			rateCell(t, "download_rate"),
			rateCell(t, "upload_rate"),
			ratioCell(t, "ratio"),
			shortHash(t),
		})
	}
	return renderTable(
		[]string{"Name", "State", "Size", "Done", "Down", "Up", "Ratio", "Hash"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}

func fileTable(files []record.Record) string {
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		torrent, _ := f.Text(btclient.FieldTorrent)
		name, _ := f.Text(record.FieldName)
		id, _ := f.Text(record.FieldFileID)
		rows = append(rows, []string{
			torrent,
			id,
			name,
			byteCell(f, btclient.FieldSize),
			percentCell(f, btclient.FieldProgress),
		})
	}
	return renderTable(
		[]string{"Torrent", "#", "File", "Size", "Done"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignRight},
	)
}

func byteCell(r record.Record, field string) string {
	n, ok := r.Number(field)
	if !ok || n < 0 {
		return "-"
	}
	return humanize.Bytes(uint64(n))
}

func rateCell(r record.Record, field string) string {
	n, ok := r.Number(field)
	if !ok || n <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(n)) + "/s"
}

func percentCell(r record.Record, field string) string {
	n, ok := r.Number(field)
	if !ok {
		return "-"
	}
	return strconv.FormatFloat(n, 'f', 1, 64) + "%"
}

func ratioCell(r record.Record, field string) string {
	n, ok := r.Number(field)
	if !ok {
		return "-"
	}
	return strconv.FormatFloat(n, 'f', 2, 64)
}

func shortHash(r record.Record) string {
	hash, _ := r.Text(record.FieldHash)
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
