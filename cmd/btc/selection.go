package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"btc/internal/diag"
	"btc/internal/logging"
	"btc/internal/record"
)

// nameOrder sorts torrents and files the way list presents them.
var nameOrder = record.SortOptions{Field: record.FieldName}

// selectTorrents resolves the torrents a command operates on. A name glob
// selects from the daemon's list; without one, records piped on stdin name
// torrents by hash, and with neither every torrent is selected.
func (c *commandContext) selectTorrents(cmd *cobra.Command, pattern string, caseSensitive bool) ([]record.Record, error) {
	all, err := c.client.ListTorrents(cmd.Context())
	if err != nil {
		return nil, err
	}
	if pattern != "" {
		matched, err := record.Filter{Field: record.FieldName, Pattern: pattern, CaseSensitive: caseSensitive}.Apply(all)
		if err != nil {
			return nil, err
		}
		return record.Sort(matched, nameOrder), nil
	}

	input, ok, err := readInput(cmd, record.FieldHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return record.Sort(all, nameOrder), nil
	}
	hashes, err := hashesOf(input.records)
	if err != nil {
		return nil, err
	}
	return pickTorrents(all, hashes)
}

// pickTorrents returns the daemon records for hashes, in the order given.
func pickTorrents(all []record.Record, hashes []string) ([]record.Record, error) {
	byHash := make(map[string]record.Record, len(all))
	for _, t := range all {
		if hash, ok := t.Text(record.FieldHash); ok {
			byHash[strings.ToUpper(hash)] = t
		}
	}
	out := make([]record.Record, 0, len(hashes))
	seen := make(map[string]bool, len(hashes))
	for _, hash := range hashes {
		key := strings.ToUpper(hash)
		if seen[key] {
			continue
		}
		seen[key] = true
		t, ok := byHash[key]
		if !ok {
			return nil, fmt.Errorf("torrent %s not found", hash)
		}
		out = append(out, t)
	}
	return out, nil
}

// hashesOf extracts the hash of every record. Each record must carry one.
func hashesOf(records []record.Record) ([]string, error) {
	out := make([]string, 0, len(records))
	for i, r := range records {
		hash, ok := r.Text(record.FieldHash)
		if !ok || strings.TrimSpace(hash) == "" {
			return nil, &record.KeyError{Field: record.FieldHash, Index: i, Err: record.ErrMissingKey}
		}
		out = append(out, hash)
	}
	return out, nil
}

// targetHashes returns hashes given as arguments, or those of the records
// piped on stdin.
func (c *commandContext) targetHashes(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	input, ok, err := readInput(cmd, record.FieldHash)
	if err != nil {
		return nil, err
	}
	if !ok || len(input.records) == 0 {
		return nil, fmt.Errorf("%w: pass hashes or pipe torrent records on stdin", errNoSelection)
	}
	hashes, err := hashesOf(input.records)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("targets read from stdin", logging.Int("count", len(hashes)))
	return hashes, nil
}

// refreshed lists the daemon's current records for hashes. Torrents that
// are gone are skipped with a warning.
func (c *commandContext) refreshed(cmd *cobra.Command, hashes []string) ([]record.Record, error) {
	all, err := c.client.ListTorrents(cmd.Context())
	if err != nil {
		return nil, err
	}
	report := diag.New(cmd.DisplayName(), cmd.ErrOrStderr())
	out := make([]record.Record, 0, len(hashes))
	for _, hash := range hashes {
		picked, err := pickTorrents(all, []string{hash})
		if err != nil {
			report.Warningf("torrent %s is not on the daemon", hash)
			continue
		}
		out = append(out, picked...)
	}
	return out, nil
}

// selectFiles resolves file records for download and stream. A glob selects
// torrents by name and expands them to their files. Records on stdin may be
// file records, used as given, or torrent records, expanded to their files.
func (c *commandContext) selectFiles(cmd *cobra.Command, pattern string, caseSensitive bool) ([]record.Record, error) {
	if pattern != "" {
		torrents, err := c.selectTorrents(cmd, pattern, caseSensitive)
		if err != nil {
			return nil, err
		}
		return c.client.ListFiles(cmd.Context(), torrents)
	}

	input, ok, err := readInput(cmd, record.FieldHash)
	if err != nil {
		return nil, err
	}
	if !ok || len(input.records) == 0 {
		return nil, fmt.Errorf("%w: pass a glob or pipe torrent or file records on stdin", errNoSelection)
	}

	var files, torrents []record.Record
	for _, r := range input.records {
		if _, isFile := r[record.FieldFileID]; isFile {
			files = append(files, r)
		} else {
			torrents = append(torrents, r)
		}
	}
	if len(torrents) == 0 {
		return files, nil
	}

	hashes, err := hashesOf(torrents)
	if err != nil {
		return nil, err
	}
	all, err := c.client.ListTorrents(cmd.Context())
	if err != nil {
		return nil, err
	}
	picked, err := pickTorrents(all, hashes)
	if err != nil {
		return nil, err
	}
	expanded, err := c.client.ListFiles(cmd.Context(), picked)
	if err != nil {
		return nil, err
	}
	return append(files, expanded...), nil
}

// fileLocation extracts the proxy coordinates of a file record.
func fileLocation(r record.Record) (string, int64, error) {
	sid, ok := r.Text(record.FieldSID)
	if !ok || sid == "" {
		return "", 0, fmt.Errorf("file record lacks %s", record.FieldSID)
	}
	id, ok := r.Number(record.FieldFileID)
	if !ok || id < 0 || id != float64(int64(id)) {
		return "", 0, fmt.Errorf("file record has invalid %s", record.FieldFileID)
	}
	return sid, int64(id), nil
}
