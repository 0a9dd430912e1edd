package btclient

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"

	"btc/internal/record"
)

// Status bits reported in the torrent status column.
const (
	StatusStarted         = 1
	StatusChecking        = 2
	StatusStartAfterCheck = 4
	StatusChecked         = 8
	StatusError           = 16
	StatusPaused          = 32
	StatusQueued          = 64
	StatusLoaded          = 128
)

// Record field names produced for torrents and files.
const (
	FieldStatus   = "status"
	FieldState    = "state"
	FieldSize     = "size"
	FieldProgress = "progress"
	FieldTorrent  = "torrent"
	FieldPriority = "priority"
)

type column struct {
	name  string
	scale float64
}

// torrentColumns lists the positional list=1 columns in daemon order. Older
// daemons send fewer columns; missing trailing ones are omitted.
var torrentColumns = []column{
	{name: record.FieldHash},
	{name: FieldStatus},
	{name: record.FieldName},
	{name: FieldSize},
	{name: FieldProgress, scale: 10},
	{name: "downloaded"},
	{name: "uploaded"},
	{name: "ratio", scale: 1000},
	{name: "upload_rate"},
	{name: "download_rate"},
	{name: "eta"},
	{name: "label"},
	{name: "peers_connected"},
	{name: "peers_total"},
	{name: "seeds_connected"},
	{name: "seeds_total"},
	{name: "availability", scale: 65536},
	{name: "queue_position"},
	{name: "remaining"},
	{name: "download_url"},
	{name: "rss_feed_url"},
	{name: "status_message"},
	{name: record.FieldSID},
	{name: "date_added"},
	{name: "date_completed"},
	{name: "app_update_url"},
	{name: "path"},
}

// fileColumns lists the positional getfiles columns.
var fileColumns = []column{
	{name: record.FieldName},
	{name: FieldSize},
	{name: "downloaded"},
	{name: FieldPriority},
}

// ListTorrents returns one record per torrent known to the daemon.
func (c *Client) ListTorrents(ctx context.Context) ([]record.Record, error) {
	data, err := c.call(ctx, "list", url.Values{"list": {"1"}}, nil)
	if err != nil {
		return nil, err
	}
	resp, err := decodeResponse("list", data)
	if err != nil {
		return nil, err
	}
	out := make([]record.Record, 0, len(resp.Torrents))
	for i, row := range resp.Torrents {
		if len(row) < 3 {
			return nil, wrap(ErrProtocol, "list", fmt.Sprintf("torrent row %d has %d columns", i, len(row)), nil)
		}
		out = append(out, torrentRecord(row))
	}
	return out, nil
}

func torrentRecord(row []any) record.Record {
	r := mapColumns(torrentColumns, row)
	status, _ := r.Number(FieldStatus)
	progress, _ := r.Number(FieldProgress)
	r[FieldState] = State(int(status), progress)
	return r
}

// State derives a readable state name from the status bits and the
// completion percentage.
func State(status int, progress float64) string {
	complete := progress >= 100
	switch {
	case status&StatusError != 0:
		return "error"
	case status&StatusPaused != 0:
		return "paused"
	case status&StatusChecking != 0:
		return "checking"
	case status&StatusStarted != 0 && complete:
		return "seeding"
	case status&StatusStarted != 0:
		return "downloading"
	case status&StatusQueued != 0:
		return "queued"
	case complete:
		return "finished"
	default:
		return "stopped"
	}
}

// ListFiles returns the files of the named torrents. Each record carries the
// owning torrent's hash, sid and name alongside the file's index.
func (c *Client) ListFiles(ctx context.Context, torrents []record.Record) ([]record.Record, error) {
	if len(torrents) == 0 {
		return []record.Record{}, nil
	}
	params := url.Values{"action": {"getfiles"}}
	byHash := make(map[string]record.Record, len(torrents))
	for _, t := range torrents {
		hash, ok := t.Text(record.FieldHash)
		if !ok || hash == "" {
			return nil, fmt.Errorf("btclient: torrent record without %s", record.FieldHash)
		}
		params.Add("hash", hash)
		byHash[strings.ToUpper(hash)] = t
	}

	data, err := c.call(ctx, "getfiles", params, nil)
	if err != nil {
		return nil, err
	}
	resp, err := decodeResponse("getfiles", data)
	if err != nil {
		return nil, err
	}
	if len(resp.Files)%2 != 0 {
		return nil, wrap(ErrProtocol, "getfiles", "files list is not hash/entries pairs", nil)
	}

	out := []record.Record{}
	for i := 0; i < len(resp.Files); i += 2 {
		var hash string
		if err := json.Unmarshal(resp.Files[i], &hash); err != nil {
			return nil, wrap(ErrProtocol, "getfiles", "file owner hash", err)
		}
		var rows [][]any
		if err := decodeNumbers(resp.Files[i+1], &rows); err != nil {
			return nil, wrap(ErrProtocol, "getfiles", "file entries", err)
		}
		owner := byHash[strings.ToUpper(hash)]
		for idx, row := range rows {
			out = append(out, fileRecord(hash, owner, idx, row))
		}
	}
	return out, nil
}

func fileRecord(hash string, owner record.Record, index int, row []any) record.Record {
	r := mapColumns(fileColumns, row)
	r[record.FieldHash] = hash
	r[record.FieldFileID] = int64(index)
	if sid, ok := owner.Text(record.FieldSID); ok {
		r[record.FieldSID] = sid
	}
	if name, ok := owner.Text(record.FieldName); ok {
		r[FieldTorrent] = name
	}
	size, _ := r.Number(FieldSize)
	done, _ := r.Number("downloaded")
	progress := 0.0
	if size > 0 {
		progress = math.Round(done/size*1000) / 10
	}
	r[FieldProgress] = progress
	return r
}

func mapColumns(columns []column, row []any) record.Record {
	r := make(record.Record, len(columns)+1)
	for i, col := range columns {
		if i >= len(row) {
			break
		}
		r[col.name] = columnValue(row[i], col.scale)
	}
	return r
}

// columnValue converts decoded JSON numbers into int64 when integral, or a
// float64 after applying a scale divisor.
func columnValue(v any, scale float64) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if scale == 0 {
		if i, err := n.Int64(); err == nil {
			return i
		}
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	if scale != 0 {
		f /= scale
	}
	return f
}

func decodeNumbers(raw json.RawMessage, dst any) error {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	return dec.Decode(dst)
}
