package main

import (
	"context"
	"io"
	"log/slog"

	"btc/internal/btclient"
	"btc/internal/config"
	"btc/internal/logging"
	"btc/internal/record"
)

// daemonClient is the slice of the WebUI client the commands rely on.
type daemonClient interface {
	ListTorrents(ctx context.Context) ([]record.Record, error)
	ListFiles(ctx context.Context, torrents []record.Record) ([]record.Record, error)
	AddURL(ctx context.Context, link string) error
	AddFile(ctx context.Context, name string, content []byte) error
	Start(ctx context.Context, hashes ...string) error
	Stop(ctx context.Context, hashes ...string) error
	Remove(ctx context.Context, deleteData bool, hashes ...string) error
	OpenFile(ctx context.Context, sid string, fileID int64) (io.ReadCloser, int64, error)
	FileURL(sid string, fileID int64) string
}

var _ daemonClient = (*btclient.Client)(nil)

// commandContext is built once per process and shared by every command.
type commandContext struct {
	config *config.Config
	logger *slog.Logger
	client daemonClient
}

func newCommandContext(cfg *config.Config, logger *slog.Logger, client daemonClient) *commandContext {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &commandContext{config: cfg, logger: logger, client: client}
}
