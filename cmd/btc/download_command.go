package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"btc/internal/btclient"
	"btc/internal/config"
	"btc/internal/diag"
	"btc/internal/fileutil"
	"btc/internal/logging"
	"btc/internal/record"
	"btc/internal/textutil"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var caseSensitive bool

	cmd := &cobra.Command{
		Use:   "download [glob]",
		Short: "Download torrent file locally",
		Long: "Copy files from the daemon into the output directory, one subdirectory\n" +
			"per torrent. Files come from torrents matching glob or from torrent or file\n" +
			"records piped on stdin. Each completed file is printed with its local path\n" +
			"and SHA-256.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			root, err := config.ExpandPath(outputDir)
			if err != nil {
				return err
			}
			files, err := ctx.selectFiles(cmd, pattern, caseSensitive)
			if err != nil {
				return err
			}
			done := make([]record.Record, 0, len(files))
			claimed := make(map[string]string, len(files))
			for _, f := range files {
				dst, err := destination(root, f)
				if err != nil {
					return err
				}
				name, _ := f.Text(record.FieldName)
				if prev, ok := claimed[dst]; ok {
					return fmt.Errorf("%s and %s both map to %s", prev, name, dst)
				}
				claimed[dst] = name
				out, err := ctx.downloadFile(cmd, dst, f)
				if err != nil {
					return err
				}
				done = append(done, out)
			}
			return writeRecords(cmd, done)
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Directory to write files into")
	cmd.Flags().BoolVarP(&caseSensitive, "case-sensitive", "s", false, "Match the glob case-sensitively")
	return cmd
}

func (c *commandContext) downloadFile(cmd *cobra.Command, dst string, f record.Record) (record.Record, error) {
	sid, fileID, err := fileLocation(f)
	if err != nil {
		return nil, err
	}

	body, size, err := c.client.OpenFile(cmd.Context(), sid, fileID)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	if expected, ok := f.Number(btclient.FieldSize); ok && size < 0 {
		size = int64(expected)
	}

	var progress io.Writer
	var bar *progressbar.ProgressBar
	if diag.IsTerminal(cmd.ErrOrStderr()) {
		bar = progressbar.NewOptions64(size,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription(filepath.Base(dst)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		progress = bar
	}

	res, err := fileutil.WriteVerified(dst, body, size, progress)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return nil, err
	}
	c.logger.Info("file downloaded",
		logging.String(logging.FieldPath, res.Path),
		logging.Int64("bytes", res.Bytes),
	)

	out := f.Clone()
	out["path"] = res.Path
	out["sha256"] = res.SHA256
	return out, nil
}

// destination maps a file record to root/<torrent>/<name>. File records
// without a torrent name land directly under root.
func destination(root string, f record.Record) (string, error) {
	name, _ := f.Text(record.FieldName)
	if torrent, ok := f.Text(btclient.FieldTorrent); ok && torrent != "" {
		name = torrent + "/" + name
	}
	rel, err := textutil.RelativePath(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, rel), nil
}
