package btclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"
)

// Start resumes the given torrents.
func (c *Client) Start(ctx context.Context, hashes ...string) error {
	return c.action(ctx, "start", hashes)
}

// Stop halts the given torrents.
func (c *Client) Stop(ctx context.Context, hashes ...string) error {
	return c.action(ctx, "stop", hashes)
}

// Remove deletes the given torrents from the daemon, and their downloaded
// data as well when deleteData is set.
func (c *Client) Remove(ctx context.Context, deleteData bool, hashes ...string) error {
	if deleteData {
		return c.action(ctx, "removedata", hashes)
	}
	return c.action(ctx, "remove", hashes)
}

func (c *Client) action(ctx context.Context, name string, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}
	params := url.Values{"action": {name}}
	for _, hash := range hashes {
		hash = strings.TrimSpace(hash)
		if hash == "" {
			return fmt.Errorf("btclient: %s: empty torrent hash", name)
		}
		params.Add("hash", hash)
	}
	data, err := c.call(ctx, name, params, nil)
	if err != nil {
		return err
	}
	_, err = decodeResponse(name, data)
	return err
}

// AddURL asks the daemon to fetch a torrent from a URL or magnet link.
func (c *Client) AddURL(ctx context.Context, link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return errors.New("btclient: add-url: empty link")
	}
	data, err := c.call(ctx, "add-url", url.Values{"action": {"add-url"}, "s": {link}}, nil)
	if err != nil {
		return err
	}
	_, err = decodeResponse("add-url", data)
	return err
}

// AddFile uploads the contents of a .torrent file. name is reported to the
// daemon as the upload's file name.
func (c *Client) AddFile(ctx context.Context, name string, content []byte) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("torrent_file", filepath.Base(name))
	if err != nil {
		return fmt.Errorf("btclient: add-file: build form: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("btclient: add-file: build form: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("btclient: add-file: build form: %w", err)
	}
	body := &payload{contentType: form.FormDataContentType(), data: buf.Bytes()}
	data, err := c.call(ctx, "add-file", url.Values{"action": {"add-file"}}, body)
	if err != nil {
		return err
	}
	_, err = decodeResponse("add-file", data)
	return err
}
