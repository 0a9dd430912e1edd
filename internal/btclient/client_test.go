package btclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"btc/internal/btclient"
	"btc/internal/record"
	"btc/internal/testsupport"
)

func newClient(t *testing.T, d *testsupport.Daemon) *btclient.Client {
	t.Helper()
	client, err := btclient.New(btclient.Options{
		BaseURL:  d.URL(),
		Username: d.Username,
		Password: d.Password,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func seed(d *testsupport.Daemon) {
	d.AddTorrent(testsupport.Torrent{
		Hash:     "AAAA1111",
		Name:     "ubuntu-24.04",
		Progress: 1000,
		Files: []testsupport.File{
			{Name: "ubuntu.iso", Content: testsupport.Payload(64)},
			{Name: "SHA256SUMS", Content: testsupport.Payload(8)},
		},
	})
	d.AddTorrent(testsupport.Torrent{
		Hash:     "BBBB2222",
		Name:     "debian-12",
		Status:   8 | 128,
		Progress: 500,
		Files:    []testsupport.File{{Name: "debian.iso", Content: testsupport.Payload(20)}},
	})
}

func TestListTorrentsMapsColumns(t *testing.T) {
	d := testsupport.NewDaemon(t, "admin", "secret")
	seed(d)
	client := newClient(t, d)

	torrents, err := client.ListTorrents(context.Background())
	if err != nil {
		t.Fatalf("ListTorrents: %v", err)
	}
	if len(torrents) != 2 {
		t.Fatalf("expected 2 torrents, got %d", len(torrents))
	}
	first := torrents[0]
	if first["hash"] != "AAAA1111" || first["name"] != "ubuntu-24.04" {
		t.Fatalf("unexpected identity fields %v", first)
	}
	if first["progress"] != 100.0 || first["size"] != int64(72) || first["state"] != "seeding" {
		t.Fatalf("unexpected derived fields %v", first)
	}
	if first["sid"] != "sid-aaaa1111" || first["path"] != "/data/ubuntu-24.04" {
		t.Fatalf("unexpected trailing columns %v", first)
	}
	if torrents[1]["state"] != "stopped" || torrents[1]["progress"] != 50.0 {
		t.Fatalf("unexpected second torrent %v", torrents[1])
	}
	if d.TokenFetches() != 1 {
		t.Fatalf("expected one token fetch, got %d", d.TokenFetches())
	}
	if _, err := client.ListTorrents(context.Background()); err != nil {
		t.Fatalf("second ListTorrents: %v", err)
	}
	if d.TokenFetches() != 1 {
		t.Fatalf("token should be cached, fetched %d times", d.TokenFetches())
	}
}

func TestStateDerivation(t *testing.T) {
	cases := []struct {
		status   int
		progress float64
		want     string
	}{
		{1 | 16, 10, "error"},
		{1 | 32, 10, "paused"},
		{2, 0, "checking"},
		{1 | 8 | 128, 100, "seeding"},
		{1 | 8 | 128, 40, "downloading"},
		{64 | 128, 0, "queued"},
		{8 | 128, 100, "finished"},
		{8 | 128, 30, "stopped"},
	}
	for _, tc := range cases {
		if got := btclient.State(tc.status, tc.progress); got != tc.want {
			t.Fatalf("State(%d, %v) = %q, want %q", tc.status, tc.progress, got, tc.want)
		}
	}
}

func TestTokenRefreshedOnRejection(t *testing.T) {
	d := testsupport.NewDaemon(t, "admin", "secret")
	seed(d)
	client := newClient(t, d)

	if _, err := client.ListTorrents(context.Background()); err != nil {
		t.Fatalf("ListTorrents: %v", err)
	}
	d.ExpireToken()
	if _, err := client.ListTorrents(context.Background()); err != nil {
		t.Fatalf("ListTorrents after expiry: %v", err)
	}
	if d.TokenFetches() != 2 {
		t.Fatalf("expected token refresh, got %d fetches", d.TokenFetches())
	}
}

func TestWrongCredentialsAreUnauthorized(t *testing.T) {
	d := testsupport.NewDaemon(t, "admin", "secret")
	client, err := btclient.New(btclient.Options{BaseURL: d.URL(), Username: "admin", Password: "nope"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = client.ListTorrents(context.Background())
	if !errors.Is(err, btclient.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUnreachableDaemonIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	client, err := btclient.New(btclient.Options{BaseURL: addr})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = client.ListTorrents(context.Background())
	if !errors.Is(err, btclient.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestProtocolAndRejectionErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gui/token.html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<div id='token'>T</div>")
	})
	mux.HandleFunc("/gui/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			http.Error(w, "missing request id", http.StatusTeapot)
			return
		}
		switch r.URL.Query().Get("action") {
		case "start":
			_, _ = io.WriteString(w, "not json")
		case "stop":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			_, _ = io.WriteString(w, `{"build":1,"error":"no such torrent"}`)
		}
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := btclient.New(btclient.Options{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if err := client.Start(ctx, "X"); !errors.Is(err, btclient.ErrProtocol) {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
	if err := client.Stop(ctx, "X"); !errors.Is(err, btclient.ErrRejected) || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected ErrRejected with status, got %v", err)
	}
	if err := client.Remove(ctx, false, "X"); !errors.Is(err, btclient.ErrRejected) || !strings.Contains(err.Error(), "no such torrent") {
		t.Fatalf("expected daemon error message, got %v", err)
	}
}

func TestActionsSendHashes(t *testing.T) {
	d := testsupport.NewDaemon(t, "admin", "")
	seed(d)
	client := newClient(t, d)
	ctx := context.Background()

	if err := client.Stop(ctx, "AAAA1111", "BBBB2222"); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := client.Start(ctx, "BBBB2222"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := client.Remove(ctx, true, "AAAA1111"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := client.Start(ctx); err != nil {
		t.Fatalf("Start with no hashes: %v", err)
	}

	want := []testsupport.Action{
		{Name: "stop", Hashes: []string{"AAAA1111", "BBBB2222"}},
		{Name: "start", Hashes: []string{"BBBB2222"}},
		{Name: "removedata", Hashes: []string{"AAAA1111"}},
	}
	if got := d.Actions(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected actions %+v", got)
	}
	remaining := d.Torrents()
	if len(remaining) != 1 || remaining[0].Hash != "BBBB2222" || remaining[0].Status&1 == 0 {
		t.Fatalf("unexpected daemon state %+v", remaining)
	}
}

func TestAddURLAndFile(t *testing.T) {
	d := testsupport.NewDaemon(t, "admin", "")
	client := newClient(t, d)
	ctx := context.Background()

	if err := client.AddURL(ctx, "http://example.org/arch.torrent"); err != nil {
		t.Fatalf("AddURL: %v", err)
	}
	if err := client.AddFile(ctx, "/tmp/fedora.torrent", []byte("d4:infoe")); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	names := []string{}
	for _, tr := range d.Torrents() {
		names = append(names, tr.Name)
	}
	if !reflect.DeepEqual(names, []string{"arch", "fedora"}) {
		t.Fatalf("unexpected torrents %v", names)
	}
	actions := d.Actions()
	if actions[0].Source != "http://example.org/arch.torrent" || actions[1].Source != "fedora.torrent" {
		t.Fatalf("unexpected actions %+v", actions)
	}
	if err := client.AddURL(ctx, "  "); err == nil {
		t.Fatal("expected empty link error")
	}
}

func TestListFilesAndOpenFile(t *testing.T) {
	d := testsupport.NewDaemon(t, "admin", "secret")
	seed(d)
	client := newClient(t, d)
	ctx := context.Background()

	torrents, err := client.ListTorrents(ctx)
	if err != nil {
		t.Fatalf("ListTorrents: %v", err)
	}
	files, err := client.ListFiles(ctx, torrents)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}
	iso := files[0]
	if iso["name"] != "ubuntu.iso" || iso["hash"] != "AAAA1111" || iso["fileid"] != int64(0) || iso["torrent"] != "ubuntu-24.04" {
		t.Fatalf("unexpected file record %v", iso)
	}
	if iso["sid"] != "sid-aaaa1111" || iso["size"] != int64(64) || iso["progress"] != 100.0 {
		t.Fatalf("unexpected file fields %v", iso)
	}
	if files[2]["progress"] != 50.0 || files[2]["fileid"] != int64(0) {
		t.Fatalf("unexpected debian file %v", files[2])
	}

	body, size, err := client.OpenFile(ctx, "sid-aaaa1111", 1)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if size != 8 || string(data) != string(testsupport.Payload(8)) {
		t.Fatalf("unexpected payload size=%d data=%q", size, data)
	}

	if _, _, err := client.OpenFile(ctx, "sid-missing", 0); !errors.Is(err, btclient.ErrRejected) {
		t.Fatalf("expected ErrRejected for missing file, got %v", err)
	}
	empty, err := client.ListFiles(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty result, got %v %v", empty, err)
	}
	if _, err := client.ListFiles(ctx, []record.Record{{"name": "x"}}); err == nil {
		t.Fatal("expected error for torrent without hash")
	}
}

func TestFileURLEmbedsCredentials(t *testing.T) {
	client, err := btclient.New(btclient.Options{BaseURL: "http://127.0.0.1:8080", Username: "admin", Password: "pw"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := client.FileURL("sid-1", 3)
	want := "http://admin:pw@127.0.0.1:8080/proxy?disposition=ATTACHMENT&file=3&qos=0&service=DOWNLOAD&sid=sid-1"
	if got != want {
		t.Fatalf("FileURL = %q, want %q", got, want)
	}
}

func TestNewValidatesBaseURL(t *testing.T) {
	for _, base := range []string{"", "127.0.0.1", "://bad"} {
		if _, err := btclient.New(btclient.Options{BaseURL: base}); err == nil {
			t.Fatalf("expected error for base url %q", base)
		}
	}
}
