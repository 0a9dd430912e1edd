package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"btc/internal/testsupport"
)

type cliTestEnv struct {
	daemon     *testsupport.Daemon
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	d := testsupport.NewDaemon(t, "admin", "secret")
	d.AddTorrent(testsupport.Torrent{
		Hash:     "AAAA1111",
		Name:     "ubuntu-24.04-desktop",
		Progress: 1000,
		Files: []testsupport.File{
			{Name: "ubuntu.iso", Content: testsupport.Payload(64)},
			{Name: "SHA256SUMS", Content: testsupport.Payload(8)},
		},
	})
	d.AddTorrent(testsupport.Torrent{
		Hash:     "BBBB2222",
		Name:     "Debian-12",
		Status:   8 | 128,
		Progress: 400,
		Files:    []testsupport.File{{Name: "debian.iso", Content: testsupport.Payload(40)}},
	})
	d.AddTorrent(testsupport.Torrent{
		Hash:     "CCCC3333",
		Name:     "Ubuntu-22.04-server",
		Progress: 1000,
		Files:    []testsupport.File{{Name: "server.iso", Content: testsupport.Payload(16)}},
	})

	cfg := testsupport.NewConfig(t, testsupport.WithDaemon(d))
	path := testsupport.InstallConfig(t, cfg)
	return &cliTestEnv{daemon: d, configPath: path}
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	argv := append([]string{"btc"}, args...)
	code := run(context.Background(), argv, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

// mustRun runs the CLI and fails the test on a non-zero exit.
func mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	stdout, stderr, code := runCLI(t, stdin, args...)
	if code != 0 {
		t.Fatalf("btc %s exited %d: %s", strings.Join(args, " "), code, stderr)
	}
	return stdout
}

func decodeList(t *testing.T, out string) []map[string]any {
	t.Helper()
	var list []map[string]any
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	return list
}

func names(list []map[string]any) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		name, _ := r["name"].(string)
		out = append(out, name)
	}
	return out
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q, got:\n%s", substr, output)
	}
}
