package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"btc/internal/config"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(config.EnvLogLevel, "")
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	home := isolateHome(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(home, ".btc") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if def, err := config.DefaultConfigPath(); err != nil || def != resolved {
		t.Fatalf("DefaultConfigPath = %q, %v; want %q", def, err, resolved)
	}
	if !reflect.DeepEqual(*cfg, config.Default()) {
		t.Fatalf("expected defaults, got %+v", *cfg)
	}
	if cfg.Host != "127.0.0.1" || cfg.Port != 8080 || cfg.Username != "admin" || cfg.Password != "" {
		t.Fatalf("unexpected defaults: %+v", *cfg)
	}
}

func TestLoadEmptyFileEqualsDefaults(t *testing.T) {
	home := isolateHome(t)
	defaults := config.Default()
	want := defaults.Map()
	for _, body := range []string{"", "  \n", "{}"} {
		writeFile(t, filepath.Join(home, ".btc"), body)
		cfg, _, exists, err := config.Load("")
		if err != nil {
			t.Fatalf("Load(%q): %v", body, err)
		}
		if !exists {
			t.Fatal("expected config file to be found")
		}
		if !reflect.DeepEqual(cfg.Map(), want) {
			t.Fatalf("expected default mapping for %q, got %v", body, cfg.Map())
		}
	}
}

func TestLoadPortOverrideKeepsOtherDefaults(t *testing.T) {
	home := isolateHome(t)
	writeFile(t, filepath.Join(home, ".btc"), `{"port": 9091}`)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := config.Default()
	want.Port = 9091
	if !reflect.DeepEqual(*cfg, want) {
		t.Fatalf("unexpected config: got %+v want %+v", *cfg, want)
	}
}

func TestLoadPreservesUnknownKeys(t *testing.T) {
	home := isolateHome(t)
	writeFile(t, filepath.Join(home, ".btc"), `{"host": "nas.local", "player": "mpv", "retries": 3}`)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != "nas.local" {
		t.Fatalf("unexpected host %q", cfg.Host)
	}
	if cfg.Extra["player"] != "mpv" {
		t.Fatalf("expected unknown key preserved, got %v", cfg.Extra)
	}
	merged := cfg.Map()
	if merged["player"] != "mpv" || merged["port"] != 8080 {
		t.Fatalf("unexpected merged mapping %v", merged)
	}
}

func TestLoadMalformedFileFails(t *testing.T) {
	home := isolateHome(t)
	writeFile(t, filepath.Join(home, ".btc"), `{"port": 80`)

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestLoadRejectsWrongTypes(t *testing.T) {
	home := isolateHome(t)
	cases := map[string]string{
		`{"port": "8080"}`:    "port must be an integer",
		`{"port": 80.5}`:      "port must be an integer",
		`{"port": 70000}`:     "port must be between",
		`{"host": 12}`:        "host must be a string",
		`[1, 2]`:              "must be a JSON object",
		`{"log_level": "xx"}`: "log_level",
	}
	for body, fragment := range cases {
		writeFile(t, filepath.Join(home, ".btc"), body)
		_, _, _, err := config.Load("")
		if err == nil || !strings.Contains(err.Error(), fragment) {
			t.Fatalf("config %s: expected error containing %q, got %v", body, fragment, err)
		}
	}
}

func TestLoadHonoursEnvPathAndTOML(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "btc.toml")
	writeFile(t, path, "host = \"10.0.0.2\"\nport = 7000\npassword = \"secret\"\nlabel = \"linux\"\n")
	t.Setenv(config.EnvConfigPath, path)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected %s to be loaded, got %s (exists=%v)", path, resolved, exists)
	}
	if cfg.Host != "10.0.0.2" || cfg.Port != 7000 || cfg.Password != "secret" || cfg.Username != "admin" {
		t.Fatalf("unexpected config %+v", *cfg)
	}
	if cfg.Extra["label"] != "linux" {
		t.Fatalf("expected unknown TOML key preserved, got %v", cfg.Extra)
	}
}

func TestLoadEnvLogLevelOverride(t *testing.T) {
	isolateHome(t)
	t.Setenv(config.EnvLogLevel, "DEBUG")
	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug level, got %q", cfg.LogLevel)
	}
}

func TestBaseURL(t *testing.T) {
	cases := []struct {
		host string
		port int
		want string
	}{
		{"127.0.0.1", 8080, "http://127.0.0.1:8080"},
		{"::1", 8080, "http://[::1]:8080"},
		{"https://nas.local", 443, "https://nas.local:443"},
		{"https://nas.local:9000/", 443, "https://nas.local:9000"},
	}
	for _, tc := range cases {
		cfg := config.Default()
		cfg.Host = tc.host
		cfg.Port = tc.port
		if got := cfg.BaseURL(); got != tc.want {
			t.Fatalf("BaseURL(%q, %d) = %q, want %q", tc.host, tc.port, got, tc.want)
		}
	}
}
