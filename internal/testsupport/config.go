package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"btc/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a default config and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfgVal := config.Default()
	builder := &configBuilder{t: t, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithDaemon points the config at a fake daemon and copies its credentials.
func WithDaemon(d *Daemon) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Host, b.cfg.Port = d.HostPort()
		b.cfg.Username = d.Username
		b.cfg.Password = d.Password
	}
}

// WithLogLevel overrides the configured log level.
func WithLogLevel(level string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LogLevel = level
	}
}

// InstallConfig writes cfg as a JSON config file in a temp directory, points
// BTC_CONFIG at it, and isolates HOME. It returns the file path.
func InstallConfig(t testing.TB, cfg *config.Config) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "btc.json")
	data, err := json.MarshalIndent(cfg.Map(), "", "  ")
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HOME", dir)
	t.Setenv(config.EnvConfigPath, path)
	t.Setenv(config.EnvLogLevel, "")
	return path
}
