package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvConfigPath names the environment variable that overrides the
// configuration file location.
const EnvConfigPath = "BTC_CONFIG"

// EnvLogLevel overrides the configured log level.
const EnvLogLevel = "BTC_LOG_LEVEL"

// Config holds the merged process configuration. It is built once at process
// start and treated as read-only afterwards.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	LogLevel  string
	LogFormat string

	// Extra keeps keys the file carried that btc does not recognize.
	Extra map[string]any
}

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load resolves, reads and merges the configuration file over the defaults.
// An empty path consults BTC_CONFIG and then ~/.btc. A missing file is not an
// error; the returned bool reports whether one was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		raw, err := decode(resolvedPath, data)
		if err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
		if err := cfg.merge(raw); err != nil {
			return nil, "", false, err
		}
	}

	if level, ok := os.LookupEnv(EnvLogLevel); ok && strings.TrimSpace(level) != "" {
		cfg.LogLevel = level
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	var expanded string
	var err error
	if path == "" {
		expanded, err = DefaultConfigPath()
	} else {
		expanded, err = expandPath(path)
	}
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

// decode parses the file body into a generic object. Files ending in .toml
// are TOML; everything else is JSON. A blank file decodes to an empty object.
func decode(path string, data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	raw := map[string]any{}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after configuration object")
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, errors.New("configuration must be a JSON object")
	}
	return obj, nil
}

func (c *Config) merge(raw map[string]any) error {
	for key, value := range raw {
		var err error
		switch key {
		case keyHost:
			c.Host, err = stringValue(key, value)
		case keyPort:
			c.Port, err = intValue(key, value)
		case keyUsername:
			c.Username, err = stringValue(key, value)
		case keyPassword:
			c.Password, err = stringValue(key, value)
		case keyLogLevel:
			c.LogLevel, err = stringValue(key, value)
		case keyLogFormat:
			c.LogFormat, err = stringValue(key, value)
		default:
			if c.Extra == nil {
				c.Extra = make(map[string]any)
			}
			c.Extra[key] = value
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func stringValue(key string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("config: %s must be a string, got %T", key, value)
	}
	return s, nil
}

func intValue(key string, value any) (int, error) {
	switch v := value.(type) {
	case json.Number:
		n, err := strconv.ParseInt(v.String(), 10, 0)
		if err != nil {
			return 0, fmt.Errorf("config: %s must be an integer, got %s", key, v)
		}
		return int(n), nil
	case int64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("config: %s must be an integer, got %T", key, value)
	}
}

// Map returns the merged settings, including preserved unknown keys.
func (c *Config) Map() map[string]any {
	out := make(map[string]any, 6+len(c.Extra))
	maps.Copy(out, c.Extra)
	out[keyHost] = c.Host
	out[keyPort] = c.Port
	out[keyUsername] = c.Username
	out[keyPassword] = c.Password
	out[keyLogLevel] = c.LogLevel
	out[keyLogFormat] = c.LogFormat
	return out
}

// BaseURL returns the daemon address as an http URL. A host that already
// carries a scheme is used as given, with the port appended when absent.
func (c *Config) BaseURL() string {
	host := strings.TrimRight(strings.TrimSpace(c.Host), "/")
	port := strconv.Itoa(c.Port)
	if scheme, rest, ok := strings.Cut(host, "://"); ok {
		if _, _, err := net.SplitHostPort(rest); err == nil {
			return host
		}
		return scheme + "://" + net.JoinHostPort(rest, port)
	}
	return "http://" + net.JoinHostPort(host, port)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
