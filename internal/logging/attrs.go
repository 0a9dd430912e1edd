package logging

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

type Attr = slog.Attr

// Standard field keys shared by every component.
const (
	FieldComponent = "component"
	FieldCommand   = "command"
	FieldRequestID = "request_id"
	FieldHash      = "hash"
	FieldPath      = "path"
	FieldURL       = "url"
)

// redacted matches the placeholder url.URL.Redacted uses for passwords.
const redacted = "xxxxx"

// secretKeys name fields whose values never reach the log output.
var secretKeys = []string{"password", "token"}

func isSecretKey(key string) bool {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}
	for _, secret := range secretKeys {
		if strings.EqualFold(key, secret) {
			return true
		}
	}
	return false
}

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// URL logs u with its password and any token query parameter masked.
func URL(key string, u *url.URL) Attr {
	if u == nil {
		return slog.String(key, "")
	}
	clean := *u
	if query := clean.Query(); len(query) > 0 {
		for name := range query {
			if isSecretKey(name) {
				query.Set(name, redacted)
			}
		}
		clean.RawQuery = query.Encode()
	}
	return slog.String(key, clean.Redacted())
}

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger creates a logger with a standardized component attribute.
// If logger is nil, a no-op logger is used as the base.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return NoopHandler{} }

func (NoopHandler) WithGroup(string) slog.Handler { return NoopHandler{} }
