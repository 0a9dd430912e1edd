package btclient

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnavailable marks transport failures reaching the daemon.
	ErrUnavailable = errors.New("daemon unavailable")
	// ErrUnauthorized marks credentials the daemon refused.
	ErrUnauthorized = errors.New("daemon rejected credentials")
	// ErrRejected marks any other non-success status.
	ErrRejected = errors.New("daemon rejected request")
	// ErrProtocol marks payloads that could not be understood.
	ErrProtocol = errors.New("unexpected daemon response")
)

// wrap tags err with marker and the operation that produced it.
func wrap(marker error, operation, message string, err error) error {
	detail := strings.TrimSpace(operation)
	if message = strings.TrimSpace(message); message != "" {
		if detail != "" {
			detail += ": "
		}
		detail += message
	}
	if detail == "" {
		detail = "daemon request"
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}
