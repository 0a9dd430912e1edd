package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

var (
	// ErrLocked reports that another writer holds the destination lock.
	ErrLocked = errors.New("destination locked by another writer")
	// ErrSizeMismatch reports a payload that did not match its announced size.
	ErrSizeMismatch = errors.New("size mismatch")
)

const (
	partSuffix = ".part"
	lockSuffix = ".lock"
)

// Result describes a completed verified write.
type Result struct {
	Path   string
	Bytes  int64
	SHA256 string
}

// WriteVerified streams r into dst. The bytes land in a sibling .part file
// first and are renamed into place only once the written size equals size; a
// negative size skips the check. A sibling .lock file held with flock keeps
// concurrent writers of the same destination out. When progress is non-nil it
// receives every byte written.
func WriteVerified(dst string, r io.Reader, size int64, progress io.Writer) (Result, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return Result{}, fmt.Errorf("create destination directory: %w", err)
	}

	lockPath := dst + lockSuffix
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return Result{}, fmt.Errorf("acquire lock %s: %w", lockPath, err)
	}
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrLocked, dst)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lockPath)
	}()

	partPath := dst + partSuffix
	out, err := os.Create(partPath)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		_ = out.Close()
	}()

	hasher := sha256.New()
	writers := []io.Writer{out, hasher}
	if progress != nil {
		writers = append(writers, progress)
	}
	written, err := io.Copy(io.MultiWriter(writers...), r)
	if err != nil {
		_ = os.Remove(partPath)
		return Result{}, err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(partPath)
		return Result{}, err
	}

	if size >= 0 && written != size {
		_ = os.Remove(partPath)
		return Result{}, fmt.Errorf("%w: %s: expected %d bytes, received %d bytes", ErrSizeMismatch, dst, size, written)
	}

	if err := os.Rename(partPath, dst); err != nil {
		_ = os.Remove(partPath)
		return Result{}, fmt.Errorf("move %s into place: %w", dst, err)
	}

	return Result{Path: dst, Bytes: written, SHA256: hex.EncodeToString(hasher.Sum(nil))}, nil
}
