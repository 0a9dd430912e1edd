package fileutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
)

func TestWriteVerified(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "nested", "ubuntu.iso")
	content := []byte("hello world")

	var progress bytes.Buffer
	res, err := WriteVerified(dst, bytes.NewReader(content), int64(len(content)), &progress)
	if err != nil {
		t.Fatalf("WriteVerified: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
	sum := sha256.Sum256(content)
	if res.Bytes != int64(len(content)) || res.SHA256 != hex.EncodeToString(sum[:]) || res.Path != dst {
		t.Fatalf("unexpected result %+v", res)
	}
	if progress.String() != string(content) {
		t.Fatalf("progress writer saw %q", progress.String())
	}
	for _, leftover := range []string{dst + ".part", dst + ".lock"} {
		if _, err := os.Stat(leftover); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be removed, got %v", leftover, err)
		}
	}
}

func TestWriteVerifiedUnknownSize(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.bin")
	res, err := WriteVerified(dst, strings.NewReader("data"), -1, nil)
	if err != nil {
		t.Fatalf("WriteVerified: %v", err)
	}
	if res.Bytes != 4 {
		t.Fatalf("unexpected byte count %d", res.Bytes)
	}
}

func TestWriteVerifiedSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "short.bin")

	_, err := WriteVerified(dst, strings.NewReader("abc"), 10, nil)
	if !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatal("destination should not exist after mismatch")
	}
	if _, err := os.Stat(dst + ".part"); !os.IsNotExist(err) {
		t.Fatal("partial file should be removed after mismatch")
	}
}

func TestWriteVerifiedRejectsLockedDestination(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "busy.bin")

	held := flock.New(dst + ".lock")
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	_, err = WriteVerified(dst, strings.NewReader("data"), 4, nil)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatal("destination should not be written while locked")
	}
}
