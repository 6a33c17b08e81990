// Package blobstore stores uploaded spreadsheet bytes on local disk,
// addressed by a generated storage filename.
package blobstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound means no blob exists under the given storage filename.
var ErrNotFound = errors.New("blob not found")

// Store is a local-disk blob store. Stored names are uuid-prefixed so
// uploads with identical original names never collide. Safe for concurrent
// use: every blob is written once under a fresh name and read-only after.
type Store struct {
	dir string
}

// NewStore creates the store, making the upload directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save streams the upload to disk and returns the generated storage
// filename. The original name is sanitized to its base name before being
// embedded in the stored name.
func (s *Store) Save(originalName string, r io.Reader) (string, int64, error) {
	name := fmt.Sprintf("%s-%s", uuid.New().String(), sanitize(originalName))
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create blob file: %w", err)
	}

	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to write blob: %w", err)
	}
	return name, written, nil
}

// Fetch reads the blob stored under name. Returns ErrNotFound when the
// blob does not exist.
func (s *Store) Fetch(name string) ([]byte, error) {
	// Reject anything that could escape the upload directory.
	if name != filepath.Base(name) || name == "" || name == "." {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, nil
}

func sanitize(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "upload"
	}
	return base
}
