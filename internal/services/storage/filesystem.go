package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemStore persists blobs under a root directory, mirroring the
// storage key hierarchy on disk
type FilesystemStore struct {
	rootDir string
}

// NewFilesystemStore creates the store, ensuring the root directory exists
func NewFilesystemStore(rootDir string) (*FilesystemStore, error) {
	if rootDir == "" {
		return nil, fmt.Errorf("storage root directory not configured")
	}
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	return &FilesystemStore{rootDir: rootDir}, nil
}

// Put writes a blob atomically: data lands in a temp file that is renamed
// into place only after a full write
func (s *FilesystemStore) Put(ctx context.Context, key string, reader io.Reader) (int64, error) {
	target, err := s.resolve(key)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, fmt.Errorf("creating object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, reader)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("writing object %s: %w", key, err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("finalizing object %s: %w", key, err)
	}

	log.Printf("[DEBUG] Stored object %s (%d bytes)", key, written)
	return written, nil
}

// Open returns a reader for a stored blob
func (s *FilesystemStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	target, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object %s not found", key)
		}
		return nil, fmt.Errorf("opening object %s: %w", key, err)
	}
	return f, nil
}

// Exists reports whether a blob is present
func (s *FilesystemStore) Exists(ctx context.Context, key string) (bool, error) {
	target, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes a blob. Deleting a missing object is not an error.
func (s *FilesystemStore) Delete(ctx context.Context, key string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting object %s: %w", key, err)
	}

	// clean up empty parent directories up to the root
	dir := filepath.Dir(target)
	for dir != s.rootDir && strings.HasPrefix(dir, s.rootDir) {
		if err := os.Remove(dir); err != nil {
			break
		}
		dir = filepath.Dir(dir)
	}

	return nil
}

// resolve maps a storage key to a filesystem path, rejecting traversal
func (s *FilesystemStore) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty storage key")
	}

	cleaned := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}

	return filepath.Join(s.rootDir, cleaned), nil
}
