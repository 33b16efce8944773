// Package storage persists uploaded media files under a root directory.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStore stores media files on the local filesystem under Root.
// Paths handed to Save and Remove are relative to Root.
type DiskStore struct {
	// Root is the media root directory.
	Root string
}

// NewDiskStore creates a DiskStore rooted at dir.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{Root: dir}
}

// Save writes the contents of r to path under the media root, creating
// parent directories as needed.
func (s *DiskStore) Save(path string, r io.Reader) error {
	full := filepath.Join(s.Root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create media file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write media file: %w", err)
	}
	return nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *DiskStore) Remove(path string) error {
	full := filepath.Join(s.Root, filepath.FromSlash(path))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}
