// Package filesystem implements blobstore.Store on the local filesystem.
// Blob keys map directly to file paths under a root directory; writes go
// through a temporary file and rename so readers never see partial content.
package filesystem

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/kecbigmt/mm-sub003/internal/blobstore"
)

// Store implements blobstore.Store rooted at a workspace directory.
type Store struct {
	root string
}

// New creates a filesystem blob store rooted at root.
func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) abs(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}

// Write stores data at path, creating parent directories as needed.
func (s *Store) Write(ctx context.Context, path string, data []byte) error {
	if err := blobstore.ValidatePath(path); err != nil {
		return err
	}
	abs := s.abs(path)
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return err
	}
	return atomicWrite(abs, data)
}

// Read retrieves the blob at path.
func (s *Store) Read(ctx context.Context, path string) ([]byte, error) {
	if err := blobstore.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.abs(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, blobstore.ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}

// EnsureDir creates dir and any missing parents.
func (s *Store) EnsureDir(ctx context.Context, dir string) error {
	if err := blobstore.ValidatePath(dir); err != nil {
		return err
	}
	return os.MkdirAll(s.abs(dir), 0755)
}

// List returns the immediate entries of dir. An absent directory yields nil.
func (s *Store) List(ctx context.Context, dir string) ([]blobstore.Entry, error) {
	if err := blobstore.ValidatePath(dir); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.abs(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]blobstore.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, blobstore.Entry{Name: e.Name(), IsDir: e.IsDir()})
	}
	return out, nil
}

// Remove deletes the blob or directory at path.
func (s *Store) Remove(ctx context.Context, path string, recursive bool) error {
	if err := blobstore.ValidatePath(path); err != nil {
		return err
	}
	abs := s.abs(path)
	if recursive {
		return os.RemoveAll(abs)
	}
	err := os.Remove(abs)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	if isNotEmpty(err) {
		return fmt.Errorf("%s: %w", path, blobstore.ErrNotEmpty)
	}
	return err
}

// ReplaceDir swaps staging into published. The previous published tree is
// renamed aside first, so a reader sees the old tree until the very instant
// the new one lands; the aside copy is deleted last.
func (s *Store) ReplaceDir(ctx context.Context, staging, published string) error {
	if err := blobstore.ValidatePath(staging); err != nil {
		return err
	}
	if err := blobstore.ValidatePath(published); err != nil {
		return err
	}

	stagingAbs := s.abs(staging)
	publishedAbs := s.abs(published)
	if _, err := os.Stat(stagingAbs); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("staging %s: %w", staging, blobstore.ErrNotFound)
		}
		return err
	}
	if err := os.MkdirAll(filepath.Dir(publishedAbs), 0755); err != nil {
		return err
	}

	old := publishedAbs + ".old." + randSuffix()
	if err := os.Rename(publishedAbs, old); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Rename(stagingAbs, publishedAbs); err != nil {
		// Put the previous tree back so the published location stays valid.
		os.Rename(old, publishedAbs)
		return err
	}
	return os.RemoveAll(old)
}

func randSuffix() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// atomicWrite writes data to a file atomically via a temporary file and rename.
func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp." + randSuffix()
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best effort cleanup
		return err
	}
	return nil
}

// os.Remove on a non-empty directory surfaces ENOTEMPTY (EEXIST on some systems).
func isNotEmpty(err error) bool {
	return errors.Is(err, syscall.ENOTEMPTY) || errors.Is(err, syscall.EEXIST)
}
