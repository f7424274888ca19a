// Package blobstore defines a generic hierarchical blob storage interface
// for workspace persistence. Keys are slash-separated paths relative to the
// workspace root; any durable hierarchical key-value store satisfies it.
package blobstore

import (
	"context"
	"fmt"
	"strings"
)

// Store defines the interface for blob persistence.
type Store interface {
	// Write stores data at path, creating parent directories as needed.
	// The write is atomic: readers never observe a partial file.
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves the blob at path.
	// Returns ErrNotFound if no blob exists there.
	Read(ctx context.Context, path string) ([]byte, error)

	// EnsureDir creates dir (and parents) if it does not exist.
	// A staged tree with no blobs is still a valid tree to publish.
	EnsureDir(ctx context.Context, dir string) error

	// List returns the immediate entries of dir.
	// An absent directory yields an empty slice, not an error.
	List(ctx context.Context, dir string) ([]Entry, error)

	// Remove deletes the blob or directory at path. Removing a non-empty
	// directory requires recursive=true. Removing an absent path is a no-op.
	Remove(ctx context.Context, path string, recursive bool) error

	// ReplaceDir atomically swaps the directory at published with the one
	// at staging, deleting the previous published tree. Readers observe
	// either the old tree or the new one, never a mixture.
	ReplaceDir(ctx context.Context, staging, published string) error
}

// Entry describes one member of a directory listing.
type Entry struct {
	Name  string
	IsDir bool
}

// WalkFiles returns the relative paths (under dir) of every file in the
// subtree rooted at dir, using an explicit directory stack rather than
// recursion. Each call walks the tree afresh; an absent dir yields nil.
func WalkFiles(ctx context.Context, s Store, dir string) ([]string, error) {
	var files []string
	stack := []string{""}
	for len(stack) > 0 {
		rel := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		abs := dir
		if rel != "" {
			abs = dir + "/" + rel
		}
		entries, err := s.List(ctx, abs)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", abs, err)
		}
		for _, e := range entries {
			child := e.Name
			if rel != "" {
				child = rel + "/" + e.Name
			}
			if e.IsDir {
				stack = append(stack, child)
			} else {
				files = append(files, child)
			}
		}
	}
	return files, nil
}

// ValidatePath checks that a path is a well-formed relative key.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.HasPrefix(path, "/") {
		return fmt.Errorf("path %q must be relative", path)
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("path %q contains invalid segment %q", path, seg)
		}
	}
	return nil
}
