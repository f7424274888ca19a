// Package filesystem implements itemstore.Store on top of a blob store.
// Each item is one markdown file at items/<itemId>.md inside the workspace.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kecbigmt/mm-sub003/internal/blobstore"
	"github.com/kecbigmt/mm-sub003/internal/item"
	"github.com/kecbigmt/mm-sub003/internal/itemstore"
)

// ItemsDir is the directory holding authoritative item files.
const ItemsDir = "items"

const itemFileSuffix = ".md"

// Store implements itemstore.Store backed by markdown files with YAML
// frontmatter.
type Store struct {
	blobs blobstore.Store
}

// New creates an item store writing through blobs.
func New(blobs blobstore.Store) *Store {
	return &Store{blobs: blobs}
}

// Init creates the items directory.
func (s *Store) Init(ctx context.Context) error {
	return s.blobs.EnsureDir(ctx, ItemsDir)
}

func itemPath(id string) string {
	return ItemsDir + "/" + id + itemFileSuffix
}

// Load returns the complete current item set. Malformed files each yield one
// ScanError; scanning continues past them.
func (s *Store) Load(ctx context.Context) (map[string]*item.Record, []itemstore.ScanError, error) {
	files, err := blobstore.WalkFiles(ctx, s.blobs, ItemsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("scanning items: %w", err)
	}

	records := make(map[string]*item.Record)
	var scanErrs []itemstore.ScanError
	for _, rel := range files {
		if !strings.HasSuffix(rel, itemFileSuffix) {
			continue
		}
		path := ItemsDir + "/" + rel
		data, err := s.blobs.Read(ctx, path)
		if err != nil {
			scanErrs = append(scanErrs, itemstore.ScanError{Path: path, Err: err})
			continue
		}
		rec, _, err := decodeItem(data)
		if err != nil {
			scanErrs = append(scanErrs, itemstore.ScanError{Path: path, Err: err})
			continue
		}
		want := strings.TrimSuffix(rel, itemFileSuffix)
		if rec.ID != want {
			scanErrs = append(scanErrs, itemstore.ScanError{
				Path: path,
				Err:  fmt.Errorf("frontmatter id %q does not match file name", rec.ID),
			})
			continue
		}
		records[rec.ID] = rec
	}
	return records, scanErrs, nil
}

// Get retrieves a single item by ID.
func (s *Store) Get(ctx context.Context, id string) (*item.Record, error) {
	data, err := s.blobs.Read(ctx, itemPath(id))
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, itemstore.ErrNotFound
		}
		return nil, err
	}
	rec, _, err := decodeItem(data)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", id, err)
	}
	return rec, nil
}

// Create persists a new item. An empty rec.ID is filled with a UUIDv7, which
// sorts by creation time.
func (s *Store) Create(ctx context.Context, rec *item.Record, body string) (string, error) {
	if rec.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("generating item id: %w", err)
		}
		rec.ID = id.String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	path := itemPath(rec.ID)
	if _, err := s.blobs.Read(ctx, path); err == nil {
		return "", fmt.Errorf("item %s: %w", rec.ID, itemstore.ErrAlreadyExists)
	} else if !errors.Is(err, blobstore.ErrNotFound) {
		return "", err
	}

	data, err := encodeItem(rec, body)
	if err != nil {
		return "", err
	}
	if err := s.blobs.Write(ctx, path, data); err != nil {
		return "", err
	}
	return rec.ID, nil
}
