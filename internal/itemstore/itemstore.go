// Package itemstore defines the authoritative item source for a workspace.
// Items live as markdown files with YAML frontmatter; the store yields the
// complete current record set and tolerates individually damaged files.
package itemstore

import (
	"context"

	"github.com/kecbigmt/mm-sub003/internal/item"
)

// Store defines the interface for item persistence.
type Store interface {
	// Init prepares the store (creates directories, etc.).
	Init(ctx context.Context) error

	// Load returns the complete current item set keyed by ID, plus one
	// ScanError per file that could not be parsed. A damaged file never
	// aborts the load.
	Load(ctx context.Context) (map[string]*item.Record, []ScanError, error)

	// Get retrieves a single item by ID.
	// Returns ErrNotFound if the item doesn't exist.
	Get(ctx context.Context, id string) (*item.Record, error)

	// Create persists a new item and returns its ID. A zero rec.ID is
	// filled with a generated time-sortable identifier; a zero CreatedAt
	// is filled with the current time.
	Create(ctx context.Context, rec *item.Record, body string) (string, error)
}

// ScanError records one unreadable or invalid item file.
type ScanError struct {
	Path string
	Err  error
}
