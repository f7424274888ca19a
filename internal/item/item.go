// Package item defines the authoritative item model: the record stored in
// each markdown file's frontmatter, its logical placement, and the rank key
// that orders siblings. The index subsystem treats records as read-only input.
package item

import "time"

// Record is the authoritative state of a single item. It is owned by the
// item store; the index only ever derives from it.
type Record struct {
	ID        string
	Directory Placement
	Rank      Rank
	Alias     string // raw alias text, empty if the item declares none
	CreatedAt time.Time
}

// HasAlias reports whether the record declares an alias.
func (r *Record) HasAlias() bool {
	return r.Alias != ""
}
