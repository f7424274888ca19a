// Package index derives the graph and alias indexes from the authoritative
// item set and reads them back. Both indexes are fully disposable caches:
// a rebuild stages the complete tree out of band and publishes it with a
// single atomic directory swap.
package index

import (
	"time"

	"github.com/kecbigmt/mm-sub003/internal/item"
)

// On-disk layout. External tools may read these paths directly.
const (
	GraphDir        = ".index/graph"
	AliasDir        = ".index/aliases"
	GraphStagingDir = ".index/.tmp-graph"
	AliasStagingDir = ".index/.tmp-aliases"

	EdgeSchema  = "mm.edge/1"
	AliasSchema = "mm.alias/2"

	EdgeFileSuffix  = ".edge.json"
	AliasFileSuffix = ".alias.json"
)

// EdgeRecord is the stored form of one graph edge file.
// From is present only under parents/ directories; it is redundant with the
// directory path but keeps the file self-describing and lets orphan checks
// work without path parsing.
type EdgeRecord struct {
	Schema string `json:"schema"`
	To     string `json:"to"`
	Rank   string `json:"rank"`
	From   string `json:"from,omitempty"`
}

// AliasRecord is the stored form of one alias index entry.
type AliasRecord struct {
	Schema       string    `json:"schema"`
	Raw          string    `json:"raw"`
	CanonicalKey string    `json:"canonical_key"`
	ItemID       string    `json:"item_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// EdgeData is one accumulated edge before it is written: an item reference
// plus the ordering keys. The owning directory is the map key it is grouped
// under.
type EdgeData struct {
	ItemID    string
	Rank      item.Rank
	CreatedAt time.Time
}

// AliasEntry is one accumulated alias before it is written.
type AliasEntry struct {
	Raw          string
	CanonicalKey string
	ItemID       string
	CreatedAt    time.Time
}

// EdgePath returns the graph-root-relative path of the edge file for itemID
// placed in dir. The writer and the integrity checker share this derivation.
func EdgePath(dir, itemID string) string {
	return dir + "/" + itemID + EdgeFileSuffix
}

// AliasPath returns the alias-root-relative path for a canonical key hash.
// The two-level fan-out bounds directory sizes and keeps lookup a direct
// path construction.
func AliasPath(hash string) string {
	return hash[:2] + "/" + hash + AliasFileSuffix
}
