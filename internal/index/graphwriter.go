package index

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kecbigmt/mm-sub003/internal/blobstore"
)

// GraphWriter turns accumulated edges into per-directory, rank-sorted edge
// files under a staging root.
type GraphWriter struct {
	Store blobstore.Store
}

// GraphStats reports what a graph write produced. Directories counts the
// edge groups written, not filesystem directories: a nested section path
// creates intermediate directories that hold no edges of their own.
type GraphStats struct {
	EdgeFiles   int
	Directories int
}

// Write writes one edge file per item for every directory in groups, rooted
// at root. Within a directory, edges sort ascending by rank, ties broken by
// CreatedAt ascending; the sort only fixes sibling order, file content is
// per-item. Writes never touch the published tree.
func (w *GraphWriter) Write(ctx context.Context, root string, groups map[string][]EdgeData) (GraphStats, error) {
	var stats GraphStats

	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		edges := groups[dir]
		SortSiblings(edges)

		from := parentFromDir(dir)
		for _, e := range edges {
			rec := EdgeRecord{
				Schema: EdgeSchema,
				To:     e.ItemID,
				Rank:   string(e.Rank),
				From:   from,
			}
			data, err := encodeRecord(rec)
			if err != nil {
				return stats, fmt.Errorf("encoding edge for %s: %w", e.ItemID, err)
			}
			if err := w.Store.Write(ctx, root+"/"+EdgePath(dir, e.ItemID), data); err != nil {
				return stats, fmt.Errorf("writing edge for %s: %w", e.ItemID, err)
			}
			stats.EdgeFiles++
		}
		stats.Directories++
	}
	return stats, nil
}

// SortSiblings orders edges the way they appear within a directory:
// ascending by rank, ties broken by CreatedAt ascending. The sort is stable
// so equal (rank, createdAt) pairs keep their input order.
func SortSiblings(edges []EdgeData) {
	sort.SliceStable(edges, func(i, j int) bool {
		if c := edges[i].Rank.Compare(edges[j].Rank); c != 0 {
			return c < 0
		}
		return edges[i].CreatedAt.Before(edges[j].CreatedAt)
	})
}

// parentFromDir extracts the parent item ID from a parents/... directory
// path. Other heads have no from field.
func parentFromDir(dir string) string {
	rest, ok := strings.CutPrefix(dir, "parents/")
	if !ok {
		return ""
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i]
	}
	return rest
}

// encodeRecord renders a record in the fixed on-disk form: two-space
// indented JSON with a trailing newline. Rebuilds must be byte-identical,
// so all writers funnel through here.
func encodeRecord(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
