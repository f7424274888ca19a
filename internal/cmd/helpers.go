package cmd

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/kecbigmt/mm-sub003/internal/item"
)

// writeJSON encodes v to out with stable, indented formatting.
func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// sortedRecords flattens an item map into a slice ordered by ID, so rebuild
// inputs are deterministic regardless of map iteration order.
func sortedRecords(items map[string]*item.Record) []*item.Record {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	recs := make([]*item.Record, len(ids))
	for i, id := range ids {
		recs[i] = items[id]
	}
	return recs
}
