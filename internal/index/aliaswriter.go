package index

import (
	"context"
	"fmt"
	"sort"

	"github.com/kecbigmt/mm-sub003/internal/blobstore"
)

// AliasWriter turns alias entries into hash-sharded lookup files under a
// staging root. The hashing capability is injected.
type AliasWriter struct {
	Store blobstore.Store
	Hash  Hasher
}

// AliasStats reports what an alias write produced.
type AliasStats struct {
	AliasFiles int
}

// Write stores one file per alias entry at <hash[0:2]>/<hash>.alias.json
// under root, where hash digests the canonical key.
func (w *AliasWriter) Write(ctx context.Context, root string, entries []AliasEntry) (AliasStats, error) {
	var stats AliasStats

	// Full ordering, including the item id tiebreak: entries sharing a
	// canonical key collide on one path, and the survivor must not depend
	// on input order.
	sorted := make([]AliasEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].CanonicalKey != sorted[j].CanonicalKey {
			return sorted[i].CanonicalKey < sorted[j].CanonicalKey
		}
		return sorted[i].ItemID < sorted[j].ItemID
	})

	for _, e := range sorted {
		rec := AliasRecord{
			Schema:       AliasSchema,
			Raw:          e.Raw,
			CanonicalKey: e.CanonicalKey,
			ItemID:       e.ItemID,
			CreatedAt:    e.CreatedAt,
		}
		data, err := encodeRecord(rec)
		if err != nil {
			return stats, fmt.Errorf("encoding alias %q: %w", e.Raw, err)
		}
		hash := w.Hash.Sum([]byte(e.CanonicalKey))
		if err := w.Store.Write(ctx, root+"/"+AliasPath(hash), data); err != nil {
			return stats, fmt.Errorf("writing alias %q: %w", e.Raw, err)
		}
		stats.AliasFiles++
	}
	return stats, nil
}
