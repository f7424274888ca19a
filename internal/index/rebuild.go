package index

import (
	"context"
	"fmt"
	"sort"

	"github.com/kecbigmt/mm-sub003/internal/blobstore"
	"github.com/kecbigmt/mm-sub003/internal/item"
)

// Rebuilder derives both indexes from the authoritative item set and
// publishes them atomically. Rebuilding twice from an unchanged item set
// produces byte-identical output.
type Rebuilder struct {
	Store blobstore.Store
	Hash  Hasher
}

// NewRebuilder creates a Rebuilder writing through store, hashing canonical
// keys with hash.
func NewRebuilder(store blobstore.Store, hash Hasher) *Rebuilder {
	return &Rebuilder{Store: store, Hash: hash}
}

// RebuildResult summarizes a completed rebuild.
type RebuildResult struct {
	// GraphEdges maps each directory path to its item IDs in sibling order.
	GraphEdges map[string][]string `json:"graph_edges"`
	// Aliases maps each canonical key to the item that declared it.
	Aliases map[string]string `json:"aliases"`

	ItemsProcessed int `json:"items_processed"`
	EdgesCreated   int `json:"edges_created"`
	AliasesCreated int `json:"aliases_created"`
}

// Rebuild stages a full derivation of the graph and alias indexes from
// items, then swaps both into the published locations. Any write error
// aborts before publish; the previously published index is untouched.
// A stale staging tree from an earlier aborted rebuild is discarded first.
func (r *Rebuilder) Rebuild(ctx context.Context, items []*item.Record) (*RebuildResult, error) {
	groups, aliases := accumulate(items)

	if err := r.stage(ctx, groups, aliases); err != nil {
		return nil, err
	}
	if err := r.publish(ctx); err != nil {
		return nil, err
	}

	result := &RebuildResult{
		GraphEdges:     make(map[string][]string, len(groups)),
		Aliases:        make(map[string]string, len(aliases)),
		ItemsProcessed: len(items),
	}
	for dir, edges := range groups {
		SortSiblings(edges)
		ids := make([]string, len(edges))
		for i, e := range edges {
			ids[i] = e.ItemID
		}
		result.GraphEdges[dir] = ids
		result.EdgesCreated += len(edges)
	}
	for _, a := range aliases {
		result.Aliases[a.CanonicalKey] = a.ItemID
	}
	result.AliasesCreated = len(aliases)
	return result, nil
}

// Stage writes both index trees into the staging roots without publishing.
// Exposed for tests that compare staged output across rebuilds.
func (r *Rebuilder) Stage(ctx context.Context, items []*item.Record) error {
	groups, aliases := accumulate(items)
	return r.stage(ctx, groups, aliases)
}

// accumulate computes each item's directory path and collects its edge, plus
// an alias entry for every item that declares one.
func accumulate(items []*item.Record) (map[string][]EdgeData, []AliasEntry) {
	groups := make(map[string][]EdgeData)
	var aliases []AliasEntry
	for _, it := range items {
		dir := it.Directory.DirPath()
		groups[dir] = append(groups[dir], EdgeData{
			ItemID:    it.ID,
			Rank:      it.Rank,
			CreatedAt: it.CreatedAt,
		})
		if it.HasAlias() {
			aliases = append(aliases, AliasEntry{
				Raw:          it.Alias,
				CanonicalKey: item.CanonicalKey(it.Alias),
				ItemID:       it.ID,
				CreatedAt:    it.CreatedAt,
			})
		}
	}
	return groups, aliases
}

func (r *Rebuilder) stage(ctx context.Context, groups map[string][]EdgeData, aliases []AliasEntry) error {
	for _, staging := range []string{GraphStagingDir, AliasStagingDir} {
		if err := r.Store.Remove(ctx, staging, true); err != nil {
			return fmt.Errorf("clearing staging %s: %w", staging, err)
		}
		if err := r.Store.EnsureDir(ctx, staging); err != nil {
			return fmt.Errorf("creating staging %s: %w", staging, err)
		}
	}

	gw := &GraphWriter{Store: r.Store}
	if _, err := gw.Write(ctx, GraphStagingDir, groups); err != nil {
		return fmt.Errorf("staging graph index: %w", err)
	}

	aw := &AliasWriter{Store: r.Store, Hash: r.Hash}
	if _, err := aw.Write(ctx, AliasStagingDir, aliases); err != nil {
		return fmt.Errorf("staging alias index: %w", err)
	}
	return nil
}

func (r *Rebuilder) publish(ctx context.Context) error {
	if err := r.Store.ReplaceDir(ctx, GraphStagingDir, GraphDir); err != nil {
		return fmt.Errorf("publishing graph index: %w", err)
	}
	if err := r.Store.ReplaceDir(ctx, AliasStagingDir, AliasDir); err != nil {
		return fmt.Errorf("publishing alias index: %w", err)
	}
	return nil
}

// SortedDirs returns the directory paths of a result in stable order,
// for deterministic presentation.
func (res *RebuildResult) SortedDirs() []string {
	dirs := make([]string, 0, len(res.GraphEdges))
	for dir := range res.GraphEdges {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
