// Package doctor compares the authoritative item set against the published
// index contents and reports structured drift. It is purely observational:
// Check always returns a (possibly empty) issue list, never errors, and
// never mutates anything.
package doctor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kecbigmt/mm-sub003/internal/index"
	"github.com/kecbigmt/mm-sub003/internal/item"
)

// IssueKind classifies one kind of drift between items and indexes.
type IssueKind string

const (
	EdgeTargetNotFound   IssueKind = "edge_target_not_found"
	DuplicateEdge        IssueKind = "duplicate_edge"
	CycleDetected        IssueKind = "cycle_detected"
	AliasConflict        IssueKind = "alias_conflict"
	MissingEdge          IssueKind = "missing_edge"
	EdgeLocationMismatch IssueKind = "edge_location_mismatch"
	EdgeItemMismatch     IssueKind = "edge_item_mismatch"
	OrphanedAliasIndex   IssueKind = "orphaned_alias_index"
	MissingAliasIndex    IssueKind = "missing_alias_index"
)

// Issue is one detected inconsistency. Kind determines which context fields
// are populated.
type Issue struct {
	Kind IssueKind `json:"kind"`

	ItemID  string   `json:"item_id,omitempty"`  // subject item, when there is a single one
	ItemIDs []string `json:"item_ids,omitempty"` // conflicting items (AliasConflict)
	Path    string   `json:"path,omitempty"`     // offending index file
	Paths   []string `json:"paths,omitempty"`    // all offending files (DuplicateEdge)
	Cycle   []string `json:"cycle,omitempty"`    // ordered id sequence (CycleDetected)

	CanonicalKey string `json:"canonical_key,omitempty"`
	Alias        string `json:"alias,omitempty"`

	ExpectedDir string `json:"expected_dir,omitempty"`
	ActualDir   string `json:"actual_dir,omitempty"`
	EdgeRank    string `json:"edge_rank,omitempty"`
	ItemRank    string `json:"item_rank,omitempty"`
}

// String renders the issue for human output.
func (i Issue) String() string {
	switch i.Kind {
	case EdgeTargetNotFound:
		return fmt.Sprintf("edge target not found: %s references unknown item %s", i.Path, i.ItemID)
	case DuplicateEdge:
		return fmt.Sprintf("duplicate edge: item %s appears %d times under %s (%s)",
			i.ItemID, len(i.Paths), i.ActualDir, strings.Join(i.Paths, ", "))
	case CycleDetected:
		return fmt.Sprintf("cycle detected: %s", strings.Join(i.Cycle, " -> "))
	case AliasConflict:
		return fmt.Sprintf("alias conflict: %q resolves to multiple items (%s)",
			i.CanonicalKey, strings.Join(i.ItemIDs, ", "))
	case MissingEdge:
		return fmt.Sprintf("missing edge: item %s has no edge file under %s", i.ItemID, i.ExpectedDir)
	case EdgeLocationMismatch:
		return fmt.Sprintf("edge location mismatch: item %s expected under %s but found under %s",
			i.ItemID, i.ExpectedDir, i.ActualDir)
	case EdgeItemMismatch:
		return fmt.Sprintf("edge rank mismatch: item %s edge has rank %q but item has rank %q",
			i.ItemID, i.EdgeRank, i.ItemRank)
	case OrphanedAliasIndex:
		return fmt.Sprintf("orphaned alias entry: %s (key %q, item %s)", i.Path, i.CanonicalKey, i.ItemID)
	case MissingAliasIndex:
		return fmt.Sprintf("missing alias entry: item %s declares alias %q but no index entry exists",
			i.ItemID, i.Alias)
	default:
		return string(i.Kind)
	}
}

// Check runs every integrity check and collects all issues; no check
// short-circuits another. Entries whose scan failed (Err set) are skipped
// here; an item whose edge file is unreadable still surfaces as MissingEdge.
func Check(items map[string]*item.Record, edges []index.ScannedEdge, aliases []index.ScannedAlias) []Issue {
	var issues []Issue

	valid := make([]index.ScannedEdge, 0, len(edges))
	for _, e := range edges {
		if e.Err == nil {
			valid = append(valid, e)
		}
	}
	validAliases := make([]index.ScannedAlias, 0, len(aliases))
	for _, a := range aliases {
		if a.Err == nil {
			validAliases = append(validAliases, a)
		}
	}

	issues = append(issues, checkEdgeTargets(items, valid)...)
	issues = append(issues, checkDuplicateEdges(valid)...)
	issues = append(issues, checkCycles(items)...)
	issues = append(issues, checkAliasConflicts(items, validAliases)...)
	issues = append(issues, checkItemEdges(items, valid)...)
	issues = append(issues, checkOrphanedAliases(items, validAliases)...)
	issues = append(issues, checkMissingAliases(items, validAliases)...)
	return issues
}

// checkEdgeTargets flags edges whose target item no longer exists.
func checkEdgeTargets(items map[string]*item.Record, edges []index.ScannedEdge) []Issue {
	var issues []Issue
	for _, e := range edges {
		if _, ok := items[e.Edge.To]; !ok {
			issues = append(issues, Issue{
				Kind:   EdgeTargetNotFound,
				ItemID: e.Edge.To,
				Path:   e.Path,
			})
		}
	}
	return issues
}

// checkDuplicateEdges groups edges by their containing directory as parsed
// from the storage path, not re-derived from frontmatter: the point is to
// catch on-disk drift.
func checkDuplicateEdges(edges []index.ScannedEdge) []Issue {
	type key struct{ dir, id string }
	byKey := make(map[key][]string)
	for _, e := range edges {
		k := key{dir: e.Dir, id: e.Edge.To}
		byKey[k] = append(byKey[k], e.Path)
	}

	keys := make([]key, 0, len(byKey))
	for k, paths := range byKey {
		if len(paths) > 1 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].dir != keys[j].dir {
			return keys[i].dir < keys[j].dir
		}
		return keys[i].id < keys[j].id
	})

	var issues []Issue
	for _, k := range keys {
		paths := byKey[k]
		sort.Strings(paths)
		issues = append(issues, Issue{
			Kind:      DuplicateEdge,
			ItemID:    k.id,
			ActualDir: k.dir,
			Paths:     paths,
		})
	}
	return issues
}

// checkAliasConflicts flags canonical keys claimed by more than one item,
// whether the conflict shows up in frontmatter aliases, in alias-index
// entries, or both. One issue per conflicting key.
func checkAliasConflicts(items map[string]*item.Record, aliases []index.ScannedAlias) []Issue {
	claimants := make(map[string]map[string]bool)
	claim := func(key, id string) {
		if claimants[key] == nil {
			claimants[key] = make(map[string]bool)
		}
		claimants[key][id] = true
	}

	for id, it := range items {
		if it.HasAlias() {
			claim(item.CanonicalKey(it.Alias), id)
		}
	}
	for _, a := range aliases {
		claim(a.Record.CanonicalKey, a.Record.ItemID)
	}

	var conflicted []string
	for key, ids := range claimants {
		if len(ids) > 1 {
			conflicted = append(conflicted, key)
		}
	}
	sort.Strings(conflicted)

	var issues []Issue
	for _, key := range conflicted {
		ids := make([]string, 0, len(claimants[key]))
		for id := range claimants[key] {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		issues = append(issues, Issue{
			Kind:         AliasConflict,
			CanonicalKey: key,
			ItemIDs:      ids,
		})
	}
	return issues
}

// checkItemEdges verifies that every item has exactly the edge the graph
// index should hold for it: present at the expected directory, carrying the
// item's current rank, with no copies lingering under other directories.
func checkItemEdges(items map[string]*item.Record, edges []index.ScannedEdge) []Issue {
	byItem := make(map[string][]index.ScannedEdge)
	for _, e := range edges {
		byItem[e.Edge.To] = append(byItem[e.Edge.To], e)
	}

	var issues []Issue
	for _, id := range sortedIDs(items) {
		it := items[id]
		expected := it.Directory.DirPath()

		var atExpected *index.ScannedEdge
		var elsewhere []index.ScannedEdge
		for i := range byItem[id] {
			e := byItem[id][i]
			if e.Dir == expected {
				if atExpected == nil {
					atExpected = &byItem[id][i]
				}
			} else {
				elsewhere = append(elsewhere, e)
			}
		}

		switch {
		case atExpected != nil:
			if atExpected.Edge.Rank != string(it.Rank) {
				issues = append(issues, Issue{
					Kind:     EdgeItemMismatch,
					ItemID:   id,
					Path:     atExpected.Path,
					EdgeRank: atExpected.Edge.Rank,
					ItemRank: string(it.Rank),
				})
			}
		case len(elsewhere) == 0:
			issues = append(issues, Issue{
				Kind:        MissingEdge,
				ItemID:      id,
				ExpectedDir: expected,
			})
		}

		// Copies at wrong directories are drift whether or not the
		// expected edge also exists; a leftover from before a move is
		// the typical case. One issue per stray copy.
		sort.Slice(elsewhere, func(i, j int) bool { return elsewhere[i].Dir < elsewhere[j].Dir })
		for _, e := range elsewhere {
			issues = append(issues, Issue{
				Kind:        EdgeLocationMismatch,
				ItemID:      id,
				Path:        e.Path,
				ExpectedDir: expected,
				ActualDir:   e.Dir,
			})
		}
	}
	return issues
}

// checkOrphanedAliases flags alias entries pointing at a missing item, an
// item with no alias, or an item whose alias no longer canonicalizes to the
// entry's key.
func checkOrphanedAliases(items map[string]*item.Record, aliases []index.ScannedAlias) []Issue {
	var issues []Issue
	for _, a := range aliases {
		rec := a.Record
		orphaned := false
		it, ok := items[rec.ItemID]
		switch {
		case !ok:
			orphaned = true
		case !it.HasAlias():
			orphaned = true
		case item.CanonicalKey(it.Alias) != rec.CanonicalKey:
			orphaned = true
		}
		if orphaned {
			issues = append(issues, Issue{
				Kind:         OrphanedAliasIndex,
				ItemID:       rec.ItemID,
				CanonicalKey: rec.CanonicalKey,
				Path:         a.Path,
			})
		}
	}
	return issues
}

// checkMissingAliases flags items declaring an alias with no live index
// entry for it.
func checkMissingAliases(items map[string]*item.Record, aliases []index.ScannedAlias) []Issue {
	indexed := make(map[string]map[string]bool) // canonicalKey -> item ids
	for _, a := range aliases {
		key := a.Record.CanonicalKey
		if indexed[key] == nil {
			indexed[key] = make(map[string]bool)
		}
		indexed[key][a.Record.ItemID] = true
	}

	var issues []Issue
	for _, id := range sortedIDs(items) {
		it := items[id]
		if !it.HasAlias() {
			continue
		}
		key := item.CanonicalKey(it.Alias)
		if !indexed[key][id] {
			issues = append(issues, Issue{
				Kind:         MissingAliasIndex,
				ItemID:       id,
				Alias:        it.Alias,
				CanonicalKey: key,
			})
		}
	}
	return issues
}

func sortedIDs(items map[string]*item.Record) []string {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
