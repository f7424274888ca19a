package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/kecbigmt/mm-sub003/internal/blobstore"
	"github.com/kecbigmt/mm-sub003/internal/item"
)

// ScannedEdge is one on-disk edge entry together with where it was found.
// If the entry could not be read or fails validation, Err is set and Edge
// is zero; scanning always continues past bad entries.
type ScannedEdge struct {
	Path string // workspace-relative blob path
	Dir  string // graph-root-relative containing directory
	Edge EdgeRecord
	Err  error
}

// ScannedAlias is one on-disk alias entry together with where it was found.
type ScannedAlias struct {
	Path   string
	Record AliasRecord
	Err    error
}

// ScanEdges reads every edge entry in the published graph index. An absent
// index yields an empty scan. Each call walks the tree afresh.
func ScanEdges(ctx context.Context, s blobstore.Store) ([]ScannedEdge, error) {
	files, err := blobstore.WalkFiles(ctx, s, GraphDir)
	if err != nil {
		return nil, fmt.Errorf("scanning graph index: %w", err)
	}
	sort.Strings(files)

	var edges []ScannedEdge
	for _, rel := range files {
		if !strings.HasSuffix(rel, EdgeFileSuffix) {
			continue
		}
		scanned := ScannedEdge{
			Path: GraphDir + "/" + rel,
			Dir:  path.Dir(rel),
		}
		data, err := s.Read(ctx, scanned.Path)
		if err != nil {
			scanned.Err = err
			edges = append(edges, scanned)
			continue
		}
		var rec EdgeRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			scanned.Err = fmt.Errorf("malformed edge file: %w", err)
			edges = append(edges, scanned)
			continue
		}
		if err := validateEdge(rec); err != nil {
			scanned.Err = err
			edges = append(edges, scanned)
			continue
		}
		scanned.Edge = rec
		edges = append(edges, scanned)
	}
	return edges, nil
}

// validateEdge checks the record itself. The file name is deliberately not
// cross-checked against the to field: an edge's identity is its to field,
// and a misnamed copy shows up downstream as a duplicate rather than being
// silently dropped here.
func validateEdge(rec EdgeRecord) error {
	if rec.Schema != EdgeSchema {
		return fmt.Errorf("unexpected edge schema %q", rec.Schema)
	}
	if rec.To == "" {
		return fmt.Errorf("edge file missing to field")
	}
	if _, err := item.ParseRank(rec.Rank); err != nil {
		return err
	}
	return nil
}

// ScanAliases reads every alias entry in the published alias index. An
// absent index yields an empty scan.
func ScanAliases(ctx context.Context, s blobstore.Store) ([]ScannedAlias, error) {
	files, err := blobstore.WalkFiles(ctx, s, AliasDir)
	if err != nil {
		return nil, fmt.Errorf("scanning alias index: %w", err)
	}
	sort.Strings(files)

	var aliases []ScannedAlias
	for _, rel := range files {
		if !strings.HasSuffix(rel, AliasFileSuffix) {
			continue
		}
		scanned := ScannedAlias{Path: AliasDir + "/" + rel}
		data, err := s.Read(ctx, scanned.Path)
		if err != nil {
			scanned.Err = err
			aliases = append(aliases, scanned)
			continue
		}
		var rec AliasRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			scanned.Err = fmt.Errorf("malformed alias file: %w", err)
			aliases = append(aliases, scanned)
			continue
		}
		if rec.Schema != AliasSchema {
			scanned.Err = fmt.Errorf("unexpected alias schema %q", rec.Schema)
			aliases = append(aliases, scanned)
			continue
		}
		if rec.ItemID == "" || rec.CanonicalKey == "" {
			scanned.Err = fmt.Errorf("alias file missing item_id or canonical_key")
			aliases = append(aliases, scanned)
			continue
		}
		scanned.Record = rec
		aliases = append(aliases, scanned)
	}
	return aliases, nil
}

// ReadDirectory returns the ordered item references under one directory of
// the published graph index: the query path behind ls-style listings. A
// directory with no published edges yields an empty listing.
func ReadDirectory(ctx context.Context, s blobstore.Store, dir string) ([]EdgeRecord, error) {
	entries, err := s.List(ctx, GraphDir+"/"+dir)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	var edges []EdgeData
	byID := make(map[string]EdgeRecord)
	for _, e := range entries {
		if e.IsDir || !strings.HasSuffix(e.Name, EdgeFileSuffix) {
			continue
		}
		data, err := s.Read(ctx, GraphDir+"/"+dir+"/"+e.Name)
		if err != nil {
			return nil, err
		}
		var rec EdgeRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("malformed edge file %s: %w", e.Name, err)
		}
		if _, seen := byID[rec.To]; seen {
			// Two files claiming the same item in one directory; keep
			// the first in name order and leave the conflict to the
			// integrity checks. The listing must not repeat rows.
			continue
		}
		edges = append(edges, EdgeData{ItemID: rec.To, Rank: item.Rank(rec.Rank)})
		byID[rec.To] = rec
	}
	SortSiblings(edges)
	out := make([]EdgeRecord, len(edges))
	for i, e := range edges {
		out[i] = byID[e.ItemID]
	}
	return out, nil
}
