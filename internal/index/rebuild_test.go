package index

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kecbigmt/mm-sub003/internal/blobstore"
	"github.com/kecbigmt/mm-sub003/internal/item"
)

func mustPlacement(t *testing.T, raw string) item.Placement {
	t.Helper()
	p, err := item.ParsePlacement(raw)
	if err != nil {
		t.Fatalf("ParsePlacement(%q): %v", raw, err)
	}
	return p
}

func record(t *testing.T, id, dir, rank string) *item.Record {
	t.Helper()
	return &item.Record{
		ID:        id,
		Directory: mustPlacement(t, dir),
		Rank:      item.Rank(rank),
		CreatedAt: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestRebuildScenario(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	r := NewRebuilder(store, SHA256Hasher{})

	items := []*item.Record{
		record(t, "id1", "2025-01-15", "a"),
		record(t, "id2", "2025-01-15", "b"),
	}

	result, err := r.Rebuild(ctx, items)
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	got := result.GraphEdges["dates/2025-01-15"]
	if len(got) != 2 || got[0] != "id1" || got[1] != "id2" {
		t.Errorf("GraphEdges: got %v, want [id1 id2]", got)
	}
	if result.EdgesCreated != 2 {
		t.Errorf("EdgesCreated: got %d, want 2", result.EdgesCreated)
	}
	if result.AliasesCreated != 0 {
		t.Errorf("AliasesCreated: got %d, want 0", result.AliasesCreated)
	}
	if result.ItemsProcessed != 2 {
		t.Errorf("ItemsProcessed: got %d, want 2", result.ItemsProcessed)
	}

	// Exactly one edge file per item at the expected path, with the
	// item's rank.
	for _, tc := range []struct{ id, rank string }{{"id1", "a"}, {"id2", "b"}} {
		data, err := store.Read(ctx, GraphDir+"/"+EdgePath("dates/2025-01-15", tc.id))
		if err != nil {
			t.Fatalf("Read edge for %s: %v", tc.id, err)
		}
		if !bytes.Contains(data, []byte(`"rank": "`+tc.rank+`"`)) {
			t.Errorf("edge for %s missing rank %q: %s", tc.id, tc.rank, data)
		}
	}
}

func TestRebuildIdempotent(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	r := NewRebuilder(store, SHA256Hasher{})

	items := []*item.Record{
		record(t, "id1", "2025-01-15", "a"),
		record(t, "id2", "2025-01-15/1", "b"),
		record(t, "id3", "permanent", "c"),
	}
	items[2].Alias = "Book"

	snapshot := func() map[string][]byte {
		tree := make(map[string][]byte)
		for _, root := range []string{GraphStagingDir, AliasStagingDir} {
			files, err := blobstore.WalkFiles(ctx, store, root)
			if err != nil {
				t.Fatalf("WalkFiles %s: %v", root, err)
			}
			for _, f := range files {
				data, err := store.Read(ctx, root+"/"+f)
				if err != nil {
					t.Fatalf("Read %s: %v", f, err)
				}
				tree[root+"/"+f] = data
			}
		}
		return tree
	}

	if err := r.Stage(ctx, items); err != nil {
		t.Fatalf("first Stage failed: %v", err)
	}
	first := snapshot()

	if err := r.Stage(ctx, items); err != nil {
		t.Fatalf("second Stage failed: %v", err)
	}
	second := snapshot()

	if len(first) == 0 {
		t.Fatal("staged tree is empty")
	}
	if len(first) != len(second) {
		t.Fatalf("staged trees differ in size: %d vs %d", len(first), len(second))
	}
	for path, data := range first {
		if !bytes.Equal(data, second[path]) {
			t.Errorf("staged file %s differs between rebuilds", path)
		}
	}
}

func TestRebuildEmptyItemSet(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	r := NewRebuilder(store, SHA256Hasher{})

	result, err := r.Rebuild(ctx, nil)
	if err != nil {
		t.Fatalf("Rebuild of empty set failed: %v", err)
	}
	if result.EdgesCreated != 0 || result.AliasesCreated != 0 {
		t.Errorf("empty rebuild created %d edges, %d aliases", result.EdgesCreated, result.AliasesCreated)
	}

	edges, err := ScanEdges(ctx, store)
	if err != nil {
		t.Fatalf("ScanEdges: %v", err)
	}
	if len(edges) != 0 {
		t.Errorf("published graph should be empty, got %d edges", len(edges))
	}
}

// failingStore fails any write whose path contains a marker substring.
type failingStore struct {
	blobstore.Store
	failOn string
}

func (f *failingStore) Write(ctx context.Context, path string, data []byte) error {
	if strings.Contains(path, f.failOn) {
		return errors.New("disk full")
	}
	return f.Store.Write(ctx, path, data)
}

func TestRebuildAbortLeavesPublishedUntouched(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	good := NewRebuilder(store, SHA256Hasher{})
	if _, err := good.Rebuild(ctx, []*item.Record{record(t, "id1", "2025-01-15", "a")}); err != nil {
		t.Fatalf("initial Rebuild failed: %v", err)
	}

	bad := NewRebuilder(&failingStore{Store: store, failOn: "id2"}, SHA256Hasher{})
	_, err := bad.Rebuild(ctx, []*item.Record{
		record(t, "id1", "2025-01-16", "a"),
		record(t, "id2", "2025-01-16", "b"),
	})
	if err == nil {
		t.Fatal("Rebuild should have failed")
	}

	// The previously published index is intact.
	if _, err := store.Read(ctx, GraphDir+"/"+EdgePath("dates/2025-01-15", "id1")); err != nil {
		t.Errorf("published edge lost after aborted rebuild: %v", err)
	}
	if _, err := store.Read(ctx, GraphDir+"/"+EdgePath("dates/2025-01-16", "id1")); err == nil {
		t.Error("aborted rebuild leaked staged content into the published tree")
	}
}

func TestRebuildDiscardsStaleStaging(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	// Leftover staging from an aborted rebuild.
	if err := store.Write(ctx, GraphStagingDir+"/dates/1999-01-01/stale.edge.json", []byte("{}")); err != nil {
		t.Fatalf("Write stale staging: %v", err)
	}

	r := NewRebuilder(store, SHA256Hasher{})
	if _, err := r.Rebuild(ctx, []*item.Record{record(t, "id1", "2025-01-15", "a")}); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	if _, err := store.Read(ctx, GraphDir+"/dates/1999-01-01/stale.edge.json"); err == nil {
		t.Error("stale staging content was published")
	}
}
