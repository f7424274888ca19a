package filesystem

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	bsfs "github.com/kecbigmt/mm-sub003/internal/blobstore/filesystem"
	"github.com/kecbigmt/mm-sub003/internal/item"
	"github.com/kecbigmt/mm-sub003/internal/itemstore"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return New(bsfs.New(t.TempDir()))
}

func testRecord(t *testing.T, id string) *item.Record {
	t.Helper()
	placement, err := item.ParsePlacement("2025-01-15")
	if err != nil {
		t.Fatalf("ParsePlacement: %v", err)
	}
	return &item.Record{
		ID:        id,
		Directory: placement,
		Rank:      "m",
		CreatedAt: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rec := testRecord(t, "item-1")
	rec.Alias = "Book"
	body := "# Notes\n\nSome text.\n"

	data, err := encodeItem(rec, body)
	if err != nil {
		t.Fatalf("encodeItem failed: %v", err)
	}

	got, gotBody, err := decodeItem(data)
	if err != nil {
		t.Fatalf("decodeItem failed: %v", err)
	}
	if got.ID != rec.ID || got.Rank != rec.Rank || got.Alias != rec.Alias {
		t.Errorf("record drift: got %+v, want %+v", got, rec)
	}
	if !got.Directory.Equal(rec.Directory) {
		t.Errorf("directory: got %v, want %v", got.Directory, rec.Directory)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("created_at: got %v, want %v", got.CreatedAt, rec.CreatedAt)
	}
	if gotBody != body {
		t.Errorf("body: got %q, want %q", gotBody, body)
	}
}

func TestEncodeOmitsEmptyAlias(t *testing.T) {
	data, err := encodeItem(testRecord(t, "item-1"), "")
	if err != nil {
		t.Fatalf("encodeItem failed: %v", err)
	}
	if strings.Contains(string(data), "alias") {
		t.Errorf("empty alias should be omitted from frontmatter:\n%s", data)
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no fence", "just text\n"},
		{"unterminated frontmatter", "---\nid: a\n"},
		{"invalid yaml", "---\nid: [\n---\n"},
		{"missing id", "---\ndirectory: permanent\nrank: m\ncreated_at: 2025-01-15T10:30:00Z\n---\n"},
		{"bad placement", "---\nid: a\ndirectory: \"2025-13-99//\"\nrank: m\ncreated_at: 2025-01-15T10:30:00Z\n---\n"},
		{"bad rank", "---\nid: a\ndirectory: permanent\nrank: \"no spaces\"\ncreated_at: 2025-01-15T10:30:00Z\n---\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := decodeItem([]byte(tt.raw)); err == nil {
				t.Error("expected decode error, got nil")
			}
		})
	}
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	rec := testRecord(t, "item-1")
	id, err := store.Create(ctx, rec, "body text")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id != "item-1" {
		t.Errorf("id: got %q, want item-1", id)
	}

	got, err := store.Get(ctx, "item-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != "item-1" || got.Rank != "m" {
		t.Errorf("got %+v", got)
	}
}

func TestCreateGeneratesTimeSortableID(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	rec := testRecord(t, "")
	rec.CreatedAt = time.Time{}
	id, err := store.Create(ctx, rec, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("generated id %q is not a uuid: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("uuid version: got %d, want 7", parsed.Version())
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt should be filled in")
	}
}

func TestCreateRejectsExisting(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	if _, err := store.Create(ctx, testRecord(t, "item-1"), ""); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, testRecord(t, "item-1"), "")
	if !errors.Is(err, itemstore.ErrAlreadyExists) {
		t.Errorf("got %v, want ErrAlreadyExists", err)
	}
}

func TestGetNotFound(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	_, err := store.Get(ctx, "missing")
	if !errors.Is(err, itemstore.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestLoadSkipsMalformedFiles(t *testing.T) {
	ctx := context.Background()
	blobs := bsfs.New(t.TempDir())
	store := New(blobs)

	if _, err := store.Create(ctx, testRecord(t, "good"), ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := blobs.Write(ctx, "items/bad.md", []byte("not an item")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := blobs.Write(ctx, "items/notes.txt", []byte("ignored")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	records, scanErrs, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 1 || records["good"] == nil {
		t.Errorf("records: got %v", records)
	}
	if len(scanErrs) != 1 || scanErrs[0].Path != "items/bad.md" {
		t.Errorf("scan errors: got %v", scanErrs)
	}
}

func TestLoadFlagsIDFileNameMismatch(t *testing.T) {
	ctx := context.Background()
	blobs := bsfs.New(t.TempDir())
	store := New(blobs)

	data, err := encodeItem(testRecord(t, "other"), "")
	if err != nil {
		t.Fatalf("encodeItem failed: %v", err)
	}
	if err := blobs.Write(ctx, "items/item-1.md", data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	records, scanErrs, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("mismatched file should not load: %v", records)
	}
	if len(scanErrs) != 1 {
		t.Fatalf("scan errors: got %v", scanErrs)
	}
}

func TestLoadEmptyWorkspace(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	records, scanErrs, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 0 || len(scanErrs) != 0 {
		t.Errorf("got %v, %v", records, scanErrs)
	}
}
