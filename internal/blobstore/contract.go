package blobstore

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

// RunContractTests runs the full contract test suite against a Store
// implementation. Each engine should call this with its own factory function
// to ensure consistent behavior across implementations.
func RunContractTests(t *testing.T, factory func() Store) {
	t.Run("WriteRead", func(t *testing.T) { testWriteRead(t, factory()) })
	t.Run("List", func(t *testing.T) { testList(t, factory()) })
	t.Run("Remove", func(t *testing.T) { testRemove(t, factory()) })
	t.Run("EnsureDir", func(t *testing.T) { testEnsureDir(t, factory()) })
	t.Run("ReplaceDir", func(t *testing.T) { testReplaceDir(t, factory()) })
	t.Run("WalkFiles", func(t *testing.T) { testWalkFiles(t, factory()) })
}

func testWriteRead(t *testing.T, s Store) {
	ctx := context.Background()

	// Read of a missing blob returns ErrNotFound
	_, err := s.Read(ctx, "missing/blob.json")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Read missing: got %v, want ErrNotFound", err)
	}

	// Write creates parents as needed
	want := []byte(`{"v":1}`)
	if err := s.Write(ctx, "a/b/c.json", want); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := s.Read(ctx, "a/b/c.json")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Read: got %q, want %q", got, want)
	}

	// Overwrite replaces content
	want2 := []byte(`{"v":2}`)
	if err := s.Write(ctx, "a/b/c.json", want2); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}
	got, err = s.Read(ctx, "a/b/c.json")
	if err != nil {
		t.Fatalf("Read after overwrite failed: %v", err)
	}
	if !bytes.Equal(got, want2) {
		t.Errorf("Read after overwrite: got %q, want %q", got, want2)
	}
}

func testList(t *testing.T, s Store) {
	ctx := context.Background()

	// Absent directory yields an empty listing, not an error
	entries, err := s.List(ctx, "nope")
	if err != nil {
		t.Fatalf("List absent dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List absent dir: got %d entries, want 0", len(entries))
	}

	for _, p := range []string{"dir/one.json", "dir/two.json", "dir/sub/three.json"} {
		if err := s.Write(ctx, p, []byte("{}")); err != nil {
			t.Fatalf("Write %s failed: %v", p, err)
		}
	}

	entries, err = s.List(ctx, "dir")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	files, dirs := 0, 0
	for _, e := range entries {
		if e.IsDir {
			dirs++
		} else {
			files++
		}
	}
	if files != 2 || dirs != 1 {
		t.Errorf("List: got %d files and %d dirs, want 2 and 1", files, dirs)
	}
}

func testRemove(t *testing.T, s Store) {
	ctx := context.Background()

	if err := s.Write(ctx, "r/a.json", []byte("{}")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.Write(ctx, "r/sub/b.json", []byte("{}")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	// Removing a file
	if err := s.Remove(ctx, "r/a.json", false); err != nil {
		t.Fatalf("Remove file failed: %v", err)
	}
	if _, err := s.Read(ctx, "r/a.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read removed file: got %v, want ErrNotFound", err)
	}

	// Removing a non-empty directory without recursive fails
	if err := s.Remove(ctx, "r", false); !errors.Is(err, ErrNotEmpty) {
		t.Errorf("Remove non-empty dir: got %v, want ErrNotEmpty", err)
	}

	// Recursive removal succeeds
	if err := s.Remove(ctx, "r", true); err != nil {
		t.Fatalf("Remove recursive failed: %v", err)
	}
	entries, err := s.List(ctx, "r")
	if err != nil {
		t.Fatalf("List after remove: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List after remove: got %d entries, want 0", len(entries))
	}

	// Removing an absent path is a no-op
	if err := s.Remove(ctx, "r", true); err != nil {
		t.Errorf("Remove absent path: got %v, want nil", err)
	}
}

func testEnsureDir(t *testing.T, s Store) {
	ctx := context.Background()

	if err := s.EnsureDir(ctx, "made/empty"); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	entries, err := s.List(ctx, "made")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || !entries[0].IsDir {
		t.Errorf("List after EnsureDir: got %v, want one directory", entries)
	}

	// Idempotent
	if err := s.EnsureDir(ctx, "made/empty"); err != nil {
		t.Errorf("EnsureDir second call failed: %v", err)
	}

	// An ensured-but-empty directory can be published
	if err := s.ReplaceDir(ctx, "made/empty", "made/pub"); err != nil {
		t.Errorf("ReplaceDir of empty dir failed: %v", err)
	}
}

func testReplaceDir(t *testing.T, s Store) {
	ctx := context.Background()

	if err := s.Write(ctx, "pub/old.json", []byte("old")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.Write(ctx, "stage/new.json", []byte("new")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if err := s.ReplaceDir(ctx, "stage", "pub"); err != nil {
		t.Fatalf("ReplaceDir failed: %v", err)
	}

	// New content is visible, old content is gone
	got, err := s.Read(ctx, "pub/new.json")
	if err != nil {
		t.Fatalf("Read after swap failed: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("Read after swap: got %q, want %q", got, "new")
	}
	if _, err := s.Read(ctx, "pub/old.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Old content after swap: got %v, want ErrNotFound", err)
	}

	// Staging location no longer exists
	entries, err := s.List(ctx, "stage")
	if err != nil {
		t.Fatalf("List staging after swap: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Staging after swap: got %d entries, want 0", len(entries))
	}

	// ReplaceDir into an absent published directory also works
	if err := s.Write(ctx, "stage2/first.json", []byte("first")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.ReplaceDir(ctx, "stage2", "fresh"); err != nil {
		t.Fatalf("ReplaceDir into absent dir failed: %v", err)
	}
	if _, err := s.Read(ctx, "fresh/first.json"); err != nil {
		t.Errorf("Read after swap into absent dir: %v", err)
	}
}

func testWalkFiles(t *testing.T, s Store) {
	ctx := context.Background()

	files, err := WalkFiles(ctx, s, "void")
	if err != nil {
		t.Fatalf("WalkFiles absent dir: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("WalkFiles absent dir: got %v, want none", files)
	}

	for _, p := range []string{"w/a.json", "w/x/b.json", "w/x/y/c.json"} {
		if err := s.Write(ctx, p, []byte("{}")); err != nil {
			t.Fatalf("Write %s failed: %v", p, err)
		}
	}
	files, err = WalkFiles(ctx, s, "w")
	if err != nil {
		t.Fatalf("WalkFiles failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("WalkFiles: got %d files (%v), want 3", len(files), files)
	}
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		seen[f] = true
	}
	for _, want := range []string{"a.json", "x/b.json", "x/y/c.json"} {
		if !seen[want] {
			t.Errorf("WalkFiles missing %q in %v", want, files)
		}
	}
}
