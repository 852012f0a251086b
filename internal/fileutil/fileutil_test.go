package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteIfChangedTracked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "graph.json")

	changed, err := WriteIfChangedTracked(path, []byte("a"))
	if err != nil || !changed {
		t.Fatalf("expected first write to change file, got changed=%v err=%v", changed, err)
	}
	changed, err = WriteIfChangedTracked(path, []byte("a"))
	if err != nil || changed {
		t.Fatalf("expected identical write to be skipped, got changed=%v err=%v", changed, err)
	}
	changed, err = WriteIfChangedTracked(path, []byte("b"))
	if err != nil || !changed {
		t.Fatalf("expected new content to be written, got changed=%v err=%v", changed, err)
	}
}

func TestHashFileMatchesHashContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.py")
	if err := os.WriteFile(path, []byte("def main(): pass\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	fromFile, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	if fromFile != HashContent([]byte("def main(): pass\n")) {
		t.Fatalf("expected file and content hashes to agree")
	}
	if fromFile == HashContent([]byte("def main(): return\n")) {
		t.Fatalf("expected different content to hash differently")
	}
}

func TestSortedUnique(t *testing.T) {
	got := SortedUnique([]string{"b.rs", "a.py", "b.rs"})
	if len(got) != 2 || got[0] != "a.py" || got[1] != "b.rs" {
		t.Fatalf("unexpected result %v", got)
	}
}
