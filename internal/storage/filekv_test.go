package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.yaml")

	first, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := first.SetItem("notes", `[{"id":1,"title":"a"}]`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = first.Close()

	second, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer second.Close()

	v, ok, err := second.GetItem("notes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || v != `[{"id":1,"title":"a"}]` {
		t.Fatalf("GetItem = %q, %v", v, ok)
	}
}

func TestFileStore_WritesYAMLDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	if err := s.SetItem("notes", "[]"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	content := string(raw)
	if !strings.Contains(content, "version:") || !strings.Contains(content, "items:") {
		t.Errorf("expected version and items keys, got:\n%s", content)
	}
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "store.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	for i := 0; i < 3; i++ {
		if err := s.SetItem("k", strings.Repeat("x", i)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	matches, _ := filepath.Glob(filepath.Join(dir, ".kv-*.tmp"))
	if len(matches) != 0 {
		t.Errorf("expected no temp files, found %v", matches)
	}
}

func TestFileStore_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	if err := os.WriteFile(path, []byte("items: [unclosed"), 0o600); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	if _, _, err := s.GetItem("notes"); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestNewFileStore_EmptyPath(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
