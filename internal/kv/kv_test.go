package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}
	if err := s.Save(ctx, "expenses", []byte(`[1,2]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "expenses", []byte(`[3]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := s.Load(ctx, "expenses")
	if err != nil || string(got) != `[3]` {
		t.Fatalf("load = %q (err=%v), want [3]", got, err)
	}
	if err := s.Remove(ctx, "expenses"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Load(ctx, "expenses"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
	if err := s.Remove(ctx, "expenses"); err != nil {
		t.Fatalf("removing absent key should be a no-op, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	m := NewMemory()
	buf := []byte("abc")
	_ = m.Save(context.Background(), "k", buf)
	buf[0] = 'z'
	got, _ := m.Load(context.Background(), "k")
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller buffer: %q", got)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFile(filepath.Join(t.TempDir(), "nested", "data"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	exerciseStore(t, s)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := s.Save(context.Background(), "budgets", []byte(`{}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "budgets.json" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	s, _ := NewFile(t.TempDir())
	if err := s.Save(context.Background(), "../escape", []byte(`1`)); err == nil {
		t.Fatalf("expected error for key with path separators")
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	var v map[string]int
	found, err := LoadJSON(ctx, s, "budgets", &v)
	if err != nil || found {
		t.Fatalf("expected not found without error, got found=%v err=%v", found, err)
	}

	if err := SaveJSON(ctx, s, "budgets", map[string]int{"a": 1}); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}
	found, err = LoadJSON(ctx, s, "budgets", &v)
	if err != nil || !found || v["a"] != 1 {
		t.Fatalf("LoadJSON = %v found=%v err=%v", v, found, err)
	}

	_ = s.Save(ctx, "broken", []byte(`{not json`))
	if _, err := LoadJSON(ctx, s, "broken", &v); err == nil {
		t.Fatalf("expected decode error")
	}
}
