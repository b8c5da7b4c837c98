package kv

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

// backends returns one of each Store implementation for shared tests.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	sq, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory sqlite: %v", err)
	}
	t.Cleanup(func() { sq.Close() })

	f, err := NewFile(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	return map[string]Store{
		"sqlite": sq,
		"file":   f,
		"map":    NewMap(),
	}
}

func TestPutGetDelete(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get("tasks"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("get before put: err = %v, want ErrNotFound", err)
			}

			if err := s.Put("tasks", []byte(`[{"id":"1"}]`)); err != nil {
				t.Fatalf("put: %v", err)
			}
			got, err := s.Get("tasks")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !bytes.Equal(got, []byte(`[{"id":"1"}]`)) {
				t.Fatalf("get = %q", got)
			}

			// Overwrite.
			if err := s.Put("tasks", []byte(`[]`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, _ = s.Get("tasks")
			if !bytes.Equal(got, []byte(`[]`)) {
				t.Fatalf("get after overwrite = %q", got)
			}

			if err := s.Delete("tasks"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := s.Get("tasks"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("get after delete: err = %v, want ErrNotFound", err)
			}

			// Deleting a missing key is not an error.
			if err := s.Delete("tasks"); err != nil {
				t.Fatalf("delete missing: %v", err)
			}
		})
	}
}

func TestSQLiteReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "moodo.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put("tasks", []byte("persisted")); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen — data survives and migration is idempotent.
	s2, err := NewSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	got, err := s2.Get("tasks")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "persisted" {
		t.Fatalf("got %q after reopen", got)
	}
}

func TestFileReopen(t *testing.T) {
	base := filepath.Join(t.TempDir(), "data")

	f, err := NewFile(base)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Put("tasks", []byte("persisted")); err != nil {
		t.Fatal(err)
	}
	f.Close()

	f2, err := NewFile(base)
	if err != nil {
		t.Fatal(err)
	}
	defer f2.Close()

	got, err := f2.Get("tasks")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "persisted" {
		t.Fatalf("got %q after reopen", got)
	}
}

func TestDefaultPaths(t *testing.T) {
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if p == "" {
		t.Fatal("empty db path")
	}

	p, err = DefaultFilePath()
	if err != nil {
		t.Fatal(err)
	}
	if p == "" {
		t.Fatal("empty file path")
	}
}
