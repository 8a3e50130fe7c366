package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFileReplaces(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.json")
	if err := SafeWriteFile(p, []byte("one")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := SafeWriteFile(p, []byte("two")); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "two" {
		t.Fatalf("content = %q", b)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestFindSessionRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := EnsureDir(nested); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, SessionFileName), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := FindSessionRoot(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != root {
		t.Fatalf("root = %q, want %q", got, root)
	}
	file := filepath.Join(nested, "chart.png")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, err := FindSessionRoot(file); err != nil || got != root {
		t.Fatalf("from file: root = %q, err = %v", got, err)
	}
	if _, err := FindSessionRoot(t.TempDir()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession without session.json, got %v", err)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{\n  \"a\": 1\n}" {
		t.Fatalf("unexpected: %q", b)
	}
}
