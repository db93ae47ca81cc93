package registry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hoist/hoist/internal/binary"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := New(filepath.Join(t.TempDir(), "registry.yaml"))
	if err := r.Setup(); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestSetup_CreatesEmptyRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "registry.yaml")
	r := New(path)
	if err := r.Setup(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected registry file to exist: %v", err)
	}
	if err := r.Load(); err != nil {
		t.Fatalf("Loading a fresh registry failed: %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("Expected empty registry, got %d records", r.Len())
	}
}

func TestSetup_PreservesExisting(t *testing.T) {
	r := newTestRegistry(t)
	r.Insert(binary.New("binary1", "/p/target/release/binary1"))
	if err := r.Save(); err != nil {
		t.Fatal(err)
	}
	if err := r.Setup(); err != nil {
		t.Fatal(err)
	}
	if err := r.Load(); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 1 {
		t.Errorf("Setup must never erase an existing registry; got %d records", r.Len())
	}
}

func TestLoad_MissingFileIsError(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "registry.yaml"))
	if err := r.Load(); err == nil {
		t.Fatal("Expected an error loading a missing registry file")
	}
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	if err := os.WriteFile(path, []byte("binaries: [not: valid: yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := New(path)
	err := r.Load()
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Expected ErrCorrupt, got %v", err)
	}
	if !strings.Contains(err.Error(), "yaml") {
		t.Errorf("Expected the parse reason in the error, got %q", err)
	}
}

func TestInsert_Dedup(t *testing.T) {
	r := newTestRegistry(t)
	a := binary.New("binary1", "/p1/target/release/binary1")
	sameName := binary.New("binary1", "/p2/target/release/binary1")

	r.Insert(a)
	r.Insert(a)
	r.Insert(a)
	r.Insert(sameName)

	if r.Len() != 2 {
		t.Errorf("Expected 2 distinct records, got %d", r.Len())
	}
}

func TestInsert_SameNameDifferentLocationCoexist(t *testing.T) {
	r := newTestRegistry(t)
	r.Insert(binary.New("foo", "/p1/target/release/foo"))
	r.Insert(binary.New("foo", "/p2/target/release/foo"))

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("Expected both same-name records, got %v", list)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	r := newTestRegistry(t)
	r.Insert(binary.New("binary2", "/p/target/release/binary2"))
	r.Insert(binary.New("binary1", "/p/target/release/binary1"))
	if err := r.Save(); err != nil {
		t.Fatal(err)
	}

	if err := r.Load(); err != nil {
		t.Fatal(err)
	}
	list := r.List()
	if len(list) != 2 {
		t.Fatalf("Expected 2 records after reload, got %d", len(list))
	}
	if list[0].Name != "binary1" || list[1].Name != "binary2" {
		t.Errorf("Expected sorted records, got %v", list)
	}
}

func TestSave_ByteStable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")
	r := New(path)
	if err := r.Setup(); err != nil {
		t.Fatal(err)
	}
	r.Insert(binary.New("b", "/x/b"))
	r.Insert(binary.New("a", "/x/a"))
	if err := r.Save(); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// Reinsert in the opposite order; serialization must not depend on it.
	r2 := New(path)
	if err := r2.Load(); err != nil {
		t.Fatal(err)
	}
	r2.Insert(binary.New("a", "/x/a"))
	r2.Insert(binary.New("b", "/x/b"))
	if err := r2.Save(); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Errorf("Expected byte-stable serialization:\n%s\nvs\n%s", first, second)
	}
}

func TestEmptyRegistry_OmitsBinariesKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")
	r := New(path)
	if err := r.Setup(); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "binaries") {
		t.Errorf("Expected the binaries key omitted when empty, got %q", raw)
	}

	if err := r.Load(); err != nil {
		t.Fatalf("Empty document failed to round-trip: %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("Expected empty registry after round-trip, got %d records", r.Len())
	}
}

func TestReset(t *testing.T) {
	r := newTestRegistry(t)
	r.Insert(binary.New("binary1", "/p/target/release/binary1"))
	if err := r.Save(); err != nil {
		t.Fatal(err)
	}

	if err := r.Reset(); err != nil {
		t.Fatal(err)
	}
	if err := r.Load(); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 0 {
		t.Errorf("Expected empty registry after reset, got %d records", r.Len())
	}
}

func TestFind(t *testing.T) {
	r := newTestRegistry(t)
	want := binary.New("binary1", "/p/target/release/binary1")
	r.Insert(want)

	got, err := r.Find("binary1")
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if _, err := r.Find("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFind_AmbiguousReturnsOne(t *testing.T) {
	r := newTestRegistry(t)
	r.Insert(binary.New("foo", "/p1/foo"))
	r.Insert(binary.New("foo", "/p2/foo"))

	got, err := r.Find("foo")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "foo" {
		t.Errorf("Expected some record named foo, got %v", got)
	}
}
