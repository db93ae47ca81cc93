// Package registry persists the set of known binaries as a YAML document
// under the hoist state directory. Records are unique by their full
// (name, location) identity; two records may share a name.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hoist/hoist/internal/binary"
)

var (
	// ErrCorrupt indicates the registry file exists but fails to parse.
	// There is no auto-repair; the operator inspects or deletes the file.
	ErrCorrupt = errors.New("registry file is corrupt")
	// ErrNotFound indicates no registered binary matches the name.
	ErrNotFound = errors.New("binary not found in registry")
)

// Registry manages the persisted collection of binary records.
type Registry struct {
	filePath string
	data     *Data
	mu       sync.RWMutex
}

// New creates a registry handle for the given file path. Nothing is read
// until Load; nothing is written until Save.
func New(filePath string) *Registry {
	return &Registry{filePath: filePath, data: &Data{}}
}

// Setup creates the state directory and an empty registry file when either
// is missing. It never touches an existing registry.
func (r *Registry) Setup() error {
	dir := filepath.Dir(r.filePath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if _, err := os.Stat(r.filePath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat registry: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = &Data{}
	return r.saveNoLock()
}

// Load reads the registry document from disk, replacing the in-memory
// state. A missing file is an error; Setup must have run first.
func (r *Registry) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := os.ReadFile(r.filePath)
	if err != nil {
		return fmt.Errorf("read registry: %w", err)
	}

	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	r.data = &data
	return nil
}

// Insert adds a record unless an identical (name, location) record is
// already present. This is the dedup primitive that makes repeated
// installs converge.
func (r *Registry) Insert(b binary.Binary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.data.Binaries {
		if existing == b {
			return
		}
	}
	r.data.Binaries = append(r.data.Binaries, b)
}

// Save serializes the registry and atomically replaces the file via a
// temp file, fsync and rename. Entries are sorted by (name, location) so
// repeated saves of the same set are byte-identical.
func (r *Registry) Save() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveNoLock()
}

// saveNoLock persists without locking (caller must hold the lock).
func (r *Registry) saveNoLock() error {
	dir := filepath.Dir(r.filePath)

	sort.Slice(r.data.Binaries, func(i, j int) bool {
		if r.data.Binaries[i].Name == r.data.Binaries[j].Name {
			return r.data.Binaries[i].Location < r.data.Binaries[j].Location
		}
		return r.data.Binaries[i].Name < r.data.Binaries[j].Name
	})

	raw, err := yaml.Marshal(r.data)
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}

	f, err := os.CreateTemp(dir, ".registry-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	// Best-effort cleanup if we fail
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(raw); err != nil {
		_ = f.Close()
		return fmt.Errorf("write registry: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("fsync registry: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close registry file: %w", err)
	}

	if err := os.Rename(tmp, r.filePath); err != nil {
		return fmt.Errorf("replace registry: %w", err)
	}

	// Ensure directory metadata is persisted
	if dirf, err := os.Open(dir); err == nil {
		_ = dirf.Sync()
		_ = dirf.Close()
	}

	return nil
}

// Reset replaces the registry with an empty one and persists it.
func (r *Registry) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = &Data{}
	return r.saveNoLock()
}

// Find returns a record matching the name exactly. When several records
// share the name an arbitrary one is returned; disambiguation is the
// hoist engine's concern, not the store's.
func (r *Registry) Find(name string) (binary.Binary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.data.Binaries {
		if b.Name == name {
			return b, nil
		}
	}
	return binary.Binary{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// List returns all records sorted by name then location.
func (r *Registry) List() []binary.Binary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	binaries := make([]binary.Binary, len(r.data.Binaries))
	copy(binaries, r.data.Binaries)
	sort.Slice(binaries, func(i, j int) bool {
		if binaries[i].Name == binaries[j].Name {
			return binaries[i].Location < binaries[j].Location
		}
		return binaries[i].Name < binaries[j].Name
	})
	return binaries
}

// Len reports the number of records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data.Binaries)
}
