// Package project discovers executable build artifacts inside a project's
// build-output directory.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	git "github.com/go-git/go-git/v5"

	"github.com/hoist/hoist/internal/binary"
	"github.com/hoist/hoist/internal/executable"
)

var (
	// ErrBinaryNotFound indicates an explicitly requested name matched no
	// discovered binary.
	ErrBinaryNotFound = errors.New("binary not found in project")
	// ErrInvalidName indicates a discovered path has a base name that is
	// not representable as text.
	ErrInvalidName = errors.New("binary name is not valid text")
)

// Project wraps a project root and the executables discovered under its
// build-output directory. Binaries holds canonical absolute paths and is
// transient; it is fully replaced by every Load.
type Project struct {
	Root     string
	Binaries []string

	targetDir string
	logger    *log.Logger
}

// New constructs a project rooted at root. An empty root resolves to the
// enclosing git worktree when there is one, else the current directory.
// targetDir is the build-output directory name (conventionally "target").
func New(root, targetDir string, logger *log.Logger) (*Project, error) {
	resolved, err := ResolveRoot(root)
	if err != nil {
		return nil, err
	}
	return &Project{Root: resolved, targetDir: targetDir, logger: logger}, nil
}

// ResolveRoot resolves the effective project root. An explicit root is made
// absolute and used as-is. Otherwise the current directory is probed for an
// enclosing git worktree so discovery works from subdirectories; without
// one, the current directory itself is the root.
func ResolveRoot(explicit string) (string, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", fmt.Errorf("resolve project root %s: %w", explicit, err)
		}
		return abs, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve project root: %w", err)
	}
	if repo, err := git.PlainOpenWithOptions(cwd, &git.PlainOpenOptions{DetectDotGit: true}); err == nil {
		if wt, err := repo.Worktree(); err == nil {
			return wt.Filesystem.Root(), nil
		}
	}
	return cwd, nil
}

// Targets lists the immediate children of the build-output directory, one
// per build profile. A missing build-output directory yields an empty list,
// not an error. Unreadable entries are skipped with a warning.
func (p *Project) Targets() ([]string, error) {
	targetRoot := filepath.Join(p.Root, p.targetDir)
	entries, err := os.ReadDir(targetRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", targetRoot, err)
	}
	var targets []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		targets = append(targets, e.Name())
	}
	return targets, nil
}

// extractBinaries probes every entry of one target directory and returns
// the canonical paths of those that are executable. Entries that fail the
// probe or cannot be canonicalized are skipped with a warning.
func (p *Project) extractBinaries(targetDir string) ([]string, error) {
	entries, err := os.ReadDir(targetDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", targetDir, err)
	}
	var binaries []string
	for _, e := range entries {
		path := filepath.Join(targetDir, e.Name())
		if _, err := executable.Probe(path); err != nil {
			if !errors.Is(err, executable.ErrNotExecutable) {
				p.logger.Warn("skipping unreadable entry", "path", path, "err", err)
			}
			continue
		}
		canonical, err := filepath.EvalSymlinks(path)
		if err != nil {
			p.logger.Warn("skipping entry, cannot canonicalize", "path", path, "err", err)
			continue
		}
		if !filepath.IsAbs(canonical) {
			if canonical, err = filepath.Abs(canonical); err != nil {
				p.logger.Warn("skipping entry, cannot resolve", "path", path, "err", err)
				continue
			}
		}
		p.logger.Debug("found binary", "path", canonical)
		binaries = append(binaries, canonical)
	}
	return binaries, nil
}

// Load replaces the project's binaries with everything discovered across
// all targets. Calling it twice replaces rather than appends.
func (p *Project) Load() error {
	targets, err := p.Targets()
	if err != nil {
		return err
	}
	var binaries []string
	for _, target := range targets {
		bins, err := p.extractBinaries(filepath.Join(p.Root, p.targetDir, target))
		if err != nil {
			return err
		}
		binaries = append(binaries, bins...)
	}
	p.logger.Debug("project loaded", "root", p.Root, "binaries", len(binaries))
	p.Binaries = binaries
	return nil
}

// SetBinaries narrows the project to the requested names. It loads the
// full discovery set first, then matches each name by base name; any
// unmatched name fails the whole call, leaving nothing partially applied.
func (p *Project) SetBinaries(names []string) error {
	if err := p.Load(); err != nil {
		return err
	}
	matched := make([]string, 0, len(names))
	for _, name := range names {
		found := ""
		for _, b := range p.Binaries {
			if filepath.Base(b) == name {
				found = b
				break
			}
		}
		if found == "" {
			return fmt.Errorf("%w: %s", ErrBinaryNotFound, name)
		}
		matched = append(matched, found)
	}
	p.Binaries = matched
	return nil
}

// Records maps the discovered paths to registry records.
func (p *Project) Records() ([]binary.Binary, error) {
	records := make([]binary.Binary, 0, len(p.Binaries))
	for _, path := range p.Binaries {
		name := filepath.Base(path)
		if name == "" || name == "." || name == string(filepath.Separator) || !utf8.ValidString(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, path)
		}
		records = append(records, binary.New(name, path))
	}
	return records, nil
}
