// Package engine composes the project scanner, the registry store and the
// history log into the install/hoist/find/list/nuke operations. The engine
// holds no persistent state of its own; the registry file is the only
// durable truth, loaded fully and rewritten fully per operation.
package engine

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/hoist/hoist/internal/binary"
	"github.com/hoist/hoist/internal/config"
	"github.com/hoist/hoist/internal/history"
	"github.com/hoist/hoist/internal/project"
	"github.com/hoist/hoist/internal/registry"
)

// Engine runs registry operations against an explicit configuration.
type Engine struct {
	cfg    *config.Config
	logger *log.Logger
	hist   *history.Store
}

// New constructs an engine. The history log is opened best-effort; when it
// cannot be opened the engine runs without it.
func New(cfg *config.Config, logger *log.Logger) *Engine {
	e := &Engine{cfg: cfg, logger: logger}
	if cfg.History {
		hist, err := history.Open(cfg.HistoryPath())
		if err != nil {
			logger.Warn("history log unavailable", "err", err)
		} else {
			e.hist = hist
		}
	}
	return e
}

// Close releases the history log, if open.
func (e *Engine) Close() error {
	if e.hist == nil {
		return nil
	}
	return e.hist.Close()
}

func (e *Engine) record(action, name, location string) {
	if e.hist == nil {
		return
	}
	if err := e.hist.Record(action, name, location); err != nil {
		e.logger.Warn("failed to record history event", "action", action, "err", err)
	}
}

// openRegistry ensures the registry storage exists and loads it.
func (e *Engine) openRegistry() (*registry.Registry, error) {
	reg := registry.New(e.cfg.RegistryPath())
	if err := reg.Setup(); err != nil {
		return nil, err
	}
	if err := reg.Load(); err != nil {
		return nil, err
	}
	return reg, nil
}

// InstallResult reports what an install did.
type InstallResult struct {
	Discovered []binary.Binary
	Saved      bool
}

// Install discovers binaries under root's build output and merges them
// into the registry. With explicit names, every name must match a
// discovered binary or the whole call fails. Discovering nothing is a
// warning and leaves the registry untouched. A project scan failure fails
// the install outright rather than silently installing nothing.
func (e *Engine) Install(root string, names []string) (*InstallResult, error) {
	reg, err := e.openRegistry()
	if err != nil {
		return nil, err
	}

	proj, err := project.New(root, e.cfg.TargetDir, e.logger)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		err = proj.Load()
	} else {
		err = proj.SetBinaries(names)
	}
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", proj.Root, err)
	}

	records, err := proj.Records()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		e.logger.Warn("no binaries found in the build output directory", "root", proj.Root)
		return &InstallResult{}, nil
	}

	for _, rec := range records {
		reg.Insert(rec)
	}
	if err := reg.Save(); err != nil {
		return nil, err
	}
	for _, rec := range records {
		e.record("install", rec.Name, rec.Location)
	}
	return &InstallResult{Discovered: records, Saved: true}, nil
}

// Plan is the outcome of resolving a hoist request against the candidate
// pool. Names that matched exactly one candidate are in Resolved; names
// that matched several are in Conflicts, awaiting a caller-side selection.
// With no requested names the engine does not guess: NeedsSelection is set
// and Candidates holds the full pool.
type Plan struct {
	Resolved       []binary.Binary
	Conflicts      map[string][]binary.Binary
	Candidates     []binary.Binary
	NeedsSelection bool
}

// HasConflicts reports whether any requested name was ambiguous.
func (p *Plan) HasConflicts() bool { return len(p.Conflicts) > 0 }

// PlanHoist gathers candidates and partitions the requested names. When
// none of the requested names are registered, the current directory's
// project is scanned so a freshly built binary can be hoisted without a
// prior install.
func (e *Engine) PlanHoist(names []string) (*Plan, error) {
	reg, err := e.openRegistry()
	if err != nil {
		return nil, err
	}
	candidates := reg.List()

	if len(names) > 0 && !anyNameRegistered(candidates, names) {
		proj, err := project.New("", e.cfg.TargetDir, e.logger)
		if err != nil {
			return nil, err
		}
		if err := proj.Load(); err != nil {
			return nil, err
		}
		records, err := proj.Records()
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			if !containsRecord(candidates, rec) {
				candidates = append(candidates, rec)
			}
		}
	}

	plan := &Plan{Candidates: candidates}
	if len(names) == 0 {
		plan.NeedsSelection = true
		return plan, nil
	}

	for _, name := range names {
		var matches []binary.Binary
		for _, c := range candidates {
			if c.Name == name {
				matches = append(matches, c)
			}
		}
		switch len(matches) {
		case 0:
			return nil, fmt.Errorf("%w: %s", registry.ErrNotFound, name)
		case 1:
			plan.Resolved = append(plan.Resolved, matches[0])
		default:
			if plan.Conflicts == nil {
				plan.Conflicts = make(map[string][]binary.Binary)
			}
			plan.Conflicts[name] = matches
		}
	}
	return plan, nil
}

// Copy copies each record into the current working directory under its
// logical name, preserving permission bits. The first failure aborts the
// whole call.
func (e *Engine) Copy(records []binary.Binary) error {
	for _, rec := range records {
		if err := rec.CopyToCurrentDir(); err != nil {
			return fmt.Errorf("hoist %s: %w", rec.Name, err)
		}
		e.logger.Info("hoisted", "name", rec.Name, "from", rec.Location)
		e.record("hoist", rec.Name, rec.Location)
	}
	return nil
}

// Find looks up a single record by name. Ambiguity is permitted here; an
// arbitrary match wins.
func (e *Engine) Find(name string) (binary.Binary, error) {
	reg, err := e.openRegistry()
	if err != nil {
		return binary.Binary{}, err
	}
	return reg.Find(name)
}

// List returns every registered record.
func (e *Engine) List() ([]binary.Binary, error) {
	reg, err := e.openRegistry()
	if err != nil {
		return nil, err
	}
	return reg.List(), nil
}

// Nuke resets the registry to empty.
func (e *Engine) Nuke() error {
	reg := registry.New(e.cfg.RegistryPath())
	if err := reg.Setup(); err != nil {
		return err
	}
	if err := reg.Reset(); err != nil {
		return err
	}
	e.record("nuke", "", "")
	return nil
}

// Recent returns the newest history events, or nothing when the history
// log is disabled or unavailable.
func (e *Engine) Recent(limit int) ([]history.Event, error) {
	if e.hist == nil {
		return nil, errors.New("history log is not available")
	}
	return e.hist.Recent(limit)
}

func anyNameRegistered(candidates []binary.Binary, names []string) bool {
	for _, c := range candidates {
		for _, n := range names {
			if c.Name == n {
				return true
			}
		}
	}
	return false
}

func containsRecord(records []binary.Binary, rec binary.Binary) bool {
	for _, r := range records {
		if r == rec {
			return true
		}
	}
	return false
}
