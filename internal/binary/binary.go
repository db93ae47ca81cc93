// Package binary defines the record type the registry stores: a logical
// binary name paired with the canonical path it was discovered at.
package binary

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Binary pairs a logical name with a canonical filesystem location.
// Identity is the full (name, location) pair; two records may share a name
// as long as their locations differ.
type Binary struct {
	Name     string `yaml:"name" json:"name"`
	Location string `yaml:"location" json:"location"`
}

// New creates a binary record. The location is expected to already be
// canonical (absolute, symlinks resolved); records are never re-validated
// after creation.
func New(name, location string) Binary {
	return Binary{Name: name, Location: location}
}

// CopyToDir copies the binary into dir under its logical name, carrying
// over the source file's permission bits.
func (b Binary) CopyToDir(dir string) error {
	src, err := os.Open(b.Location)
	if err != nil {
		return fmt.Errorf("open %s: %w", b.Location, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", b.Location, err)
	}

	dest := filepath.Join(dir, b.Name)
	dst, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("copy %s: %w", dest, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}
	// The destination may pre-exist with different permissions; OpenFile
	// only applies the mode on creation.
	if err := os.Chmod(dest, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod %s: %w", dest, err)
	}
	return nil
}

// CopyToCurrentDir copies the binary into the process working directory.
func (b Binary) CopyToCurrentDir() error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	return b.CopyToDir(cwd)
}
