package registry

import "github.com/hoist/hoist/internal/binary"

// Data is the on-disk shape of the registry document. The binaries key is
// omitted entirely when the registry is empty so a fresh registry file
// round-trips to an equivalent empty registry.
type Data struct {
	Binaries []binary.Binary `yaml:"binaries,omitempty"`
}
