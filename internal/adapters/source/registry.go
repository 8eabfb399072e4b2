package source

import (
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/zerr"
)

// Map resolves registry references from the resolution graph to configured
// package sources. It is populated before installation starts and read-only
// afterwards, so concurrent Source calls need no locking.
type Map struct {
	sources map[string]ports.PackageSource
}

// NewMap creates an empty source map.
func NewMap() *Map {
	return &Map{sources: make(map[string]ports.PackageSource)}
}

// Register binds a registry reference to a source, replacing any previous
// binding.
func (m *Map) Register(registry string, src ports.PackageSource) {
	m.sources[registry] = src
}

// Source returns the source bound to a registry reference.
func (m *Map) Source(registry string) (ports.PackageSource, error) {
	src, ok := m.sources[registry]
	if !ok {
		return nil, zerr.With(domain.ErrUnknownRegistry, "registry", registry)
	}
	return src, nil
}
