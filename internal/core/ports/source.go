// Package ports defines the interfaces between the installation engine and
// its adapters.
package ports

import (
	"context"

	"go.trai.ch/parcel/internal/core/domain"
)

// PackageContents is an opaque fetched package blob capable of unpacking
// itself onto a filesystem path.
type PackageContents interface {
	// UnpackInto writes the package tree under dir.
	UnpackInto(dir string) error
	// Checksum returns the xxhash64 hex digest of the raw blob.
	Checksum() string
}

// PackageSource fetches raw package contents by identity.
type PackageSource interface {
	Download(ctx context.Context, id domain.PackageID) (PackageContents, error)
}

// SourceProvider resolves a registry reference from the resolution graph to
// the package source serving it.
type SourceProvider interface {
	Source(registry string) (PackageSource, error)
}
