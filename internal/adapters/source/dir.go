package source

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/zerr"
)

// DirSource serves package contents from a local directory laid out as
// <root>/<scope>/<name>/<version>.zip. Used for offline installs and tests.
type DirSource struct {
	root string
}

// NewDirSource creates a DirSource rooted at root.
func NewDirSource(root string) *DirSource {
	return &DirSource{root: root}
}

// Download reads the archive for one package version.
func (s *DirSource) Download(_ context.Context, id domain.PackageID) (ports.PackageContents, error) {
	path := filepath.Join(s.root, id.Scope, id.Name, id.Version+".zip")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read package archive"), "path", path)
	}

	return NewZipContents(data), nil
}
