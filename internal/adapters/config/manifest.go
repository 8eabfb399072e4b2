// Package config loads the parcel manifest and lockfile.
package config

import (
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.trai.ch/zerr"
)

// ManifestFileName is the project manifest filename.
const ManifestFileName = "parcel.toml"

// Manifest is the parsed parcel.toml.
type Manifest struct {
	Package PackageSection `toml:"package"`
	Place   PlaceSection   `toml:"place"`
}

// PackageSection describes the root project.
type PackageSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Realm   string `toml:"realm"`
}

// PlaceSection declares where realm roots are mounted in the datamodel. The
// values are consumed only when generating cross-realm requires; either may
// be absent as long as no cross-realm edge needs it.
type PlaceSection struct {
	SharedPackages string `toml:"shared-packages"`
	ServerPackages string `toml:"server-packages"`
}

// LoadManifest reads parcel.toml from the project directory.
func LoadManifest(projectPath string) (*Manifest, error) {
	path := filepath.Join(projectPath, ManifestFileName)

	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}

	return &m, nil
}
