// Package installer materializes a resolved dependency graph on disk and
// writes the realm-aware link files that let packages require each other.
package installer

import (
	"os"
	"path/filepath"

	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/zerr"
)

const indexDirName = "_Index"

// InstallationContext holds the on-disk layout of one install: a root and an
// index directory per realm, plus the optional datamodel mount points used
// for cross-realm requires. It is immutable once created and shared
// read-only across concurrent workers.
type InstallationContext struct {
	sharedDir      string
	sharedIndexDir string
	sharedPlace    string
	serverDir      string
	serverIndexDir string
	serverPlace    string
	devDir         string
	devIndexDir    string
}

// NewContext derives the realm roots for the given project path. sharedPlace
// and serverPlace name where shared and server packages are mounted in the
// datamodel; either may be empty as long as no cross-realm edge needs it.
func NewContext(projectPath, sharedPlace, serverPlace string) InstallationContext {
	sharedDir := filepath.Join(projectPath, "Packages")
	serverDir := filepath.Join(projectPath, "ServerPackages")
	devDir := filepath.Join(projectPath, "DevPackages")

	return InstallationContext{
		sharedDir:      sharedDir,
		sharedIndexDir: filepath.Join(sharedDir, indexDirName),
		sharedPlace:    sharedPlace,
		serverDir:      serverDir,
		serverIndexDir: filepath.Join(serverDir, indexDirName),
		serverPlace:    serverPlace,
		devDir:         devDir,
		devIndexDir:    filepath.Join(devDir, indexDirName),
	}
}

// realmDir returns the root directory for a realm.
func (c InstallationContext) realmDir(realm domain.Realm) string {
	switch realm {
	case domain.RealmServer:
		return c.serverDir
	case domain.RealmDev:
		return c.devDir
	default:
		return c.sharedDir
	}
}

// realmIndexDir returns the index directory for a realm.
func (c InstallationContext) realmIndexDir(realm domain.Realm) string {
	switch realm {
	case domain.RealmServer:
		return c.serverIndexDir
	case domain.RealmDev:
		return c.devIndexDir
	default:
		return c.sharedIndexDir
	}
}

// Clean removes the three realm roots. Roots that are already absent are not
// errors, so Clean is safe to run repeatedly and before a retry.
func (c InstallationContext) Clean() error {
	for _, dir := range []string{c.sharedDir, c.serverDir, c.devDir} {
		if err := os.RemoveAll(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to remove realm root"), "path", dir)
		}
	}
	return nil
}
