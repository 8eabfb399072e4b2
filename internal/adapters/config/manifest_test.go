package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/parcel/internal/adapters/config"
)

func writeProjectFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, config.ManifestFileName, `
[package]
name = "acme/root"
version = "1.0.0"
realm = "shared"

[place]
shared-packages = "game.ReplicatedStorage.Packages"
server-packages = "game.ServerScriptService.Packages"
`)

	m, err := config.LoadManifest(dir)
	require.NoError(t, err)

	assert.Equal(t, "acme/root", m.Package.Name)
	assert.Equal(t, "1.0.0", m.Package.Version)
	assert.Equal(t, "shared", m.Package.Realm)
	assert.Equal(t, "game.ReplicatedStorage.Packages", m.Place.SharedPackages)
	assert.Equal(t, "game.ServerScriptService.Packages", m.Place.ServerPackages)
}

func TestLoadManifest_PlaceSectionOptional(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, config.ManifestFileName, `
[package]
name = "acme/root"
version = "1.0.0"
realm = "shared"
`)

	m, err := config.LoadManifest(dir)
	require.NoError(t, err)

	assert.Empty(t, m.Place.SharedPackages)
	assert.Empty(t, m.Place.ServerPackages)
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := config.LoadManifest(t.TempDir())
	require.Error(t, err)
}

func TestLoadManifest_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, config.ManifestFileName, "[package\nname =")

	_, err := config.LoadManifest(dir)
	require.Error(t, err)
}
