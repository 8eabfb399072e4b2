package installer_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/parcel/internal/engine/installer"
	"go.trai.ch/parcel/internal/extract"
	"go.trai.ch/zerr"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// countingReporter counts steps from concurrent workers.
type countingReporter struct {
	steps atomic.Int64
}

func (r *countingReporter) Begin(int)   {}
func (r *countingReporter) Step(string) { r.steps.Add(1) }
func (r *countingReporter) End()        {}

// fakeContents writes a fixed file tree and reports a fixed checksum.
type fakeContents struct {
	files    map[string]string
	checksum string
}

func (c fakeContents) Checksum() string { return c.checksum }

func (c fakeContents) UnpackInto(dir string) error {
	for name, body := range c.files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// fakeSource serves fakeContents by package id.
type fakeSource struct {
	packages map[domain.PackageID]fakeContents
}

func (s *fakeSource) Download(_ context.Context, id domain.PackageID) (ports.PackageContents, error) {
	contents, ok := s.packages[id]
	if !ok {
		return nil, zerr.With(zerr.New("package not found"), "package", id.String())
	}
	return contents, nil
}

func (s *fakeSource) Source(string) (ports.PackageSource, error) { return s, nil }

func pkg(scope, name, version string) domain.PackageID {
	return domain.PackageID{Scope: scope, Name: name, Version: version}
}

var (
	rootID    = pkg("acme", "root", "1.0.0")
	utilID    = pkg("acme", "util", "1.0.0")
	otherID   = pkg("acme", "other", "0.2.0")
	serverID  = pkg("acme", "server-lib", "2.0.0")
	testingID = pkg("acme", "testing", "0.1.0")
)

func testResolve() *domain.Resolve {
	return &domain.Resolve{
		Root:      rootID,
		Activated: []domain.PackageID{rootID, utilID, otherID, serverID, testingID},
		Metadata: map[domain.PackageID]domain.PackageMetadata{
			rootID:    {OriginRealm: domain.RealmShared},
			utilID:    {OriginRealm: domain.RealmShared, SourceRegistry: "test"},
			otherID:   {OriginRealm: domain.RealmShared, SourceRegistry: "test"},
			serverID:  {OriginRealm: domain.RealmServer, SourceRegistry: "test"},
			testingID: {OriginRealm: domain.RealmDev, SourceRegistry: "test"},
		},
		SharedDependencies: map[domain.PackageID][]domain.DependencyLink{
			rootID: {{Alias: "Util", ID: utilID}},
			utilID: {{Alias: "Other", ID: otherID}},
		},
		ServerDependencies: map[domain.PackageID][]domain.DependencyLink{
			rootID: {{Alias: "ServerLib", ID: serverID}},
		},
		DevDependencies: map[domain.PackageID][]domain.DependencyLink{
			rootID: {{Alias: "Testing", ID: testingID}},
		},
	}
}

func testSource() *fakeSource {
	plain := fakeContents{files: map[string]string{"init.lua": "return {}\n"}}
	withTypes := fakeContents{files: map[string]string{
		"default.project.json": `{"tree": {"$path": "src"}}`,
		"src/init.lua":         "export type Signal<T> = {}\n",
	}}

	return &fakeSource{packages: map[domain.PackageID]fakeContents{
		utilID:    withTypes,
		otherID:   plain,
		serverID:  plain,
		testingID: plain,
	}}
}

func newInstaller(projectPath string, src *fakeSource, progress ports.ProgressReporter) *installer.Installer {
	if progress == nil {
		progress = &countingReporter{}
	}
	ctx := installer.NewContext(projectPath, "game.ReplicatedStorage.Packages", "game.ServerScriptService.Packages")
	return installer.New(ctx, src, extract.NewExtractor(nopLogger{}), nopLogger{}, progress, 4)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, "reading %s", path)
	return string(data)
}

func TestInstaller_Install_WritesTree(t *testing.T) {
	projectPath := t.TempDir()
	progress := &countingReporter{}

	inst := newInstaller(projectPath, testSource(), progress)
	require.NoError(t, inst.Install(context.Background(), rootID, testResolve()))

	// Package contents land in per-realm index slots.
	assert.FileExists(t, filepath.Join(projectPath, "Packages", "_Index", "acme_util@1.0.0", "util", "src", "init.lua"))
	assert.FileExists(t, filepath.Join(projectPath, "Packages", "_Index", "acme_other@0.2.0", "other", "init.lua"))
	assert.FileExists(t, filepath.Join(projectPath, "ServerPackages", "_Index", "acme_server-lib@2.0.0", "server-lib", "init.lua"))
	assert.FileExists(t, filepath.Join(projectPath, "DevPackages", "_Index", "acme_testing@0.1.0", "testing", "init.lua"))

	// Root links go directly into the realm roots.
	wantRootLink := "local MODULE = require(script.Parent._Index[\"acme_util@1.0.0\"][\"util\"])\n" +
		"export type Signal<T> = MODULE.Signal<T>\n" +
		"return MODULE\n"
	assert.Equal(t, wantRootLink, readFile(t, filepath.Join(projectPath, "Packages", "Util.lua")))

	assert.Equal(t,
		"return require(script.Parent._Index[\"acme_server-lib@2.0.0\"][\"server-lib\"])\n",
		readFile(t, filepath.Join(projectPath, "ServerPackages", "ServerLib.lua")))

	assert.Equal(t,
		"return require(script.Parent._Index[\"acme_testing@0.1.0\"][\"testing\"])\n",
		readFile(t, filepath.Join(projectPath, "DevPackages", "Testing.lua")))

	// A package's own links go into its index slot, stepping up two levels.
	assert.Equal(t,
		"return require(script.Parent.Parent[\"acme_other@0.2.0\"][\"other\"])\n",
		readFile(t, filepath.Join(projectPath, "Packages", "_Index", "acme_util@1.0.0", "Other.lua")))

	// One progress step per non-root package.
	assert.Equal(t, int64(4), progress.steps.Load())
}

func TestInstaller_Install_CrossRealmLink(t *testing.T) {
	projectPath := t.TempDir()

	resolved := testResolve()
	// The server-realm package depends on a shared-realm package.
	resolved.SharedDependencies[serverID] = []domain.DependencyLink{{Alias: "Util", ID: utilID}}

	inst := newInstaller(projectPath, testSource(), nil)
	require.NoError(t, inst.Install(context.Background(), rootID, resolved))

	link := readFile(t, filepath.Join(projectPath, "ServerPackages", "_Index", "acme_server-lib@2.0.0", "Util.lua"))
	assert.Contains(t, link, "require(game.ReplicatedStorage.Packages._Index[\"acme_util@1.0.0\"][\"util\"])")
}

func TestInstaller_Install_MissingPlacePathFails(t *testing.T) {
	projectPath := t.TempDir()

	resolved := testResolve()
	resolved.SharedDependencies[serverID] = []domain.DependencyLink{{Alias: "Util", ID: utilID}}

	ctx := installer.NewContext(projectPath, "", "")
	inst := installer.New(ctx, testSource(), extract.NewExtractor(nopLogger{}), nopLogger{}, &countingReporter{}, 4)

	err := inst.Install(context.Background(), rootID, resolved)
	require.Error(t, err)
	assert.ErrorContains(t, err, "shared-packages")
}

func TestInstaller_Install_DevDependencyOfNonDevFails(t *testing.T) {
	projectPath := t.TempDir()

	resolved := testResolve()
	resolved.SharedDependencies[rootID] = append(resolved.SharedDependencies[rootID],
		domain.DependencyLink{Alias: "Sneaky", ID: testingID})

	inst := newInstaller(projectPath, testSource(), nil)
	err := inst.Install(context.Background(), rootID, resolved)

	require.Error(t, err)
	assert.ErrorContains(t, err, "dev dependency")
	assert.NoFileExists(t, filepath.Join(projectPath, "Packages", "Sneaky.lua"))
}

func TestInstaller_Install_DownloadFailureFailsInstall(t *testing.T) {
	projectPath := t.TempDir()

	src := testSource()
	delete(src.packages, serverID)

	inst := newInstaller(projectPath, src, nil)
	err := inst.Install(context.Background(), rootID, testResolve())

	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to download package")
}

func TestInstaller_Install_ChecksumMismatchFails(t *testing.T) {
	projectPath := t.TempDir()

	resolved := testResolve()
	meta := resolved.Metadata[utilID]
	meta.Checksum = "00000000deadbeef"
	resolved.Metadata[utilID] = meta

	inst := newInstaller(projectPath, testSource(), nil)
	err := inst.Install(context.Background(), rootID, resolved)

	require.Error(t, err)
	assert.ErrorContains(t, err, "checksum mismatch")
}

func TestInstaller_Install_ChecksumMatchPasses(t *testing.T) {
	projectPath := t.TempDir()

	src := testSource()
	contents := src.packages[utilID]
	contents.checksum = "feedfacecafebeef"
	src.packages[utilID] = contents

	resolved := testResolve()
	meta := resolved.Metadata[utilID]
	meta.Checksum = "feedfacecafebeef"
	resolved.Metadata[utilID] = meta

	inst := newInstaller(projectPath, src, nil)
	require.NoError(t, inst.Install(context.Background(), rootID, resolved))
}

func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := make(map[string]string)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		tree[rel] = string(data)
		return nil
	})
	require.NoError(t, err)

	return tree
}

func TestInstaller_CleanThenReinstallReproducesTree(t *testing.T) {
	projectPath := t.TempDir()

	inst := newInstaller(projectPath, testSource(), nil)
	require.NoError(t, inst.Install(context.Background(), rootID, testResolve()))
	first := snapshotTree(t, projectPath)
	require.NotEmpty(t, first)

	require.NoError(t, inst.Clean())
	entries, err := os.ReadDir(projectPath)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, inst.Install(context.Background(), rootID, testResolve()))
	assert.Equal(t, first, snapshotTree(t, projectPath))
}
