package installer

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/parcel/internal/extract"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 8

// exportsByPackage is the join-phase lookup from package identity to its
// extraction result. It must be total over every dependency identity before
// any link file is written.
type exportsByPackage map[domain.PackageID]*extract.Result

// Installer runs the two-phase installation pipeline against one
// InstallationContext.
type Installer struct {
	context   InstallationContext
	sources   ports.SourceProvider
	extractor *extract.Extractor
	log       ports.Logger
	progress  ports.ProgressReporter
	workers   int
}

// New creates an Installer. workers bounds the download pool; values below
// one select the default.
func New(
	installCtx InstallationContext,
	sources ports.SourceProvider,
	extractor *extract.Extractor,
	log ports.Logger,
	progress ports.ProgressReporter,
	workers int,
) *Installer {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Installer{
		context:   installCtx,
		sources:   sources,
		extractor: extractor,
		log:       log,
		progress:  progress,
		workers:   workers,
	}
}

// Install materializes every activated package except the root and writes one
// link file per dependency edge.
//
// The pipeline is two-phase by contract, not by accident: a gather phase
// downloads, unpacks and extracts every non-root package under a bounded
// worker pool, then joins; only after the join does the emit phase write
// links. Link contents depend on the extraction result of the target package,
// so no link may be written before every extraction result is known.
//
// Any unit failure fails the whole install. Already-written directories are
// not rolled back; Clean followed by a retry is the recovery path.
func (inst *Installer) Install(ctx context.Context, rootID domain.PackageID, resolved *domain.Resolve) error {
	exports := make(exportsByPackage, len(resolved.Activated))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(inst.workers)

	inst.progress.Begin(len(resolved.Activated) - 1)
	for _, id := range resolved.Activated {
		if id == rootID {
			continue
		}

		g.Go(func() error {
			result, err := inst.installPackage(gctx, id, resolved)
			if err != nil {
				return err
			}

			mu.Lock()
			exports[id] = result
			mu.Unlock()

			inst.progress.Step("Downloaded " + id.String())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	inst.progress.End()

	for _, id := range resolved.Activated {
		if err := inst.writeLinks(id, rootID, resolved, exports); err != nil {
			return err
		}
	}

	inst.log.Info("downloaded packages", "count", len(resolved.Activated)-1)
	return nil
}

// Clean removes the three realm roots of the underlying context.
func (inst *Installer) Clean() error {
	return inst.context.Clean()
}

// installPackage is one unit of concurrent work: fetch, verify, unpack and
// extract a single package.
func (inst *Installer) installPackage(ctx context.Context, id domain.PackageID, resolved *domain.Resolve) (*extract.Result, error) {
	meta, ok := resolved.Metadata[id]
	if !ok {
		return nil, zerr.With(zerr.New("activated package has no metadata"), "package", id.String())
	}

	inst.log.Debug("downloading package", "package", id.String())

	source, err := inst.sources.Source(meta.SourceRegistry)
	if err != nil {
		return nil, zerr.With(err, "package", id.String())
	}

	contents, err := source.Download(ctx, id)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to download package"), "package", id.String())
	}

	if meta.Checksum != "" && meta.Checksum != contents.Checksum() {
		return nil, zerr.With(zerr.With(zerr.With(
			domain.ErrChecksumMismatch,
			"package", id.String()),
			"want", meta.Checksum),
			"got", contents.Checksum())
	}

	path, err := inst.writeContents(id, contents, meta.OriginRealm)
	if err != nil {
		return nil, err
	}

	return inst.extractor.Extract(path), nil
}

// writeContents unpacks the package into its slot under the realm index and
// returns the unpacked path.
func (inst *Installer) writeContents(id domain.PackageID, contents ports.PackageContents, realm domain.Realm) (string, error) {
	dir := filepath.Join(inst.context.realmIndexDir(realm), id.FileName(), id.Name)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create package directory"), "path", dir)
	}
	if err := contents.UnpackInto(dir); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to unpack package"), "path", dir)
	}

	return dir, nil
}

// writeLinks writes the link files for every dependency edge of one
// dependent. The root is handled specially: it is not installed as a package,
// but links for its dependencies go directly into the realm roots.
func (inst *Installer) writeLinks(id, rootID domain.PackageID, resolved *domain.Resolve, exports exportsByPackage) error {
	if id == rootID {
		for _, realmDeps := range []struct {
			realm domain.Realm
			deps  []domain.DependencyLink
		}{
			{domain.RealmShared, resolved.SharedDependencies[id]},
			{domain.RealmServer, resolved.ServerDependencies[id]},
			{domain.RealmDev, resolved.DevDependencies[id]},
		} {
			if len(realmDeps.deps) == 0 {
				continue
			}
			if err := inst.writeRootLinks(realmDeps.realm, realmDeps.deps, resolved, exports); err != nil {
				return err
			}
		}
		return nil
	}

	realm := resolved.Metadata[id].OriginRealm
	for _, deps := range [][]domain.DependencyLink{
		resolved.SharedDependencies[id],
		resolved.ServerDependencies[id],
		resolved.DevDependencies[id],
	} {
		if len(deps) == 0 {
			continue
		}
		if err := inst.writePackageLinks(id, realm, deps, resolved, exports); err != nil {
			return err
		}
	}
	return nil
}

// writeRootLinks writes the root project's links for one realm directly into
// that realm's root directory.
func (inst *Installer) writeRootLinks(rootRealm domain.Realm, deps []domain.DependencyLink, resolved *domain.Resolve, exports exportsByPackage) error {
	inst.log.Debug("writing root package links", "realm", rootRealm.String())

	basePath := inst.context.realmDir(rootRealm)
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create realm root"), "path", basePath)
	}

	return inst.writeDependencyLinks(basePath, rootRealm, true, deps, resolved, exports)
}

// writePackageLinks writes one installed package's links into its own slot
// within its realm's index.
func (inst *Installer) writePackageLinks(id domain.PackageID, realm domain.Realm, deps []domain.DependencyLink, resolved *domain.Resolve, exports exportsByPackage) error {
	inst.log.Debug("writing package links", "package", id.String())

	basePath := filepath.Join(inst.context.realmIndexDir(realm), id.FileName())
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create package link directory"), "path", basePath)
	}

	return inst.writeDependencyLinks(basePath, realm, false, deps, resolved, exports)
}

func (inst *Installer) writeDependencyLinks(basePath string, dependentRealm domain.Realm, root bool, deps []domain.DependencyLink, resolved *domain.Resolve, exports exportsByPackage) error {
	for _, dep := range deps {
		depRealm := resolved.Metadata[dep.ID].OriginRealm

		depExports, ok := exports[dep.ID]
		if !ok {
			return zerr.With(zerr.New("no extraction result for dependency"), "package", dep.ID.String())
		}

		contents, err := inst.context.linkContents(realmPair{dependentRealm, depRealm}, root, dep.ID, depExports)
		if err != nil {
			return err
		}

		path := filepath.Join(basePath, dep.Alias+".lua")
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to write link file"), "path", path)
		}
	}
	return nil
}
