// Package app implements the application layer for parcel.
package app

import (
	"context"

	"go.trai.ch/parcel/internal/adapters/config"
	"go.trai.ch/parcel/internal/adapters/source"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/parcel/internal/engine/installer"
	"go.trai.ch/parcel/internal/extract"
	"go.trai.ch/zerr"
)

// App wires the configuration adapters to the installation engine.
type App struct {
	log      ports.Logger
	progress ports.ProgressReporter
}

// New creates a new App instance.
func New(log ports.Logger, progress ports.ProgressReporter) *App {
	return &App{log: log, progress: progress}
}

// InstallOptions tune one install run.
type InstallOptions struct {
	// Workers bounds the download pool; zero selects the engine default.
	Workers int
}

// Install installs every package from the project's lockfile.
func (a *App) Install(ctx context.Context, projectPath string, opts InstallOptions) error {
	manifest, err := config.LoadManifest(projectPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}

	resolved, err := config.LoadLockFile(projectPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load lockfile")
	}

	sources := source.NewMap()
	for _, meta := range resolved.Metadata {
		if meta.SourceRegistry == "" {
			continue
		}
		sources.Register(meta.SourceRegistry, source.NewHTTPSource(meta.SourceRegistry))
	}

	installCtx := installer.NewContext(
		projectPath,
		manifest.Place.SharedPackages,
		manifest.Place.ServerPackages,
	)

	inst := installer.New(
		installCtx,
		sources,
		extract.NewExtractor(a.log),
		a.log,
		a.progress,
		opts.Workers,
	)

	return inst.Install(ctx, resolved.Root, resolved)
}

// Clean removes the project's realm roots. Absent roots are not errors.
func (a *App) Clean(projectPath string) error {
	return installer.NewContext(projectPath, "", "").Clean()
}
