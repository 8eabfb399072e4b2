package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// LockFileName is the resolved-graph lockfile filename.
const LockFileName = "parcel-lock.yaml"

// lockFile is the on-disk DTO for the resolution graph.
type lockFile struct {
	Root     string        `yaml:"root"`
	Packages []lockPackage `yaml:"packages"`
}

type lockPackage struct {
	ID                 string    `yaml:"id"`
	Realm              string    `yaml:"realm"`
	Registry           string    `yaml:"registry"`
	Checksum           string    `yaml:"checksum,omitempty"`
	Dependencies       []lockDep `yaml:"dependencies,omitempty"`
	ServerDependencies []lockDep `yaml:"server-dependencies,omitempty"`
	DevDependencies    []lockDep `yaml:"dev-dependencies,omitempty"`
}

type lockDep struct {
	Alias string `yaml:"alias"`
	ID    string `yaml:"id"`
}

// LoadLockFile reads parcel-lock.yaml from the project directory and converts
// it into the domain resolution graph, validating that every dependency edge
// points at an activated package.
func LoadLockFile(projectPath string) (*domain.Resolve, error) {
	path := filepath.Join(projectPath, LockFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read lockfile"), "path", path)
	}

	var lock lockFile
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse lockfile"), "path", path)
	}

	return lock.toResolve()
}

func (l *lockFile) toResolve() (*domain.Resolve, error) {
	root, err := domain.ParsePackageID(l.Root)
	if err != nil {
		return nil, zerr.Wrap(err, "invalid root package id")
	}

	resolved := &domain.Resolve{
		Root:               root,
		Activated:          make([]domain.PackageID, 0, len(l.Packages)),
		Metadata:           make(map[domain.PackageID]domain.PackageMetadata, len(l.Packages)),
		SharedDependencies: make(map[domain.PackageID][]domain.DependencyLink),
		ServerDependencies: make(map[domain.PackageID][]domain.DependencyLink),
		DevDependencies:    make(map[domain.PackageID][]domain.DependencyLink),
	}

	// First pass: activate every package with its metadata.
	for _, pkg := range l.Packages {
		id, err := domain.ParsePackageID(pkg.ID)
		if err != nil {
			return nil, err
		}
		realm, err := domain.ParseRealm(pkg.Realm)
		if err != nil {
			return nil, zerr.With(err, "package", pkg.ID)
		}

		if _, ok := resolved.Metadata[id]; ok {
			return nil, zerr.With(zerr.New("duplicate package in lockfile"), "package", pkg.ID)
		}

		resolved.Activated = append(resolved.Activated, id)
		resolved.Metadata[id] = domain.PackageMetadata{
			OriginRealm:    realm,
			SourceRegistry: pkg.Registry,
			Checksum:       pkg.Checksum,
		}
	}

	// Second pass: attach dependency edges in declaration order.
	for _, pkg := range l.Packages {
		id, _ := domain.ParsePackageID(pkg.ID)

		shared, err := parseDeps(pkg.Dependencies)
		if err != nil {
			return nil, zerr.With(err, "package", pkg.ID)
		}
		server, err := parseDeps(pkg.ServerDependencies)
		if err != nil {
			return nil, zerr.With(err, "package", pkg.ID)
		}
		dev, err := parseDeps(pkg.DevDependencies)
		if err != nil {
			return nil, zerr.With(err, "package", pkg.ID)
		}

		if len(shared) > 0 {
			resolved.SharedDependencies[id] = shared
		}
		if len(server) > 0 {
			resolved.ServerDependencies[id] = server
		}
		if len(dev) > 0 {
			resolved.DevDependencies[id] = dev
		}
	}

	if err := resolved.Validate(); err != nil {
		return nil, err
	}

	return resolved, nil
}

func parseDeps(deps []lockDep) ([]domain.DependencyLink, error) {
	if len(deps) == 0 {
		return nil, nil
	}

	links := make([]domain.DependencyLink, len(deps))
	for i, dep := range deps {
		id, err := domain.ParsePackageID(dep.ID)
		if err != nil {
			return nil, err
		}
		if dep.Alias == "" {
			return nil, zerr.With(zerr.New("dependency is missing an alias"), "dependency", dep.ID)
		}
		links[i] = domain.DependencyLink{Alias: dep.Alias, ID: id}
	}
	return links, nil
}
