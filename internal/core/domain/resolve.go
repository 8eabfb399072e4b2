package domain

import "go.trai.ch/zerr"

// DependencyLink is one edge of the resolution graph: the alias under which a
// dependent requires a dependency.
type DependencyLink struct {
	Alias string
	ID    PackageID
}

// PackageMetadata carries the per-package facts resolution produced.
type PackageMetadata struct {
	OriginRealm    Realm
	SourceRegistry string
	// Checksum is the optional xxhash64 hex digest of the package blob.
	// Empty skips verification.
	Checksum string
}

// Resolve is the output of dependency resolution, consumed read-only by the
// installation engine. The three dependency maps hold the edges declared for
// each realm, in declaration order.
type Resolve struct {
	Root      PackageID
	Activated []PackageID
	Metadata  map[PackageID]PackageMetadata

	SharedDependencies map[PackageID][]DependencyLink
	ServerDependencies map[PackageID][]DependencyLink
	DevDependencies    map[PackageID][]DependencyLink
}

// Validate checks internal consistency: the root must be activated, every
// activated package needs metadata, and every dependency edge must point at
// an activated package.
func (r *Resolve) Validate() error {
	activated := make(map[PackageID]bool, len(r.Activated))
	for _, id := range r.Activated {
		activated[id] = true
		if _, ok := r.Metadata[id]; !ok {
			return zerr.With(zerr.New("activated package has no metadata"), "package", id.String())
		}
	}

	if !activated[r.Root] {
		return zerr.With(zerr.New("root package is not in the activated set"), "package", r.Root.String())
	}

	for _, deps := range []map[PackageID][]DependencyLink{
		r.SharedDependencies,
		r.ServerDependencies,
		r.DevDependencies,
	} {
		for dependent, links := range deps {
			if !activated[dependent] {
				return zerr.With(zerr.New("dependency edges declared for an unactivated package"), "package", dependent.String())
			}
			for _, link := range links {
				if !activated[link.ID] {
					return zerr.With(zerr.With(
						ErrMissingDependency,
						"dependent", dependent.String()),
						"dependency", link.ID.String())
				}
			}
		}
	}

	return nil
}
