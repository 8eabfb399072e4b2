package installer

import (
	"fmt"

	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/extract"
	"go.trai.ch/zerr"
)

// moduleBinding is the local name link files bind the required value to when
// forwarding statements follow.
const moduleBinding = "MODULE"

var (
	errMissingSharedPlace = zerr.New(`a server or dev dependency is depending on a shared dependency; to link these packages correctly you must declare where shared packages are placed in the datamodel in your parcel.toml, for example:

[place]
shared-packages = "game.ReplicatedStorage.Packages"`)

	errMissingServerPlace = zerr.New(`a dev dependency is depending on a server dependency; to link these packages correctly you must declare where server packages are placed in the datamodel in your parcel.toml, for example:

[place]
server-packages = "game.ServerScriptService.Packages"`)
)

// realmPair keys the link decision table: the realm the dependent's code runs
// in paired with the realm the dependency was installed into.
type realmPair struct {
	dependent  domain.Realm
	dependency domain.Realm
}

// linkContents renders the link file for one dependency edge. All nine
// (dependent realm, dependency realm) cases are spelled out so each stays
// individually visible and testable. root selects the root-dependent variant
// of the same-realm require, since the root project is not itself installed
// into an index.
func (c InstallationContext) linkContents(pair realmPair, root bool, id domain.PackageID, exports *extract.Result) (string, error) {
	switch pair {
	case realmPair{domain.RealmShared, domain.RealmShared},
		realmPair{domain.RealmServer, domain.RealmServer},
		realmPair{domain.RealmDev, domain.RealmDev}:
		if root {
			return c.linkRootSameIndex(id, exports), nil
		}
		return c.linkSiblingSameIndex(id, exports), nil

	case realmPair{domain.RealmShared, domain.RealmServer},
		realmPair{domain.RealmDev, domain.RealmServer}:
		return c.linkServerIndex(id, exports)

	case realmPair{domain.RealmServer, domain.RealmShared},
		realmPair{domain.RealmDev, domain.RealmShared}:
		return c.linkSharedIndex(id, exports)

	case realmPair{domain.RealmShared, domain.RealmDev},
		realmPair{domain.RealmServer, domain.RealmDev}:
		return "", zerr.With(domain.ErrRealmViolation, "dependency", id.String())
	}

	return "", zerr.With(zerr.New("unhandled realm pair"), "pair", fmt.Sprintf("%s->%s", pair.dependent, pair.dependency))
}

// linkRootSameIndex links a root dependent into its own realm's index.
func (c InstallationContext) linkRootSameIndex(id domain.PackageID, exports *extract.Result) string {
	target := fmt.Sprintf("script.Parent.%s[%q][%q]", indexDirName, id.FileName(), id.Name)
	return renderLink(target, exports)
}

// linkSiblingSameIndex links an installed package to a sibling in the same
// index, stepping up two levels from the dependent's own slot.
func (c InstallationContext) linkSiblingSameIndex(id domain.PackageID, exports *extract.Result) string {
	target := fmt.Sprintf("script.Parent.Parent[%q][%q]", id.FileName(), id.Name)
	return renderLink(target, exports)
}

// linkSharedIndex links into the shared index from outside the shared realm.
func (c InstallationContext) linkSharedIndex(id domain.PackageID, exports *extract.Result) (string, error) {
	if c.sharedPlace == "" {
		return "", zerr.With(errMissingSharedPlace, "dependency", id.String())
	}
	target := fmt.Sprintf("%s.%s[%q][%q]", c.sharedPlace, indexDirName, id.FileName(), id.Name)
	return renderLink(target, exports), nil
}

// linkServerIndex links into the server index from outside the server realm.
func (c InstallationContext) linkServerIndex(id domain.PackageID, exports *extract.Result) (string, error) {
	if c.serverPlace == "" {
		return "", zerr.With(errMissingServerPlace, "dependency", id.String())
	}
	target := fmt.Sprintf("%s.%s[%q][%q]", c.serverPlace, indexDirName, id.FileName(), id.Name)
	return renderLink(target, exports), nil
}

// renderLink produces the link file body. When the dependency exports generic
// type aliases, the required value is bound to a local so the forwarding
// lines can reference it.
func renderLink(target string, exports *extract.Result) string {
	if exports.IsEmpty() {
		return fmt.Sprintf("return require(%s)\n", target)
	}
	return fmt.Sprintf(
		"local %s = require(%s)\n%s\nreturn %s\n",
		moduleBinding,
		target,
		exports.ForwardingStatements(moduleBinding),
		moduleBinding,
	)
}
