package domain

import "go.trai.ch/zerr"

// Realm declares where a package's code is intended to execute.
type Realm int

const (
	// RealmShared code is replicated to every execution context.
	RealmShared Realm = iota
	// RealmServer code only ever runs on the server.
	RealmServer
	// RealmDev code is used during development and never ships. A dev
	// package must not be required by a non-dev dependent.
	RealmDev
)

// ParseRealm parses the lowercase realm name used in manifests and lockfiles.
func ParseRealm(s string) (Realm, error) {
	switch s {
	case "shared":
		return RealmShared, nil
	case "server":
		return RealmServer, nil
	case "dev":
		return RealmDev, nil
	}
	return RealmShared, zerr.With(zerr.New("unknown realm"), "realm", s)
}

// String renders the lowercase realm name.
func (r Realm) String() string {
	switch r {
	case RealmShared:
		return "shared"
	case RealmServer:
		return "server"
	case RealmDev:
		return "dev"
	}
	return "unknown"
}
