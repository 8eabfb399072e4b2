// Package domain contains the core types of the parcel installation engine.
package domain

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

// PackageID identifies one exact version of a package. It is globally unique
// within an install, which allows multiple versions of the same package to
// coexist on disk.
type PackageID struct {
	Scope   string
	Name    string
	Version string
}

// ParsePackageID parses the canonical "scope/name@version" form.
func ParsePackageID(s string) (PackageID, error) {
	scope, rest, ok := strings.Cut(s, "/")
	if !ok || scope == "" {
		return PackageID{}, zerr.With(zerr.New("package id is missing a scope"), "id", s)
	}

	name, version, ok := strings.Cut(rest, "@")
	if !ok || name == "" || version == "" {
		return PackageID{}, zerr.With(zerr.New("package id is missing a version"), "id", s)
	}

	return PackageID{Scope: scope, Name: name, Version: version}, nil
}

// String renders the canonical "scope/name@version" form.
func (id PackageID) String() string {
	return fmt.Sprintf("%s/%s@%s", id.Scope, id.Name, id.Version)
}

// FileName derives the directory name used on disk for this package version.
// The derivation is collision-free across versions, so two versions of one
// package can be installed side by side in the same index.
func (id PackageID) FileName() string {
	return fmt.Sprintf("%s_%s@%s", id.Scope, id.Name, id.Version)
}

// IsZero reports whether the id is the zero value.
func (id PackageID) IsZero() bool {
	return id == PackageID{}
}
