package domain

import "go.trai.ch/zerr"

var (
	// ErrRealmViolation is returned when a non-dev dependent requires a
	// dev-realm dependency.
	ErrRealmViolation = zerr.New("a dev dependency cannot be depended upon by a non-dev dependency")

	// ErrMissingDependency is returned when a dependency edge references a
	// package that is not in the activated set.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrUnknownRegistry is returned when the resolution graph references a
	// registry that no package source was configured for.
	ErrUnknownRegistry = zerr.New("unknown registry")

	// ErrChecksumMismatch is returned when downloaded package contents do not
	// match the checksum recorded in the lockfile.
	ErrChecksumMismatch = zerr.New("package contents checksum mismatch")
)
