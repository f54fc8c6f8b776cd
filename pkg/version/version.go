/*
Copyright 2026, Aleksei Sviridkin.

SPDX-License-Identifier: BSD-3-Clause
*/

// Package version provides an immutable, totally ordered version value type.
//
// Parsing is lenient in the way plugin descriptors need: missing components
// are treated as zero, so "5.1" and "5.1.0" are equal. The original spelling
// is kept for display.
package version

import (
	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
)

// Version is a parsed version. The zero value is an unset version that sorts
// below every parsed version.
type Version struct {
	sv *semver.Version
}

// Parse parses a version string such as "5.1", "5.1.2" or "2.0.0-beta.1".
func Parse(s string) (Version, error) {
	sv, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, errors.Wrapf(err, "failed to parse version %q", s)
	}

	return Version{sv: sv}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return v
}

// IsZero reports whether v is unset.
func (v Version) IsZero() bool {
	return v.sv == nil
}

// String returns the version as originally written.
func (v Version) String() string {
	if v.sv == nil {
		return ""
	}

	return v.sv.Original()
}

// Canonical returns the normalized major.minor.patch[-prerelease] form.
func (v Version) Canonical() string {
	if v.sv == nil {
		return ""
	}

	return v.sv.String()
}

// Compare returns -1, 0 or 1 depending on whether v sorts before, equal to or
// after other. Build metadata is ignored.
func (v Version) Compare(other Version) int {
	switch {
	case v.sv == nil && other.sv == nil:
		return 0
	case v.sv == nil:
		return -1
	case other.sv == nil:
		return 1
	}

	return v.sv.Compare(other.sv)
}

// Less reports whether v < other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

// Greater reports whether v > other.
func (v Version) Greater(other Version) bool {
	return v.Compare(other) > 0
}

// Equal reports whether v and other denote the same version, so "5.1" equals "5.1.0".
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input yields the zero Version.
func (v *Version) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*v = Version{}

		return nil
	}

	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*v = parsed

	return nil
}
