/*
Copyright 2026, Aleksei Sviridkin.

SPDX-License-Identifier: BSD-3-Clause
*/

package version

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// Compare compares two version strings.
// Returns:
//
//	-1 if v1 < v2
//	 0 if v1 == v2
//	 1 if v1 > v2
func Compare(v1, v2 string) (int, error) {
	ver1, err := Parse(v1)
	if err != nil {
		return 0, errors.Wrap(err, "failed to parse first version")
	}

	ver2, err := Parse(v2)
	if err != nil {
		return 0, errors.Wrap(err, "failed to parse second version")
	}

	return ver1.Compare(ver2), nil
}

// IsDowngrade checks if changing from current to candidate would be a downgrade.
func IsDowngrade(current, candidate string) (bool, error) {
	cmp, err := Compare(candidate, current)
	if err != nil {
		return false, err
	}

	return cmp < 0, nil
}

// SortDesc returns a copy of versions sorted newest first.
func SortDesc(versions []Version) []Version {
	sorted := slices.Clone(versions)
	slices.SortStableFunc(sorted, func(a, b Version) int {
		return b.Compare(a)
	})

	return sorted
}

// Max returns the highest version in the list, or the zero Version if the list is empty.
func Max(versions []Version) Version {
	var maxVer Version

	for _, v := range versions {
		if v.Greater(maxVer) {
			maxVer = v
		}
	}

	return maxVer
}
