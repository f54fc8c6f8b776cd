/*
Copyright 2026, Aleksei Sviridkin.

SPDX-License-Identifier: BSD-3-Clause
*/

package version

import (
	"github.com/cockroachdb/errors"
)

// Contains reports whether target equals any version in the list.
// Equality is semantic: "5.1" matches "5.1.0".
func Contains(versions []Version, target Version) bool {
	for _, v := range versions {
		if v.Equal(target) {
			return true
		}
	}

	return false
}

// ParseList parses every string in the list, failing on the first invalid entry.
func ParseList(raw []string) ([]Version, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	versions := make([]Version, 0, len(raw))

	for i, s := range raw {
		v, err := Parse(s)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d", i)
		}

		versions = append(versions, v)
	}

	return versions, nil
}
