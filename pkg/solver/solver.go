// Package solver finds host versions that a set of plugins can all run on.
package solver

import (
	"context"

	"github.com/lexfrei/plugcheck/pkg/requirement"
	"github.com/lexfrei/plugcheck/pkg/version"
)

// Solver defines the interface for finding a compatible host version.
// Implementations include simple linear search and future SAT-based solvers.
type Solver interface {
	// FindBestHostVersion returns the highest candidate host version every plugin accepts.
	// Returns error if no solution exists.
	FindBestHostVersion(
		ctx context.Context,
		plugins []requirement.Metadata,
		candidates []version.Version,
		finder requirement.Finder,
	) (version.Version, error)
}
