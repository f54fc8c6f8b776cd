package solver

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/plugcheck/pkg/metrics"
	"github.com/lexfrei/plugcheck/pkg/requirement"
	"github.com/lexfrei/plugcheck/pkg/version"
)

const solverType = "host_version"

var (
	// ErrNoCandidates is returned when no candidate host versions are supplied.
	ErrNoCandidates = errors.New("no host versions available")
	// ErrNoSolution is returned when no candidate satisfies every plugin.
	ErrNoSolution = errors.New("no host version compatible with all plugins")
)

// Blocker names a plugin that rejects a host version and the reason.
type Blocker struct {
	Plugin string
	Err    *requirement.ValidationError
}

// SimpleSolver implements a linear search over candidate host versions.
// This is sufficient for the handful of plugins a host carries.
type SimpleSolver struct {
	recorder metrics.Recorder
}

var _ Solver = (*SimpleSolver)(nil)

// NewSimpleSolver creates a new simple linear search solver. A nil recorder
// disables metrics.
func NewSimpleSolver(recorder metrics.Recorder) *SimpleSolver {
	if recorder == nil {
		recorder = &metrics.NoopRecorder{}
	}

	return &SimpleSolver{recorder: recorder}
}

// FindBestHostVersion finds the maximum host version compatible with ALL plugins.
// Algorithm:
//  1. Sort candidate versions in descending order
//  2. For each version (highest first), validate every plugin against it
//  3. Return first version that satisfies all plugins
func (s *SimpleSolver) FindBestHostVersion(
	ctx context.Context,
	plugins []requirement.Metadata,
	candidates []version.Version,
	finder requirement.Finder,
) (version.Version, error) {
	start := time.Now()

	best, err := s.findBest(ctx, plugins, candidates, finder)
	s.recorder.RecordSolverRun(solverType, err, time.Since(start))

	return best, err
}

func (s *SimpleSolver) findBest(
	ctx context.Context,
	plugins []requirement.Metadata,
	candidates []version.Version,
	finder requirement.Finder,
) (version.Version, error) {
	if len(candidates) == 0 {
		return version.Version{}, ErrNoCandidates
	}

	validator := requirement.NewValidator(finder)

	for _, host := range version.SortDesc(candidates) {
		if err := ctx.Err(); err != nil {
			return version.Version{}, errors.Wrap(err, "host version search interrupted")
		}

		if compatibleWithAll(validator, plugins, host) {
			return host, nil
		}
	}

	return version.Version{}, ErrNoSolution
}

// CompatibleHostVersions returns every candidate that all plugins accept,
// highest first. The result is empty, not an error, when nothing fits.
func (s *SimpleSolver) CompatibleHostVersions(
	ctx context.Context,
	plugins []requirement.Metadata,
	candidates []version.Version,
	finder requirement.Finder,
) ([]version.Version, error) {
	validator := requirement.NewValidator(finder)
	compatible := make([]version.Version, 0, len(candidates))

	for _, host := range version.SortDesc(candidates) {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "host version search interrupted")
		}

		if compatibleWithAll(validator, plugins, host) {
			compatible = append(compatible, host)
		}
	}

	return compatible, nil
}

// Blockers lists the plugins that reject host, each with its first violation.
func (s *SimpleSolver) Blockers(
	plugins []requirement.Metadata,
	host version.Version,
	finder requirement.Finder,
) []Blocker {
	validator := requirement.NewValidator(finder)

	var blockers []Blocker

	for _, meta := range plugins {
		var ve *requirement.ValidationError
		if errors.As(validator.Validate(meta, host), &ve) {
			blockers = append(blockers, Blocker{Plugin: meta.Name, Err: ve})
		}
	}

	return blockers
}

func compatibleWithAll(validator *requirement.Validator, plugins []requirement.Metadata, host version.Version) bool {
	for _, meta := range plugins {
		if validator.Validate(meta, host) != nil {
			return false
		}
	}

	return true
}
