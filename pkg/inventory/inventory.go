/*
Copyright 2026, Aleksei Sviridkin.

SPDX-License-Identifier: BSD-3-Clause
*/

// Package inventory provides known-plugin registries: YAML inventory files,
// a SQLite store and a TTL cache in front of either.
package inventory

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/plugcheck/pkg/requirement"
)

// ErrNotFound is returned when a plugin is not in the inventory.
var ErrNotFound = errors.New("plugin not found")

// Source materializes the known plugins into an in-memory snapshot that the
// requirement checker can query without I/O.
type Source interface {
	Snapshot(ctx context.Context) (requirement.MapFinder, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (requirement.MapFinder, error)

// Snapshot implements Source.
func (f SourceFunc) Snapshot(ctx context.Context) (requirement.MapFinder, error) {
	return f(ctx)
}

// Static is a Source that always returns the same snapshot.
func Static(finder requirement.MapFinder) Source {
	return SourceFunc(func(_ context.Context) (requirement.MapFinder, error) {
		return finder, nil
	})
}

func validatePlugin(p requirement.KnownPlugin) error {
	if p.Name == "" {
		return errors.New("plugin name is required")
	}

	if p.Version.IsZero() {
		return errors.Newf("plugin %s: version is required", p.Name)
	}

	return nil
}
