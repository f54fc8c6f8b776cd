/*
Copyright 2026, Aleksei Sviridkin.

SPDX-License-Identifier: BSD-3-Clause
*/

package requirement

import (
	"slices"
	"strings"
	"time"

	"github.com/lexfrei/plugcheck/pkg/version"
)

// Metadata is the parsed constraint section of a plugin descriptor.
// A zero MinHostVersion or MaxHostVersion means the bound is not set.
type Metadata struct {
	// Name is the technical plugin name.
	Name string
	// Label is the human readable plugin name.
	Label string
	// Version is the plugin's own version.
	Version version.Version
	// Author, License, Link and Description are informational only.
	Author      string
	License     string
	Link        string
	Description string

	// MinHostVersion is the inclusive lower bound on the host version.
	MinHostVersion version.Version
	// MaxHostVersion is the inclusive upper bound on the host version.
	MaxHostVersion version.Version
	// BlacklistedHostVersions are host versions rejected regardless of range.
	BlacklistedHostVersions []version.Version
	// RequiredPlugins are checked in declared order.
	RequiredPlugins []RequiredPlugin
}

// RequiredPlugin is a named dependency with its own version range and blacklist.
type RequiredPlugin struct {
	Name                string
	MinVersion          version.Version
	MaxVersion          version.Version
	BlacklistedVersions []version.Version
}

// KnownPlugin is a plugin the host already knows about.
type KnownPlugin struct {
	Name    string
	Version version.Version
	Active  bool
	// InstalledAt is nil when the plugin is registered but not installed.
	InstalledAt *time.Time
}

// Installed reports whether the plugin has an installation timestamp.
func (p KnownPlugin) Installed() bool {
	return p.InstalledAt != nil
}

// Finder looks up known plugins by name.
type Finder interface {
	FindByName(name string) (KnownPlugin, bool)
}

// FinderFunc adapts a function to the Finder interface.
type FinderFunc func(name string) (KnownPlugin, bool)

// FindByName implements Finder.
func (f FinderFunc) FindByName(name string) (KnownPlugin, bool) {
	return f(name)
}

// MapFinder is an immutable-by-convention in-memory Finder keyed by plugin name.
type MapFinder map[string]KnownPlugin

// NewMapFinder builds a MapFinder. Later entries win on duplicate names.
func NewMapFinder(plugins ...KnownPlugin) MapFinder {
	m := make(MapFinder, len(plugins))
	for _, p := range plugins {
		m[p.Name] = p
	}

	return m
}

// FindByName implements Finder.
func (m MapFinder) FindByName(name string) (KnownPlugin, bool) {
	p, ok := m[name]

	return p, ok
}

// Plugins returns all plugins sorted by name.
func (m MapFinder) Plugins() []KnownPlugin {
	plugins := make([]KnownPlugin, 0, len(m))
	for _, p := range m {
		plugins = append(plugins, p)
	}

	slices.SortFunc(plugins, func(a, b KnownPlugin) int {
		return strings.Compare(a.Name, b.Name)
	})

	return plugins
}
