/*
Copyright 2026, Aleksei Sviridkin.

SPDX-License-Identifier: BSD-3-Clause
*/

// Package requirement decides whether a plugin may be installed into a host
// of a given version, based on the host versions the plugin declares support
// for and the companion plugins it requires.
package requirement

import (
	"log/slog"
	"time"

	"github.com/lexfrei/plugcheck/pkg/metrics"
	"github.com/lexfrei/plugcheck/pkg/version"
)

// DefaultHostName is the product name used in messages unless overridden.
const DefaultHostName = "host"

// Validator checks plugin metadata against a host version and the known plugins.
// It holds no mutable state and is safe for concurrent use.
type Validator struct {
	finder   Finder
	hostName string
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithHostName sets the host product name rendered in messages.
func WithHostName(name string) Option {
	return func(v *Validator) {
		if name != "" {
			v.hostName = name
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(v *Validator) {
		if r != nil {
			v.recorder = r
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewValidator creates a Validator that resolves required plugins through finder.
// A nil finder behaves like an empty registry.
func NewValidator(finder Finder, opts ...Option) *Validator {
	if finder == nil {
		finder = MapFinder{}
	}

	v := &Validator{
		finder:   finder,
		hostName: DefaultHostName,
		recorder: &metrics.NoopRecorder{},
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate is a convenience wrapper around NewValidator(finder).Validate.
func Validate(meta Metadata, host version.Version, finder Finder) error {
	return NewValidator(finder).Validate(meta, host)
}

// Validate returns nil if the plugin may be installed, or a *ValidationError for
// the first violated rule. Checks run in a fixed order: host minimum, host
// maximum, host blacklist, then each required plugin in declared order.
func (v *Validator) Validate(meta Metadata, host version.Version) error {
	violations := v.run(meta, host, true)
	if len(violations) == 0 {
		return nil
	}

	return violations[0]
}

// ValidateAll evaluates every rule and returns all violations. For each required
// plugin only its first violation is reported. The first element, if any, is the
// error Validate would return.
func (v *Validator) ValidateAll(meta Metadata, host version.Version) []*ValidationError {
	return v.run(meta, host, false)
}

func (v *Validator) run(meta Metadata, host version.Version, firstOnly bool) []*ValidationError {
	start := time.Now()
	violations := v.collect(meta, host, firstOnly)

	result := metrics.ResultCompatible
	if len(violations) > 0 {
		result = string(violations[0].Kind)
	}

	v.recorder.RecordValidation(result, time.Since(start))

	if len(violations) == 0 {
		v.logger.Debug("plugin requirements satisfied",
			"plugin", meta.Name, "hostVersion", host.String())
	} else {
		v.logger.Debug("plugin requirements violated",
			"plugin", meta.Name, "hostVersion", host.String(),
			"kind", string(violations[0].Kind), "violations", len(violations))
	}

	return violations
}

func (v *Validator) collect(meta Metadata, host version.Version, firstOnly bool) []*ValidationError {
	var violations []*ValidationError

	add := func(e *ValidationError) bool {
		violations = append(violations, e)

		return firstOnly
	}

	if !meta.MinHostVersion.IsZero() && host.Less(meta.MinHostVersion) {
		if add(v.hostError(HostVersionTooLow, meta.MinHostVersion)) {
			return violations
		}
	}

	if !meta.MaxHostVersion.IsZero() && host.Greater(meta.MaxHostVersion) {
		if add(v.hostError(HostVersionTooHigh, meta.MaxHostVersion)) {
			return violations
		}
	}

	if version.Contains(meta.BlacklistedHostVersions, host) {
		if add(v.hostError(HostVersionBlacklisted, host)) {
			return violations
		}
	}

	for _, req := range meta.RequiredPlugins {
		if e := v.checkRequired(req); e != nil {
			if add(e) {
				return violations
			}
		}
	}

	return violations
}

func (v *Validator) checkRequired(req RequiredPlugin) *ValidationError {
	known, ok := v.finder.FindByName(req.Name)

	switch {
	case !ok:
		return v.pluginError(RequiredPluginMissing, req.Name, version.Version{})
	case !known.Installed():
		return v.pluginError(RequiredPluginNotInstalled, req.Name, version.Version{})
	case !known.Active:
		return v.pluginError(RequiredPluginNotActive, req.Name, version.Version{})
	case !req.MinVersion.IsZero() && known.Version.Less(req.MinVersion):
		return v.pluginError(RequiredPluginVersionTooLow, req.Name, req.MinVersion)
	case !req.MaxVersion.IsZero() && known.Version.Greater(req.MaxVersion):
		return v.pluginError(RequiredPluginVersionTooHigh, req.Name, req.MaxVersion)
	case version.Contains(req.BlacklistedVersions, known.Version):
		return v.pluginError(RequiredPluginVersionBlacklisted, req.Name, known.Version)
	}

	return nil
}

func (v *Validator) hostError(kind Kind, ver version.Version) *ValidationError {
	return &ValidationError{Kind: kind, Host: v.hostName, Version: ver}
}

func (v *Validator) pluginError(kind Kind, plugin string, ver version.Version) *ValidationError {
	return &ValidationError{Kind: kind, Host: v.hostName, Plugin: plugin, Version: ver}
}
