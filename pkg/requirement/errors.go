/*
Copyright 2026, Aleksei Sviridkin.

SPDX-License-Identifier: BSD-3-Clause
*/

package requirement

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/plugcheck/pkg/version"
)

// Kind identifies which requirement rule a plugin violated.
// Kind implements error so that errors.Is(err, HostVersionTooLow) matches
// any ValidationError of that kind.
type Kind string

// Violation kinds, in the order the checks run.
const (
	HostVersionTooLow                Kind = "HostVersionTooLow"
	HostVersionTooHigh               Kind = "HostVersionTooHigh"
	HostVersionBlacklisted           Kind = "HostVersionBlacklisted"
	RequiredPluginMissing            Kind = "RequiredPluginMissing"
	RequiredPluginNotInstalled       Kind = "RequiredPluginNotInstalled"
	RequiredPluginNotActive          Kind = "RequiredPluginNotActive"
	RequiredPluginVersionTooLow      Kind = "RequiredPluginVersionTooLow"
	RequiredPluginVersionTooHigh     Kind = "RequiredPluginVersionTooHigh"
	RequiredPluginVersionBlacklisted Kind = "RequiredPluginVersionBlacklisted"
)

func (k Kind) Error() string {
	return string(k)
}

// ValidationError reports the violated rule together with its parameters.
type ValidationError struct {
	Kind Kind
	// Host is the host product name used in the message.
	Host string
	// Plugin is the required plugin name. Empty for host version violations.
	Plugin string
	// Version is the bound or the offending version, depending on Kind:
	// the bound for *TooLow/*TooHigh, the rejected version for *Blacklisted.
	Version version.Version
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case HostVersionTooLow:
		return fmt.Sprintf("plugin requires at least %s version %s", e.Host, e.Version)
	case HostVersionTooHigh:
		return fmt.Sprintf("plugin is only compatible with %s version <= %s", e.Host, e.Version)
	case HostVersionBlacklisted:
		return fmt.Sprintf("%s version %s is blacklisted by the plugin", e.Host, e.Version)
	case RequiredPluginMissing:
		return fmt.Sprintf("required plugin %s was not found", e.Plugin)
	case RequiredPluginNotInstalled:
		return fmt.Sprintf("required plugin %s is not installed", e.Plugin)
	case RequiredPluginNotActive:
		return fmt.Sprintf("required plugin %s is not active", e.Plugin)
	case RequiredPluginVersionTooLow:
		return fmt.Sprintf("version %s of plugin %s is required", e.Version, e.Plugin)
	case RequiredPluginVersionTooHigh:
		return fmt.Sprintf("plugin is only compatible with plugin %s version <= %s", e.Plugin, e.Version)
	case RequiredPluginVersionBlacklisted:
		return fmt.Sprintf("required plugin %s with version %s is blacklisted", e.Plugin, e.Version)
	default:
		return fmt.Sprintf("plugin requirement violated: %s", string(e.Kind))
	}
}

// Is matches a Kind target against the error's kind.
func (e *ValidationError) Is(target error) bool {
	k, ok := target.(Kind)

	return ok && k == e.Kind
}

// KindOf returns the violation kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}

	return "", false
}
