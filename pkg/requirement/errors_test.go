/*
Copyright 2026, Aleksei Sviridkin.

SPDX-License-Identifier: BSD-3-Clause
*/

package requirement

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/lexfrei/plugcheck/pkg/version"
)

func TestValidationError_IsMatchesKindThroughWrapping(t *testing.T) {
	t.Parallel()

	base := &ValidationError{Kind: RequiredPluginMissing, Host: DefaultHostName, Plugin: "SwagBundle"}
	wrapped := errors.Wrap(base, "install SwagExample")

	assert.ErrorIs(t, wrapped, RequiredPluginMissing)
	assert.NotErrorIs(t, wrapped, RequiredPluginNotActive)

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, RequiredPluginMissing, kind)
}

func TestKindOf_NonValidationError(t *testing.T) {
	t.Parallel()

	kind, ok := KindOf(errors.New("boom"))
	assert.False(t, ok)
	assert.Empty(t, kind)

	_, ok = KindOf(nil)
	assert.False(t, ok)
}

func TestValidationError_UnknownKindMessage(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Kind: Kind("Custom"), Version: version.MustParse("1.0")}

	assert.Equal(t, "plugin requirement violated: Custom", err.Error())
}
