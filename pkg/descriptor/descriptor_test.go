/*
Copyright 2026, Aleksei Sviridkin.

SPDX-License-Identifier: BSD-3-Clause
*/

package descriptor

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexfrei/plugcheck/pkg/requirement"
	"github.com/lexfrei/plugcheck/pkg/version"
)

func TestReadFile_VersionRequirement(t *testing.T) {
	t.Parallel()

	meta, err := ReadFile(filepath.Join("testdata", "shopware_version_requirement.xml"))
	require.NoError(t, err)

	assert.Equal(t, "shopware_version_requirement", meta.Name)
	assert.Equal(t, "Version requirement", meta.Label)
	assert.Equal(t, "1.0.0", meta.Version.String())
	assert.Equal(t, "shopware AG", meta.Author)
	assert.Equal(t, "MIT", meta.License)
	assert.Equal(t, "5.1.0", meta.MinHostVersion.String())
	assert.Equal(t, "5.2", meta.MaxHostVersion.String())
	require.Len(t, meta.BlacklistedHostVersions, 1)
	assert.Equal(t, "5.1.2", meta.BlacklistedHostVersions[0].String())
	assert.Empty(t, meta.RequiredPlugins)
}

func TestReadFile_RequiredPlugins(t *testing.T) {
	t.Parallel()

	meta, err := ReadFile(filepath.Join("testdata", "shopware_required_plugin.xml"))
	require.NoError(t, err)

	assert.True(t, meta.MinHostVersion.IsZero())
	assert.True(t, meta.MaxHostVersion.IsZero())
	require.Len(t, meta.RequiredPlugins, 2)

	bundle := meta.RequiredPlugins[0]
	assert.Equal(t, "SwagBundle", bundle.Name)
	assert.Equal(t, "2.0", bundle.MinVersion.String())
	assert.Equal(t, "3.0", bundle.MaxVersion.String())
	require.Len(t, bundle.BlacklistedVersions, 1)
	assert.Equal(t, "2.1", bundle.BlacklistedVersions[0].String())

	live := meta.RequiredPlugins[1]
	assert.Equal(t, "SwagLiveShopping", live.Name)
	assert.True(t, live.MinVersion.IsZero())
	assert.True(t, live.MaxVersion.IsZero())
	assert.Empty(t, live.BlacklistedVersions)
}

func TestReadFile_PluginDirectoryName(t *testing.T) {
	t.Parallel()

	meta, err := ReadFile(filepath.Join("testdata", "SwagExample", FileName))
	require.NoError(t, err)

	assert.Equal(t, "SwagExample", meta.Name)
	assert.Equal(t, "Example", meta.Label)
	assert.Equal(t, "https://example.com/swag-example", meta.Link)
	assert.Equal(t, "Example plugin used by the descriptor tests.", meta.Description)
	assert.Equal(t, "5.2.0", meta.MinHostVersion.String())
}

func TestReadFile_Errors(t *testing.T) {
	t.Parallel()

	_, err := ReadFile(filepath.Join("testdata", "does-not-exist.xml"))
	require.Error(t, err)

	_, err = ReadFile(filepath.Join("testdata", "invalid_version.xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minVersion")
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "not xml",
			input:   "plugin: yaml",
			wantMsg: "failed to decode plugin descriptor",
		},
		{
			name:    "wrong root element",
			input:   "<theme><version>1.0</version></theme>",
			wantMsg: "failed to decode plugin descriptor",
		},
		{
			name:    "required plugin without name",
			input:   `<plugin><requiredPlugins><requiredPlugin minVersion="1.0"/></requiredPlugins></plugin>`,
			wantMsg: "pluginName is required",
		},
		{
			name:    "invalid blacklist entry",
			input:   `<plugin><compatibility><blacklist>abc</blacklist></compatibility></plugin>`,
			wantMsg: "invalid compatibility blacklist",
		},
		{
			name:    "invalid required plugin max",
			input:   `<plugin><requiredPlugins><requiredPlugin pluginName="A" maxVersion="x"/></requiredPlugins></plugin>`,
			wantMsg: "plugin A maxVersion",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestPickLocalized(t *testing.T) {
	t.Parallel()

	assert.Empty(t, pickLocalized(nil))
	assert.Equal(t, "Hallo", pickLocalized([]localizedXML{{Lang: "de", Value: " Hallo "}}))
	assert.Equal(t, "Plain", pickLocalized([]localizedXML{{Lang: "de", Value: "Hallo"}, {Value: "Plain"}}))
	assert.Equal(t, "Hello", pickLocalized([]localizedXML{{Value: "Plain"}, {Lang: "en", Value: "Hello"}}))
}

// Descriptor fixtures drive the checker end to end.
func TestDescriptorDrivesValidation(t *testing.T) {
	t.Parallel()

	meta, err := Read(strings.NewReader(`<plugin>
		<compatibility minVersion="5.1.0" maxVersion="5.2"><blacklist>5.1.2</blacklist></compatibility>
	</plugin>`))
	require.NoError(t, err)

	tests := []struct {
		host     string
		wantKind requirement.Kind
	}{
		{host: "4.0.0", wantKind: requirement.HostVersionTooLow},
		{host: "5.1.0"},
		{host: "5.3", wantKind: requirement.HostVersionTooHigh},
		{host: "5.1.2", wantKind: requirement.HostVersionBlacklisted},
		{host: "5.1.3"},
	}

	for _, tt := range tests {
		err := requirement.Validate(meta, version.MustParse(tt.host), nil)
		if tt.wantKind == "" {
			assert.NoError(t, err, "host %s", tt.host)

			continue
		}

		assert.ErrorIs(t, err, tt.wantKind, "host %s", tt.host)
	}
}
