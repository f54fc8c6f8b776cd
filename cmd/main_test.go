/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexfrei/plugcheck/internal/config"
	"github.com/lexfrei/plugcheck/pkg/api"
)

const exampleDescriptor = `<?xml version="1.0" encoding="utf-8"?>
<plugin>
    <label lang="en">Example</label>
    <version>2.3.1</version>
    <compatibility minVersion="5.2.0" maxVersion="5.4"/>
    <requiredPlugins>
        <requiredPlugin pluginName="SwagBundle" minVersion="2.0"/>
    </requiredPlugins>
</plugin>`

const legacyDescriptor = `<?xml version="1.0" encoding="utf-8"?>
<plugin>
    <version>1.0.0</version>
    <compatibility maxVersion="5.3"/>
</plugin>`

const testInventory = `plugins:
  - name: SwagBundle
    version: "2.5"
    active: true
    installedAt: 2016-01-01T11:00:00Z
  - name: SwagLiveShopping
    version: "1.0"
`

type result struct {
	code   int
	stdout string
	stderr string
}

func execute(ctx context.Context, t *testing.T, args ...string) result {
	t.Helper()

	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer

	root := newRootCommand(cfg, &stdout, &stderr)
	root.SetArgs(append([]string{"--log-format", "text", "--log-level", "error"}, args...))

	code := exitCode(root.ExecuteContext(ctx), &stderr)

	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// writeFixtures lays out two plugin directories and a YAML inventory.
func writeFixtures(t *testing.T) (example, legacy, inventoryFile string) {
	t.Helper()

	dir := t.TempDir()

	example = filepath.Join(dir, "SwagExample", "plugin.xml")
	legacy = filepath.Join(dir, "SwagLegacy", "plugin.xml")
	inventoryFile = filepath.Join(dir, "inventory.yaml")

	for path, content := range map[string]string{
		example:       exampleDescriptor,
		legacy:        legacyDescriptor,
		inventoryFile: testInventory,
	} {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return example, legacy, inventoryFile
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer

	assert.Equal(t, exitOK, exitCode(nil, &stderr))
	assert.Equal(t, exitIncompatible, exitCode(errors.Wrap(errIncompatible, "check"), &stderr))
	assert.Empty(t, stderr.String())

	assert.Equal(t, exitError, exitCode(errors.New("boom"), &stderr))
	assert.Equal(t, "Error: boom\n", stderr.String())
}

func TestValidate_Compatible(t *testing.T) {
	t.Parallel()

	example, _, inv := writeFixtures(t)

	res := execute(context.Background(), t, "validate", example, "--host-version", "5.2.0", "--inventory", inv)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "SwagExample 2.3.1 is compatible with host 5.2.0\n", res.stdout)
}

func TestValidate_IncompatibleExitsTwo(t *testing.T) {
	t.Parallel()

	example, _, _ := writeFixtures(t)

	res := execute(context.Background(), t, "validate", example,
		"--host-version", "5.1", "--host-name", "Shopware", "--all")
	require.Equal(t, exitIncompatible, res.code, res.stderr)

	assert.Contains(t, res.stdout, "SwagExample 2.3.1 is not compatible with Shopware 5.1:")
	assert.Contains(t, res.stdout, "  - HostVersionTooLow: plugin requires at least Shopware version 5.2.0\n")
	assert.Contains(t, res.stdout, "  - RequiredPluginMissing: required plugin SwagBundle was not found\n")
}

func TestValidate_JSONOutput(t *testing.T) {
	t.Parallel()

	example, _, inv := writeFixtures(t)

	res := execute(context.Background(), t, "validate", example,
		"--host-version", "5.5", "--inventory", inv, "-o", "json")
	require.Equal(t, exitIncompatible, res.code, res.stderr)

	var resp api.ValidateResponse
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))

	assert.Equal(t, "SwagExample", resp.Plugin)
	assert.False(t, resp.Compatible)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, "HostVersionTooHigh", resp.Violations[0].Kind)
	assert.Equal(t, "5.4", resp.Violations[0].Version)
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	example, _, inv := writeFixtures(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing descriptor",
			args:    []string{"validate", filepath.Join(t.TempDir(), "plugin.xml"), "--host-version", "5.2"},
			wantErr: "Error:",
		},
		{
			name:    "bad host version",
			args:    []string{"validate", example, "--host-version", "five"},
			wantErr: "invalid --host-version",
		},
		{
			name:    "host version required",
			args:    []string{"validate", example},
			wantErr: `required flag(s) "host-version" not set`,
		},
		{
			name:    "unsupported output",
			args:    []string{"validate", example, "--host-version", "5.2", "-o", "xml"},
			wantErr: `unsupported output "xml"`,
		},
		{
			name:    "both inventories",
			args:    []string{"validate", example, "--host-version", "5.2", "--inventory", inv, "--db", "x.db"},
			wantErr: "mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := execute(context.Background(), t, tt.args...)
			assert.Equal(t, exitError, res.code)
			assert.Contains(t, res.stderr, tt.wantErr)
		})
	}
}

func TestPlan(t *testing.T) {
	t.Parallel()

	example, legacy, inv := writeFixtures(t)

	res := execute(context.Background(), t, "plan", example, legacy, "--inventory", inv,
		"--host-version", "5.1", "--host-version", "5.2.0,5.3", "--host-version", "5.4", "-o", "json")
	require.Equal(t, exitOK, res.code, res.stderr)

	var resp api.PlanResponse
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "5.3", resp.HostVersion)
	assert.Equal(t, []string{"5.3", "5.2.0"}, resp.Compatible)
}

func TestPlan_NoSolutionPrintsBlockers(t *testing.T) {
	t.Parallel()

	example, legacy, inv := writeFixtures(t)

	res := execute(context.Background(), t, "plan", example, legacy, "--inventory", inv,
		"--host-name", "Shopware", "--host-version", "5.1", "--host-version", "5.4")
	require.Equal(t, exitIncompatible, res.code, res.stderr)

	assert.Contains(t, res.stdout, "No Shopware version fits every plugin. Blocking Shopware 5.4:")
	assert.Contains(t, res.stdout, "PLUGIN")
	assert.Contains(t, res.stdout, "SwagLegacy")
	assert.Contains(t, res.stdout, "plugin is only compatible with Shopware version <= 5.3")
	assert.NotContains(t, res.stdout, "SwagExample")
}

func TestInventory_ImportListRemove(t *testing.T) {
	t.Parallel()

	_, _, inv := writeFixtures(t)
	db := filepath.Join(t.TempDir(), "inventory.db")
	ctx := context.Background()

	res := execute(ctx, t, "inventory", "import", inv, "--db", db)
	require.Equal(t, exitOK, res.code, res.stderr)

	res = execute(ctx, t, "inventory", "list", "--db", db)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "SwagBundle")
	assert.Contains(t, res.stdout, "2016-01-01T11:00:00Z")
	assert.Contains(t, res.stdout, "SwagLiveShopping")

	res = execute(ctx, t, "inventory", "remove", "SwagLiveShopping", "--db", db)
	require.Equal(t, exitOK, res.code, res.stderr)

	res = execute(ctx, t, "inventory", "list", "--db", db, "-o", "yaml")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "name: SwagBundle")
	assert.NotContains(t, res.stdout, "SwagLiveShopping")

	res = execute(ctx, t, "inventory", "remove", "SwagLiveShopping", "--db", db)
	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, "plugin not found")
}

func TestInventory_ListJSONFromFile(t *testing.T) {
	t.Parallel()

	_, _, inv := writeFixtures(t)

	res := execute(context.Background(), t, "inventory", "list", "--inventory", inv, "-o", "json")
	require.Equal(t, exitOK, res.code, res.stderr)

	var plugins []api.Plugin
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &plugins))
	require.Len(t, plugins, 2)
	assert.True(t, plugins[0].Installed)
	assert.False(t, plugins[1].Installed)
}

func TestInventory_EmptyTable(t *testing.T) {
	t.Parallel()

	res := execute(context.Background(), t, "inventory", "list")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "No plugins found")
}

func TestInventory_ImportRequiresDB(t *testing.T) {
	t.Parallel()

	_, _, inv := writeFixtures(t)

	res := execute(context.Background(), t, "inventory", "import", inv)
	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, "--db is required")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	res := execute(context.Background(), t, "version")
	require.Equal(t, exitOK, res.code)
	assert.Contains(t, res.stdout, "plugcheck version dev")
}

func TestServe_StopsOnCancel(t *testing.T) {
	t.Parallel()

	_, _, inv := writeFixtures(t)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan result, 1)
	go func() {
		done <- execute(ctx, t, "serve", "--addr", "127.0.0.1:0", "--inventory", inv,
			"--refresh-schedule", "@every 1h")
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case res := <-done:
		assert.Equal(t, exitOK, res.code, res.stderr)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop within timeout")
	}
}

func TestServe_RejectsBadSchedule(t *testing.T) {
	t.Parallel()

	res := execute(context.Background(), t, "serve", "--addr", "127.0.0.1:0", "--refresh-schedule", "whenever")
	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, `invalid schedule "whenever"`)
}
