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

package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/lexfrei/plugcheck/pkg/requirement"
	"github.com/lexfrei/plugcheck/pkg/version"
)

// InstalledAt is the fixed installation time used by fixtures.
var InstalledAt = time.Date(2016, 1, 1, 11, 0, 0, 0, time.UTC)

// ActivePlugin returns an installed and active plugin at ver.
func ActivePlugin(name, ver string) requirement.KnownPlugin {
	ts := InstalledAt

	return requirement.KnownPlugin{
		Name:        name,
		Version:     version.MustParse(ver),
		Active:      true,
		InstalledAt: &ts,
	}
}

// InactivePlugin returns an installed but inactive plugin at ver.
func InactivePlugin(name, ver string) requirement.KnownPlugin {
	p := ActivePlugin(name, ver)
	p.Active = false

	return p
}

// KnownOnlyPlugin returns a plugin known to the host but never installed.
func KnownOnlyPlugin(name, ver string) requirement.KnownPlugin {
	return requirement.KnownPlugin{
		Name:    name,
		Version: version.MustParse(ver),
	}
}

// MockSource implements inventory.Source for handler and command testing.
type MockSource struct {
	mu sync.Mutex

	// Responses
	Plugins     []requirement.KnownPlugin
	SnapshotErr error

	// Call tracking
	SnapshotCalls int
}

// NewMockSource creates a MockSource serving plugins.
func NewMockSource(plugins ...requirement.KnownPlugin) *MockSource {
	return &MockSource{Plugins: plugins}
}

// Snapshot returns the configured plugins or error.
func (m *MockSource) Snapshot(_ context.Context) (requirement.MapFinder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SnapshotCalls++

	if m.SnapshotErr != nil {
		return nil, m.SnapshotErr
	}

	return requirement.NewMapFinder(m.Plugins...), nil
}

// Calls returns the number of Snapshot calls so far.
func (m *MockSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.SnapshotCalls
}
