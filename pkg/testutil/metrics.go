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
	"sync"
	"time"

	"github.com/lexfrei/plugcheck/pkg/metrics"
)

// MockMetricsRecorder records every call for later assertions.
type MockMetricsRecorder struct {
	mu sync.Mutex

	ValidationResults []string
	InventorySources  []string
	InventoryErrors   []error
	SolverRuns        int
}

var _ metrics.Recorder = (*MockMetricsRecorder)(nil)

// RecordValidation records the result label.
func (m *MockMetricsRecorder) RecordValidation(result string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ValidationResults = append(m.ValidationResults, result)
}

// RecordInventoryLoad records the source and outcome.
func (m *MockMetricsRecorder) RecordInventoryLoad(source string, err error, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InventorySources = append(m.InventorySources, source)
	m.InventoryErrors = append(m.InventoryErrors, err)
}

// RecordSolverRun counts solver runs.
func (m *MockMetricsRecorder) RecordSolverRun(_ string, _ error, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SolverRuns++
}

// Validations returns a copy of the recorded validation results.
func (m *MockMetricsRecorder) Validations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.ValidationResults...)
}
