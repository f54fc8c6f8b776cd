package api

import "time"

// ValidateRequest is the body of POST /api/v1/validate.
type ValidateRequest struct {
	// Name overrides the plugin name, which XML descriptors do not carry.
	Name        string `json:"name,omitempty"`
	Descriptor  string `json:"descriptor"`
	HostVersion string `json:"hostVersion"`
	All         bool   `json:"all"`
}

// Violation is one failed rule.
type Violation struct {
	Kind    string `json:"kind"`
	Plugin  string `json:"plugin,omitempty"`
	Version string `json:"version,omitempty"`
	Message string `json:"message"`
}

// ValidateResponse is returned by POST /api/v1/validate.
type ValidateResponse struct {
	Plugin     string      `json:"plugin,omitempty"`
	Compatible bool        `json:"compatible"`
	Violations []Violation `json:"violations"`
}

// PlanRequest is the body of POST /api/v1/plan.
type PlanRequest struct {
	Descriptors  []string `json:"descriptors"`
	HostVersions []string `json:"hostVersions"`
}

// PlanResponse is returned by POST /api/v1/plan.
type PlanResponse struct {
	HostVersion string   `json:"hostVersion"`
	Compatible  []string `json:"compatible"`
}

// Blocker names a plugin rejecting the highest candidate.
type Blocker struct {
	Plugin    string    `json:"plugin"`
	Violation Violation `json:"violation"`
}

// PlanConflict is returned with 409 when no candidate fits.
type PlanConflict struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Candidate string    `json:"candidate"`
	Blockers  []Blocker `json:"blockers"`
}

// Plugin is one known plugin in GET /api/v1/plugins.
type Plugin struct {
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Active      bool       `json:"active"`
	Installed   bool       `json:"installed"`
	InstalledAt *time.Time `json:"installedAt,omitempty"`
}

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

// VersionResponse is returned by GET /api/v1/version.
type VersionResponse struct {
	Version    string `json:"version"`
	APIVersion string `json:"apiVersion"`
	GitCommit  string `json:"gitCommit,omitempty"`
	BuildDate  string `json:"buildDate,omitempty"`
	GoVersion  string `json:"goVersion"`
}

// ErrorResponse is the body of every other non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error codes.
const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeNoSolution           = "NO_SOLUTION"
	CodeInventoryUnavailable = "INVENTORY_UNAVAILABLE"
)

// Health statuses.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)
