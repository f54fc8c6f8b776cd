package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/plugcheck/pkg/descriptor"
	"github.com/lexfrei/plugcheck/pkg/requirement"
	"github.com/lexfrei/plugcheck/pkg/solver"
	"github.com/lexfrei/plugcheck/pkg/version"
)

// handleValidate checks one descriptor against a host version and the current inventory.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ValidateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	meta, err := descriptor.Parse([]byte(req.Descriptor))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	if req.Name != "" {
		meta.Name = req.Name
	}

	host, err := version.Parse(req.HostVersion)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("invalid hostVersion: %v", err))
		return
	}

	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load inventory", "error", err)
		writeError(w, http.StatusServiceUnavailable, CodeInventoryUnavailable, "Failed to load inventory")
		return
	}

	validator := requirement.NewValidator(snapshot,
		requirement.WithHostName(s.hostName),
		requirement.WithRecorder(s.recorder),
		requirement.WithLogger(s.logger),
	)

	var violations []*requirement.ValidationError

	if req.All {
		violations = validator.ValidateAll(meta, host)
	} else {
		var ve *requirement.ValidationError
		if errors.As(validator.Validate(meta, host), &ve) {
			violations = append(violations, ve)
		}
	}

	resp := ValidateResponse{
		Plugin:     meta.Name,
		Compatible: len(violations) == 0,
		Violations: make([]Violation, 0, len(violations)),
	}

	for _, ve := range violations {
		resp.Violations = append(resp.Violations, NewViolation(ve))
	}

	writeJSON(w, http.StatusOK, resp)
}

// handlePlan finds the highest host version every submitted descriptor accepts.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PlanRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	plugins := make([]requirement.Metadata, 0, len(req.Descriptors))

	for i, raw := range req.Descriptors {
		meta, err := descriptor.Parse([]byte(raw))
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("descriptor %d: %v", i, err))
			return
		}

		if meta.Name == "" {
			meta.Name = displayName(meta, i)
		}

		plugins = append(plugins, meta)
	}

	candidates, err := version.ParseList(req.HostVersions)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("invalid hostVersions: %v", err))
		return
	}

	if len(candidates) == 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "hostVersions must not be empty")
		return
	}

	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load inventory", "error", err)
		writeError(w, http.StatusServiceUnavailable, CodeInventoryUnavailable, "Failed to load inventory")
		return
	}

	best, err := s.solver.FindBestHostVersion(ctx, plugins, candidates, snapshot)
	if errors.Is(err, solver.ErrNoSolution) {
		highest := version.Max(candidates)
		conflict := PlanConflict{
			Error:     err.Error(),
			Code:      CodeNoSolution,
			Candidate: highest.String(),
		}

		for _, b := range s.solver.Blockers(plugins, highest, snapshot) {
			conflict.Blockers = append(conflict.Blockers, Blocker{Plugin: b.Plugin, Violation: s.toHostViolation(b.Err)})
		}

		writeJSON(w, http.StatusConflict, conflict)

		return
	}

	if err != nil {
		slog.ErrorContext(ctx, "Host version search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Host version search failed")

		return
	}

	compatible, err := s.solver.CompatibleHostVersions(ctx, plugins, candidates, snapshot)
	if err != nil {
		slog.ErrorContext(ctx, "Host version search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Host version search failed")

		return
	}

	resp := PlanResponse{
		HostVersion: best.String(),
		Compatible:  make([]string, 0, len(compatible)),
	}

	for _, v := range compatible {
		resp.Compatible = append(resp.Compatible, v.String())
	}

	writeJSON(w, http.StatusOK, resp)
}

// handlePlugins lists the current inventory snapshot sorted by name.
func (s *Server) handlePlugins(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load inventory", "error", err)
		writeError(w, http.StatusServiceUnavailable, CodeInventoryUnavailable, "Failed to load inventory")
		return
	}

	known := snapshot.Plugins()
	plugins := make([]Plugin, 0, len(known))

	for _, p := range known {
		plugins = append(plugins, Plugin{
			Name:        p.Name,
			Version:     p.Version.String(),
			Active:      p.Active,
			Installed:   p.Installed(),
			InstalledAt: p.InstalledAt,
		})
	}

	writeJSON(w, http.StatusOK, plugins)
}

// handleHealth reports whether the inventory can be loaded.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := s.source.Snapshot(ctx); err != nil {
		slog.WarnContext(ctx, "Health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    StatusUnhealthy,
			Timestamp: time.Now(),
			Error:     "inventory unavailable",
		})

		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Version:    s.versionInfo.Version,
		APIVersion: "v1",
		GitCommit:  s.versionInfo.GitCommit,
		BuildDate:  s.versionInfo.BuildDate,
		GoVersion:  runtime.Version(),
	})
}

// toHostViolation fills the host name for errors built by the solver's
// default validator.
func (s *Server) toHostViolation(ve *requirement.ValidationError) Violation {
	named := *ve
	named.Host = s.hostName

	return NewViolation(&named)
}

// displayName names an anonymous descriptor by its label or position.
func displayName(meta requirement.Metadata, index int) string {
	if meta.Label != "" {
		return meta.Label
	}

	return fmt.Sprintf("descriptor %d", index)
}

// NewViolation converts a validation error to its wire form.
func NewViolation(ve *requirement.ValidationError) Violation {
	v := Violation{
		Kind:    string(ve.Kind),
		Plugin:  ve.Plugin,
		Message: ve.Error(),
	}

	if !ve.Version.IsZero() {
		v.Version = ve.Version.String()
	}

	return v
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(target); err != nil {
		return errors.Wrap(err, "invalid request body")
	}

	if dec.More() {
		return errors.New("invalid request body: trailing data")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error: strings.TrimSpace(msg),
		Code:  code,
	})
}
