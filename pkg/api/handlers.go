package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmarsden/flowplan/pkg/logging"
	"github.com/jmarsden/flowplan/pkg/network"
)

// Error categories surfaced to clients. Schema and domain failures are
// both client-correctable but deliberately distinct categories.
const (
	categoryInvalidRequest = "invalid_request"
	categoryDomainError    = "domain_error"
	categoryInternalError  = "internal_error"
)

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, categoryInvalidRequest, "method not allowed")
		return
	}

	var req network.Request
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, categoryInvalidRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := s.backend.Solve(r.Context(), &req)
	if err != nil {
		var schemaErr *network.SchemaError
		var domainErr *network.DomainError
		switch {
		case errors.As(err, &schemaErr):
			s.respondError(w, r, http.StatusBadRequest, categoryInvalidRequest, schemaErr.Reason)
		case errors.As(err, &domainErr):
			s.respondError(w, r, http.StatusBadRequest, categoryDomainError, domainErr.Reason)
		default:
			// Internal detail is logged, not exposed.
			s.log.Error("solve failed", logging.RequestID(requestIDFrom(r)), logging.Error(err))
			s.respondError(w, r, http.StatusInternalServerError, categoryInternalError, "solve failed")
		}
		return
	}

	// Non-optimal solver outcomes are successful responses: "no feasible
	// plan" is an answer, not a fault.
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := s.health.Check()
	status := http.StatusOK
	if resp.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	s.respondJSON(w, status, resp)
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	resp := s.health.CheckLiveness()
	status := http.StatusOK
	if resp.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	s.respondJSON(w, status, resp)
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	resp := s.health.CheckReadiness()
	status := http.StatusOK
	if resp.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	s.respondJSON(w, status, resp)
}
