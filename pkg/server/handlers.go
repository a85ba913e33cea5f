package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"zephyr-hq/zephyr/pkg/rules"
)

// errorResponse is the JSON body for error responses.
type errorResponse struct {
	Error string `json:"error"`
}

// evaluateRequest is the JSON body for POST /v1/evaluate.
type evaluateRequest struct {
	Facts rules.Facts `json:"facts"`
}

// reloadResponse is the JSON body for POST /v1/rules/reload.
type reloadResponse struct {
	Status string `json:"status"`
	Rules  int    `json:"rules"`
}

// catalogResponse is the JSON body for GET /v1/rules.
type catalogResponse struct {
	Name  string        `json:"name"`
	Rules []*rules.Rule `json:"rules"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, errorResponse{Error: fmt.Sprintf(format, args...)})
}

// handleEvaluate serves POST /v1/evaluate. A malformed body, including fact
// values that are not scalars, is rejected with 400 before evaluation.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req evaluateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	if req.Facts == nil {
		req.Facts = rules.Facts{}
	}

	decision := s.engine.Evaluate(r.Context(), req.Facts)

	if s.store != nil {
		if err := s.store.Record(r.Context(), decision, req.Facts); err != nil {
			s.logger.ErrorContext(r.Context(), "failed to record decision",
				"evaluation_id", decision.EvaluationID,
				"error", err,
			)
		}
	}

	writeJSON(w, http.StatusOK, decision)
}

// handleRules serves GET /v1/rules with the active catalog.
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	catalog := s.engine.Catalog()
	writeJSON(w, http.StatusOK, catalogResponse{
		Name:  catalog.Name,
		Rules: catalog.Rules,
	})
}

// handleReload serves POST /v1/rules/reload. A failed reload keeps the
// previous catalog active and reports 422.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.engine.Reload(r.Context()); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "reload failed: %v", err)
		return
	}

	writeJSON(w, http.StatusOK, reloadResponse{
		Status: "reloaded",
		Rules:  len(s.engine.Catalog().Rules),
	})
}

// handleDecisions serves GET /v1/decisions?limit=N from the history store.
func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.store == nil {
		writeError(w, http.StatusNotImplemented, "decision history is disabled")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 1000 {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 1000")
			return
		}
		limit = parsed
	}

	records, err := s.store.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list decisions")
		s.logger.ErrorContext(r.Context(), "failed to list decisions", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}
