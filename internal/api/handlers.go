package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/CanyenPalmer/Best-Bet-NFL/internal/evaluation"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/models"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/provider"
)

// errorResponse is the JSON body for failed requests
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleEvaluateSingle(w http.ResponseWriter, r *http.Request) {
	var spec evaluation.BetSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	result, err := s.service.EvaluateSingle(r.Context(), spec)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleEvaluateParlay(w http.ResponseWriter, r *http.Request) {
	var spec evaluation.ParlaySpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	result, err := s.service.EvaluateParlay(r.Context(), spec)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleEvaluateBatch(w http.ResponseWriter, r *http.Request) {
	var spec evaluation.BatchSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	// Batch items are isolated; the response is always 200 with
	// per-item error markers
	writeJSON(w, http.StatusOK, s.service.EvaluateBatch(r.Context(), spec))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.service.Snapshot())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":       "refreshed",
		"refreshed_at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps evaluation errors onto HTTP status codes: caller
// mistakes are 400s, provider trouble is a 502, anything else a 500.
func statusFor(err error) int {
	var provErr provider.ProviderError
	switch {
	case errors.Is(err, models.ErrPayoutUnresolved):
		return http.StatusBadRequest
	case errors.As(err, &provErr):
		return http.StatusBadGateway
	case isValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// isValidationError recognizes spec validation failures by their
// wrapping messages from the evaluation package.
func isValidationError(err error) bool {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "invalid bet spec") ||
		strings.Contains(msg, "invalid parlay spec") ||
		strings.Contains(msg, "missing required fields")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
