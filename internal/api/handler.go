package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/enso-trainer/backend/internal/review"
	"github.com/enso-trainer/backend/internal/scoring"
	"github.com/enso-trainer/backend/internal/service"
	"github.com/enso-trainer/backend/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	cases   *service.CaseService
	reviews *review.Scheduler
	store   store.Store
	logger  *slog.Logger

	accessCode string
	gateKey    string
}

// NewHandler creates a Handler with the given dependencies. An empty
// accessCode disables the gate.
func NewHandler(cases *service.CaseService, reviews *review.Scheduler, s store.Store, logger *slog.Logger, accessCode, gateKey string) *Handler {
	return &Handler{
		cases:      cases,
		reviews:    reviews,
		store:      s,
		logger:     logger,
		accessCode: accessCode,
		gateKey:    gateKey,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON decodes the request body into v. On failure it writes a 400
// and returns false (caller should return).
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// handleServiceError maps service/scoring errors onto HTTP statuses.
// Returns true if an error was handled (caller should return).
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, service.ErrCaseNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, scoring.ErrAlreadySubmitted), errors.Is(err, service.ErrRunFinished):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, scoring.ErrOutOfOrder),
		errors.Is(err, scoring.ErrUnknownStage),
		errors.Is(err, scoring.ErrMissingChoice),
		errors.Is(err, scoring.ErrUnknownOption),
		errors.Is(err, scoring.ErrUnknownRankItem),
		errors.Is(err, scoring.ErrUnknownCheckItem),
		errors.Is(err, service.ErrNoMoreHints),
		errors.Is(err, service.ErrRunNotFinished):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("internal error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
