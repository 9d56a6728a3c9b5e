package api

import "net/http"

// RegisterRoutes attaches all API endpoints to the mux using Go 1.22
// method-aware patterns.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("POST /gate", h.submitGateCode)

	mux.HandleFunc("GET /home", h.getHome)

	mux.HandleFunc("POST /cases/{caseID}/runs", h.startRun)
	mux.HandleFunc("GET /runs/{runID}", h.getRun)
	mux.HandleFunc("POST /runs/{runID}/stages/{stageKey}", h.submitStage)
	mux.HandleFunc("POST /runs/{runID}/hints/{stageKey}", h.useHint)
	mux.HandleFunc("GET /runs/{runID}/feedback", h.getFeedback)
	mux.HandleFunc("POST /runs/{runID}/finish", h.finishRun)

	mux.HandleFunc("GET /reviews/due", h.getDueReviews)
	mux.HandleFunc("GET /export.csv", h.exportCSV)
}
