package api

import (
	"net/http"

	"github.com/enso-trainer/backend/internal/analytics"
)

// GET /export.csv
//
// @Summary  Download the raw analytics event log as CSV
// @Produce  text/csv
// @Router   /export.csv [get]
func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.ListEvents(r.Context())
	if h.handleServiceError(w, err) {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="events.csv"`)
	if err := analytics.WriteCSV(w, events); err != nil {
		h.logger.Error("failed to write csv export", "error", err)
	}
}
