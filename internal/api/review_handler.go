package api

import (
	"net/http"
)

// ── Request / Response types ────────────────────────────────────────────────

type DueReviewsResponse struct {
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /reviews/due
//
// @Summary  List review targets due for the current session
// @Produce  json
// @Success  200 {object} DueReviewsResponse
// @Router   /reviews/due [get]
func (h *Handler) getDueReviews(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)

	// The scheduler degrades to empty/zero on store failures; nothing to map.
	count := h.reviews.CountDue(r.Context(), sid)
	tags := h.reviews.ListDue(r.Context(), sid, 50)
	if tags == nil {
		tags = []string{}
	}
	respondJSON(w, http.StatusOK, DueReviewsResponse{Count: count, Tags: tags})
}
