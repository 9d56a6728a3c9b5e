package api

import (
	"net/http"
)

// ── Request / Response types ────────────────────────────────────────────────

type HomeResponse struct {
	Streak     int           `json:"streak"`
	XP         int           `json:"xp"`
	CasesToday int           `json:"cases_today"`
	DueCount   int           `json:"due_count"`
	DueTags    []string      `json:"due_tags"`
	Cases      []CaseSummary `json:"cases"`
}

type CaseSummary struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Level              string   `json:"level"`
	Systems            []string `json:"systems"`
	CurriculumOutcomes []string `json:"curriculum_outcomes"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /home
//
// @Summary  Home view: streak, XP, due weak spots, available cases
// @Produce  json
// @Success  200 {object} HomeResponse
// @Router   /home [get]
func (h *Handler) getHome(w http.ResponseWriter, r *http.Request) {
	view, err := h.cases.Home(r.Context(), sessionID(r))
	if h.handleServiceError(w, err) {
		return
	}

	cases := h.cases.Cases()
	summaries := make([]CaseSummary, len(cases))
	for i, c := range cases {
		summaries[i] = CaseSummary{
			ID:                 c.ID,
			Title:              c.Title,
			Level:              c.Level,
			Systems:            c.Systems,
			CurriculumOutcomes: c.CurriculumOutcomes,
		}
	}

	dueTags := view.DueTags
	if dueTags == nil {
		dueTags = []string{}
	}
	respondJSON(w, http.StatusOK, HomeResponse{
		Streak:     view.Streak,
		XP:         view.XP,
		CasesToday: view.CasesToday,
		DueCount:   view.DueCount,
		DueTags:    dueTags,
		Cases:      summaries,
	})
}
