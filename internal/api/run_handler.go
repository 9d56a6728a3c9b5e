package api

import (
	"net/http"
	"strconv"

	"github.com/enso-trainer/backend/internal/domain/caserun"
	"github.com/enso-trainer/backend/internal/domain/clinicalcase"
	"github.com/enso-trainer/backend/internal/scoring"
)

// ── Request / Response types ────────────────────────────────────────────────

type OptionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type VitalsView struct {
	HR   int    `json:"hr"`
	BP   string `json:"bp"`
	RR   int    `json:"rr"`
	SpO2 string `json:"spo2"`
	Temp string `json:"temp"`
}

// StageView presents one stage to the client. Answer keys (correct flags,
// desired order, keyword groups) deliberately never leave the server.
type StageView struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	Kind       string `json:"kind"`
	Prompt     string `json:"prompt,omitempty"`
	StageNum   int    `json:"stage_num"`
	StageTotal int    `json:"stage_total"`

	Options   []OptionView `json:"options,omitempty"`
	Items     []string     `json:"items,omitempty"`
	Checklist []string     `json:"checklist,omitempty"`

	HintsUsed int `json:"hints_used"`
	HintsLeft int `json:"hints_left"`

	Vitals         VitalsView `json:"vitals"`
	ReviewTargets  []string   `json:"review_targets,omitempty"`
	EscalationCues []string   `json:"escalation_cues,omitempty"`
}

type RunResponse struct {
	ID       string     `json:"id"`
	CaseID   int        `json:"case_id"`
	Title    string     `json:"title"`
	Finished bool       `json:"finished"`
	Stage    *StageView `json:"stage,omitempty"`
}

type SubmitStageRequest struct {
	ChoiceID   string   `json:"choice_id,omitempty"`
	Confidence *int     `json:"confidence,omitempty"` // defaults to 50
	Ranks      []string `json:"ranks,omitempty"`
	Ticked     []string `json:"ticked,omitempty"`
	Text       string   `json:"text,omitempty"`
}

type SubmitStageResponse struct {
	Delta    int        `json:"delta"`
	Finished bool       `json:"finished"`
	Stage    *StageView `json:"stage,omitempty"`
}

type HintResponse struct {
	Hint string `json:"hint"`
	Cost int    `json:"cost"`
}

type FeedbackResponse struct {
	Score              int            `json:"score"`
	Calibration        map[string]int `json:"calibration"`
	CalibrationAvg     float64        `json:"calibration_avg"`
	Badges             []string       `json:"badges"`
	Breakdown          []string       `json:"breakdown"`
	ReviewSuggestions  []string       `json:"review_suggestions"`
	Rationale          string         `json:"rationale"`
	Takeaways          []string       `json:"takeaways"`
	Reference          string         `json:"reference"`
	CurriculumOutcomes []string       `json:"curriculum_outcomes"`
	EscalationCues     []string       `json:"escalation_cues"`
}

type FinishResponse struct {
	XP         int `json:"xp"`
	Streak     int `json:"streak"`
	CasesToday int `json:"cases_today"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /cases/{caseID}/runs
//
// @Summary  Start a new case run for the current session
// @Produce  json
// @Success  201 {object} RunResponse
// @Router   /cases/{caseID}/runs [post]
func (h *Handler) startRun(w http.ResponseWriter, r *http.Request) {
	caseID, err := strconv.Atoi(r.PathValue("caseID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid case id")
		return
	}

	run, err := h.cases.StartRun(r.Context(), sessionID(r), caseID)
	if h.handleServiceError(w, err) {
		return
	}

	c, _ := h.cases.Case(caseID)
	respondJSON(w, http.StatusCreated, h.runResponse(c, run))
}

// GET /runs/{runID}
func (h *Handler) getRun(w http.ResponseWriter, r *http.Request) {
	run, c, err := h.cases.GetRun(r.Context(), sessionID(r), r.PathValue("runID"))
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, h.runResponse(c, run))
}

// POST /runs/{runID}/stages/{stageKey}
//
// @Summary  Submit the active stage's decision
// @Accept   json
// @Produce  json
// @Param    request body SubmitStageRequest true "stage inputs"
// @Success  200 {object} SubmitStageResponse
// @Router   /runs/{runID}/stages/{stageKey} [post]
func (h *Handler) submitStage(w http.ResponseWriter, r *http.Request) {
	var req SubmitStageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	confidence := 50
	if req.Confidence != nil {
		confidence = *req.Confidence
	}

	run, delta, err := h.cases.SubmitStage(
		r.Context(), sessionID(r), r.PathValue("runID"), r.PathValue("stageKey"),
		scoring.Input{
			ChoiceID:   req.ChoiceID,
			Confidence: confidence,
			Ranks:      req.Ranks,
			Ticked:     req.Ticked,
			Text:       req.Text,
		},
	)
	if h.handleServiceError(w, err) {
		return
	}

	c, _ := h.cases.Case(run.CaseID)
	respondJSON(w, http.StatusOK, SubmitStageResponse{
		Delta:    delta,
		Finished: run.Finished,
		Stage:    h.stageView(c, run),
	})
}

// POST /runs/{runID}/hints/{stageKey}
func (h *Handler) useHint(w http.ResponseWriter, r *http.Request) {
	hint, cost, err := h.cases.UseHint(r.Context(), sessionID(r), r.PathValue("runID"), r.PathValue("stageKey"))
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, HintResponse{Hint: hint, Cost: cost})
}

// GET /runs/{runID}/feedback
func (h *Handler) getFeedback(w http.ResponseWriter, r *http.Request) {
	fb, err := h.cases.Feedback(r.Context(), sessionID(r), r.PathValue("runID"))
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, FeedbackResponse{
		Score:              fb.Score,
		Calibration:        fb.Calibration,
		CalibrationAvg:     fb.CalibrationAvg,
		Badges:             fb.Badges,
		Breakdown:          fb.Breakdown,
		ReviewSuggestions:  fb.ReviewSuggestions,
		Rationale:          fb.Rationale,
		Takeaways:          fb.Takeaways,
		Reference:          fb.Reference,
		CurriculumOutcomes: fb.CurriculumOutcomes,
		EscalationCues:     fb.EscalationCues,
	})
}

// POST /runs/{runID}/finish
func (h *Handler) finishRun(w http.ResponseWriter, r *http.Request) {
	p, err := h.cases.FinishRun(r.Context(), sessionID(r), r.PathValue("runID"))
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, FinishResponse{
		XP:         p.XP,
		Streak:     p.Streak,
		CasesToday: p.CasesToday,
	})
}

// ── View assembly ───────────────────────────────────────────────────────────

func (h *Handler) runResponse(c *clinicalcase.Case, run *caserun.Run) RunResponse {
	return RunResponse{
		ID:       run.ID,
		CaseID:   run.CaseID,
		Title:    c.Title,
		Finished: run.Finished,
		Stage:    h.stageView(c, run),
	}
}

// stageView renders the stage currently awaiting input, or nil once the
// flow is exhausted.
func (h *Handler) stageView(c *clinicalcase.Case, run *caserun.Run) *StageView {
	key, ok := run.CurrentStageKey(c)
	if !ok {
		return nil
	}
	stage, _ := c.Stage(key)

	view := &StageView{
		Key:        stage.Key,
		Title:      stage.Title,
		Kind:       string(stage.Kind),
		Prompt:     stage.Prompt,
		StageNum:   run.StageIdx + 1,
		StageTotal: len(c.Stages),
		HintsUsed:  run.HintsUsed[key],
		HintsLeft:  len(stage.Hints) - run.HintsUsed[key],
		Vitals: VitalsView{
			HR:   run.Vitals.HR,
			BP:   run.Vitals.BP,
			RR:   run.Vitals.RR,
			SpO2: run.Vitals.SpO2,
			Temp: run.Vitals.Temp,
		},
		ReviewTargets:  run.ReviewTargets,
		EscalationCues: c.EscalationCues,
	}

	for _, o := range stage.Options {
		view.Options = append(view.Options, OptionView{ID: o.ID, Text: o.Text})
	}
	view.Items = stage.Items
	for _, it := range stage.Checklist {
		view.Checklist = append(view.Checklist, it.Text)
	}

	// The presenting stage carries the vignette as its prompt.
	if stage.Kind == clinicalcase.KindInfo && stage.Prompt == "" {
		view.Prompt = c.Presenting
	}
	return view
}
