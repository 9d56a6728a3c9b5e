package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enso-trainer/backend/internal/analytics"
	"github.com/enso-trainer/backend/internal/api"
	"github.com/enso-trainer/backend/internal/content"
	"github.com/enso-trainer/backend/internal/domain/clinicalcase"
	"github.com/enso-trainer/backend/internal/review"
	"github.com/enso-trainer/backend/internal/scoring"
	"github.com/enso-trainer/backend/internal/service"
	"github.com/enso-trainer/backend/internal/store"
)

func newTestServer(t *testing.T, accessCode, gateKey string) (*httptest.Server, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scheduler := review.NewScheduler(s, logger)
	events := analytics.NewRecorder(s, logger)
	engine := scoring.NewEngine(scoring.DefaultPolicy(), scheduler)
	svc := service.NewCaseService(s, engine, scheduler, events, []*clinicalcase.Case{content.ACSChestPain()}, logger)
	handler := api.NewHandler(svc, scheduler, s, logger, accessCode, gateKey)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler)

	srv := httptest.NewServer(api.Session(handler.Gate(mux)))
	t.Cleanup(srv.Close)
	return srv, s
}

// sessionIDOf extracts the session cookie the server issued to this client.
func sessionIDOf(t *testing.T, client *http.Client, rawURL string) string {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == "sid" {
			return c.Value
		}
	}
	t.Fatal("no session cookie issued")
	return ""
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func getJSON(t *testing.T, client *http.Client, url string, wantStatus int, out any) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantStatus, resp.StatusCode)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

func postJSON(t *testing.T, client *http.Client, url string, body any, wantStatus int, out any) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	resp, err := client.Post(url, "application/json", &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantStatus, resp.StatusCode)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

func TestHome_FreshSession(t *testing.T) {
	srv, _ := newTestServer(t, "", "")
	client := newClient(t)

	var home api.HomeResponse
	getJSON(t, client, srv.URL+"/home", http.StatusOK, &home)

	assert.Zero(t, home.Streak)
	assert.Zero(t, home.XP)
	assert.NotNil(t, home.DueTags)
	require.Len(t, home.Cases, 1)
	assert.Equal(t, 3001, home.Cases[0].ID)
	assert.Equal(t, "Chest pain in triage", home.Cases[0].Title)
}

func TestRunFlow_OverHTTP(t *testing.T) {
	srv, _ := newTestServer(t, "", "")
	client := newClient(t)

	var run api.RunResponse
	postJSON(t, client, srv.URL+"/cases/3001/runs", map[string]any{}, http.StatusCreated, &run)
	require.NotEmpty(t, run.ID)
	require.NotNil(t, run.Stage)
	assert.Equal(t, "presenting", run.Stage.Key)
	assert.Equal(t, 1, run.Stage.StageNum)
	assert.Equal(t, 8, run.Stage.StageTotal)
	assert.NotEmpty(t, run.Stage.Prompt)

	// Acknowledge the vignette; the priority stage comes back.
	var submit api.SubmitStageResponse
	postJSON(t, client, srv.URL+"/runs/"+run.ID+"/stages/presenting", map[string]any{}, http.StatusOK, &submit)
	require.NotNil(t, submit.Stage)
	assert.Equal(t, "priority", submit.Stage.Key)
	require.Len(t, submit.Stage.Options, 4)

	// Answer keys stay server-side.
	resp, err := client.Get(srv.URL + "/runs/" + run.ID)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	body := string(raw)
	assert.NotContains(t, body, "ACS_ECG_10MIN")
	assert.NotContains(t, body, `"correct"`)
	assert.NotContains(t, body, "dangerous")

	// A hint before answering.
	var hint api.HintResponse
	postJSON(t, client, srv.URL+"/runs/"+run.ID+"/hints/priority", map[string]any{}, http.StatusOK, &hint)
	assert.Equal(t, 2, hint.Cost)
	assert.NotEmpty(t, hint.Hint)

	postJSON(t, client, srv.URL+"/runs/"+run.ID+"/stages/priority",
		api.SubmitStageRequest{ChoiceID: "B"}, http.StatusOK, &submit)
	assert.Equal(t, "history_rank", submit.Stage.Key)
	// Default confidence 50: 35 base + 5 calibration.
	assert.Equal(t, 40, submit.Delta)

	// Replaying the priority stage is rejected.
	postJSON(t, client, srv.URL+"/runs/"+run.ID+"/stages/priority",
		api.SubmitStageRequest{ChoiceID: "B"}, http.StatusConflict, nil)

	// Stages without hints have none to sell.
	postJSON(t, client, srv.URL+"/runs/"+run.ID+"/hints/history_rank", map[string]any{}, http.StatusBadRequest, nil)
}

func TestRunFlow_NotFoundCases(t *testing.T) {
	srv, _ := newTestServer(t, "", "")
	client := newClient(t)

	postJSON(t, client, srv.URL+"/cases/999/runs", map[string]any{}, http.StatusNotFound, nil)
	getJSON(t, client, srv.URL+"/runs/run_missing", http.StatusNotFound, nil)
	postJSON(t, client, srv.URL+"/cases/notanumber/runs", map[string]any{}, http.StatusBadRequest, nil)
}

func TestSessionIsolation(t *testing.T) {
	srv, _ := newTestServer(t, "", "")
	alice := newClient(t)
	mallory := newClient(t)

	var run api.RunResponse
	postJSON(t, alice, srv.URL+"/cases/3001/runs", map[string]any{}, http.StatusCreated, &run)

	// A different session cannot see the run.
	getJSON(t, mallory, srv.URL+"/runs/"+run.ID, http.StatusNotFound, nil)
	getJSON(t, alice, srv.URL+"/runs/"+run.ID, http.StatusOK, nil)
}

func TestExportCSV(t *testing.T) {
	srv, _ := newTestServer(t, "", "")
	client := newClient(t)

	var run api.RunResponse
	postJSON(t, client, srv.URL+"/cases/3001/runs", map[string]any{}, http.StatusCreated, &run)

	resp, err := client.Get(srv.URL + "/export.csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "ts,session_id,event,topic,case_id,correct,from_review,variant,score,total,percent", lines[0])
	assert.Contains(t, lines[1], "start_case")
}

func TestGate_BlocksUntilCodeAccepted(t *testing.T) {
	srv, _ := newTestServer(t, "open-sesame", "signing-key")
	client := newClient(t)

	// Everything but the gate itself is blocked.
	getJSON(t, client, srv.URL+"/home", http.StatusForbidden, nil)

	postJSON(t, client, srv.URL+"/gate", api.GateRequest{Code: "wrong"}, http.StatusForbidden, nil)

	var gate api.GateResponse
	postJSON(t, client, srv.URL+"/gate", api.GateRequest{Code: "open-sesame"}, http.StatusOK, &gate)
	assert.Equal(t, "ok", gate.Status)

	// The signed cookie now opens the door.
	getJSON(t, client, srv.URL+"/home", http.StatusOK, nil)
}

func TestGate_OpenWhenNoCodeConfigured(t *testing.T) {
	srv, _ := newTestServer(t, "", "")
	client := newClient(t)

	var gate api.GateResponse
	postJSON(t, client, srv.URL+"/gate", api.GateRequest{Code: "anything"}, http.StatusOK, &gate)
	assert.Equal(t, "open", gate.Status)
}

func TestDueReviews_ListsOverdueTags(t *testing.T) {
	srv, s := newTestServer(t, "", "")
	client := newClient(t)

	// First request establishes the session cookie.
	getJSON(t, client, srv.URL+"/home", http.StatusOK, nil)
	sid := sessionIDOf(t, client, srv.URL)

	now := time.Now()
	put := func(tag string, due time.Time) {
		require.NoError(t, s.PutReview(context.Background(), &review.Record{
			SessionID: sid, Tag: tag, NextDue: due, CreatedAt: now, UpdatedAt: now,
		}))
	}
	put("ACS_ECG_10MIN", now.Add(-48*time.Hour))
	put("ACS_TROPONIN_SERIAL", now.Add(-1*time.Hour))
	put("ACS_MANAGEMENT_BUNDLE", now.Add(24*time.Hour))

	var due api.DueReviewsResponse
	getJSON(t, client, srv.URL+"/reviews/due", http.StatusOK, &due)
	assert.Equal(t, 2, due.Count)
	assert.Equal(t, []string{"ACS_ECG_10MIN", "ACS_TROPONIN_SERIAL"}, due.Tags)
}

func TestDueReviews_EmptyForFreshSession(t *testing.T) {
	srv, _ := newTestServer(t, "", "")
	client := newClient(t)

	var due api.DueReviewsResponse
	getJSON(t, client, srv.URL+"/reviews/due", http.StatusOK, &due)
	assert.Zero(t, due.Count)
	assert.NotNil(t, due.Tags)
	assert.Empty(t, due.Tags)
}
