package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/planforge/planforge/internal/db"
	"github.com/planforge/planforge/internal/llm"
	"github.com/planforge/planforge/internal/plan"
)

// stubGenerator returns a fixed valid plan and a configurable health state.
type stubGenerator struct {
	connected bool
}

func (s *stubGenerator) GeneratePlan(ctx context.Context, systemPrompt, userPrompt string) (*llm.RawPlan, []llm.Attempt, error) {
	return &llm.RawPlan{
		UserStories:      json.RawMessage(`[{"title": "Story", "description": "D", "acceptance_criteria": ["ok"]}]`),
		EngineeringTasks: json.RawMessage(`{"Backend": []}`),
		Risks:            json.RawMessage(`[{"risk": "r", "mitigation": "m", "severity": "Low"}]`),
	}, []llm.Attempt{{Number: 1, Model: "test-model", Success: true}}, nil
}

func (s *stubGenerator) CheckConnection(ctx context.Context) bool { return s.connected }

func testServer(t *testing.T) (*sql.DB, http.Handler) {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })

	srv := NewServer(database, &stubGenerator{connected: true}, nil, "127.0.0.1", 0)
	return database, srv.Handler
}

func seedPlan(t *testing.T, database *sql.DB) *plan.FeaturePlan {
	t.Helper()
	p := &plan.FeaturePlan{
		Goal:        "add dark mode",
		Users:       []string{"developer"},
		Constraints: []string{"two weeks"},
		UserStories: []plan.UserStory{{Title: "Toggle theme"}},
		EngineeringTasks: map[string][]plan.EngineeringTask{
			"Frontend": {{ID: "FE-001", Title: "Switch", Order: 1}},
		},
		Risks: []plan.Risk{{Risk: "contrast"}},
	}
	if err := db.InsertPlan(database, p); err != nil {
		t.Fatalf("InsertPlan() error = %v", err)
	}
	return p
}

func doRequest(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleGenerate(t *testing.T) {
	_, handler := testServer(t)

	rec := doRequest(handler, "POST", "/api/plans/generate",
		`{"goal": "add dark mode", "users": ["developer"], "constraints": ["two weeks"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var p plan.FeaturePlan
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.ID == 0 || p.Goal != "add dark mode" {
		t.Errorf("plan = %+v", p)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response should carry a request id")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestHandleGenerate_InvalidBody(t *testing.T) {
	_, handler := testServer(t)

	rec := doRequest(handler, "POST", "/api/plans/generate", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleGenerate_ValidationError(t *testing.T) {
	_, handler := testServer(t)

	rec := doRequest(handler, "POST", "/api/plans/generate",
		`{"goal": "", "users": ["developer"], "constraints": ["two weeks"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INVALID_REQUEST") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleGet(t *testing.T) {
	database, handler := testServer(t)
	p := seedPlan(t, database)

	rec := doRequest(handler, "GET", "/api/plans/"+jsonID(p.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got plan.FeaturePlan
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("id = %d, want %d", got.ID, p.ID)
	}
}

func TestHandleGet_NotFound(t *testing.T) {
	_, handler := testServer(t)

	rec := doRequest(handler, "GET", "/api/plans/999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleGet_BadID(t *testing.T) {
	_, handler := testServer(t)

	rec := doRequest(handler, "GET", "/api/plans/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleRecent(t *testing.T) {
	database, handler := testServer(t)
	seedPlan(t, database)
	seedPlan(t, database)

	rec := doRequest(handler, "GET", "/api/plans/recent?limit=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Plans []plan.Summary `json:"plans"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Plans) != 1 {
		t.Errorf("plans = %d, want 1", len(out.Plans))
	}
}

func TestHandleRecent_BadLimit(t *testing.T) {
	_, handler := testServer(t)

	for _, q := range []string{"limit=abc", "limit=-1", "limit=21"} {
		rec := doRequest(handler, "GET", "/api/plans/recent?"+q, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestHandleUpdateTasks(t *testing.T) {
	database, handler := testServer(t)
	p := seedPlan(t, database)

	rec := doRequest(handler, "PUT", "/api/plans/"+jsonID(p.ID)+"/tasks",
		`{"engineering_tasks": {"Backend": [{"id": "BE-001", "title": "API", "order": 1}]}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got plan.FeaturePlan
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.EngineeringTasks["Backend"]) != 1 {
		t.Errorf("tasks = %+v", got.EngineeringTasks)
	}
}

func TestHandleExport(t *testing.T) {
	database, handler := testServer(t)
	p := seedPlan(t, database)

	rec := doRequest(handler, "GET", "/api/plans/"+jsonID(p.ID)+"/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "add dark mode") {
		t.Errorf("export body = %s", rec.Body.String())
	}
}

func TestHandlePreview(t *testing.T) {
	database, handler := testServer(t)
	p := seedPlan(t, database)

	rec := doRequest(handler, "GET", "/api/plans/"+jsonID(p.ID)+"/preview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<h1>") {
		t.Errorf("preview should contain rendered HTML, got %s", rec.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })

	up := NewServer(database, &stubGenerator{connected: true}, nil, "127.0.0.1", 0).Handler
	rec := doRequest(up, "GET", "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("healthy status = %d, want 200", rec.Code)
	}

	degraded := NewServer(database, &stubGenerator{connected: false}, nil, "127.0.0.1", 0).Handler
	rec = doRequest(degraded, "GET", "/api/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("degraded status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"completion":false`) {
		t.Errorf("health body = %s", rec.Body.String())
	}
}

func jsonID(id int64) string {
	return strconv.FormatInt(id, 10)
}
