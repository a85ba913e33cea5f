package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"zephyr-hq/zephyr/pkg/config"
	"zephyr-hq/zephyr/pkg/history"
	"zephyr-hq/zephyr/pkg/rules"
	"zephyr-hq/zephyr/pkg/rules/engine"
	"zephyr-hq/zephyr/pkg/rules/source"
)

func newTestServer(t *testing.T, store *history.Store) *Server {
	t.Helper()

	eng, err := engine.New(source.NewDefaultSource(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	t.Cleanup(func() { eng.Close() })

	cfg := config.NewDefaultConfig()
	return New(cfg, Options{
		Engine:  eng,
		Store:   store,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version: "test",
	})
}

func newTestHistoryStore(t *testing.T) *history.Store {
	t.Helper()
	cfg := &config.HistoryConfig{
		Enabled:      true,
		Path:         filepath.Join(t.TempDir(), "decisions.db"),
		MaxOpenConns: 2,
		MaxIdleConns: 1,
		BusyTimeout:  time.Second,
	}
	store, err := history.NewStore(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("history.NewStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestEvaluateHotRoom(t *testing.T) {
	srv := newTestServer(t, nil)

	body := `{"facts": {"temperature": 32, "humidity": 55, "occupancy": "OCCUPIED", "time_of_day": "AFTERNOON", "windows_open": false}}`
	rec := doRequest(t, srv, http.MethodPost, "/v1/evaluate", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var decision engine.Decision
	if err := json.NewDecoder(rec.Body).Decode(&decision); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decision.Fallback {
		t.Error("hot occupied room fell back")
	}
	if decision.Action.Mode != rules.ModeCool {
		t.Errorf("mode = %q, want COOL", decision.Action.Mode)
	}
	if decision.EvaluationID == "" {
		t.Error("evaluation ID missing")
	}
}

func TestEvaluateFallback(t *testing.T) {
	srv := newTestServer(t, nil)

	body := `{"facts": {"temperature": 23, "humidity": 50, "occupancy": "OCCUPIED", "time_of_day": "MORNING", "windows_open": false}}`
	rec := doRequest(t, srv, http.MethodPost, "/v1/evaluate", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var decision engine.Decision
	if err := json.NewDecoder(rec.Body).Decode(&decision); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decision.Fallback {
		t.Error("comfortable room did not fall back")
	}
	if decision.Action.Mode != rules.ModeOff {
		t.Errorf("mode = %q, want OFF", decision.Action.Mode)
	}
	if decision.Action.Reason != "No matching rules" {
		t.Errorf("reason = %q", decision.Action.Reason)
	}
}

func TestEvaluateRejectsMalformedFactValue(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"array value", `{"facts": {"temperature": [27, 28]}}`},
		{"object value", `{"facts": {"temperature": {"celsius": 27}}}`},
		{"null value", `{"facts": {"temperature": null}}`},
		{"not json", `{{{`},
		{"unknown field", `{"data": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/v1/evaluate", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestEvaluateMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doRequest(t, srv, http.MethodGet, "/v1/evaluate", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestListRules(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doRequest(t, srv, http.MethodGet, "/v1/rules", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp catalogResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Rules) != 7 {
		t.Errorf("got %d rules, want 7", len(resp.Rules))
	}
}

func TestReload(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doRequest(t, srv, http.MethodPost, "/v1/rules/reload", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp reloadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "reloaded" || resp.Rules != 7 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestDecisionsDisabled(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doRequest(t, srv, http.MethodGet, "/v1/decisions", "")
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", rec.Code)
	}
}

func TestDecisionsRecordedByEvaluate(t *testing.T) {
	store := newTestHistoryStore(t)
	srv := newTestServer(t, store)

	body := `{"facts": {"temperature": 32, "humidity": 55, "occupancy": "OCCUPIED", "time_of_day": "AFTERNOON", "windows_open": false}}`
	if rec := doRequest(t, srv, http.MethodPost, "/v1/evaluate", body); rec.Code != http.StatusOK {
		t.Fatalf("evaluate status = %d", rec.Code)
	}

	rec := doRequest(t, srv, http.MethodGet, "/v1/decisions?limit=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var records []*history.DecisionRecord
	if err := json.NewDecoder(rec.Body).Decode(&records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Mode != rules.ModeCool {
		t.Errorf("recorded mode = %q, want COOL", records[0].Mode)
	}
}

func TestDecisionsBadLimit(t *testing.T) {
	store := newTestHistoryStore(t)
	srv := newTestServer(t, store)

	for _, limit := range []string{"0", "-5", "5000", "ten"} {
		rec := doRequest(t, srv, http.MethodGet, "/v1/decisions?limit="+limit, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s status = %d, want 400", limit, rec.Code)
		}
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	if rec := doRequest(t, srv, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("/healthz status = %d, want 200", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Errorf("/readyz status = %d, want 200", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodGet, "/version", ""); rec.Code != http.StatusOK {
		t.Errorf("/version status = %d, want 200", rec.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "fixed-id" {
		t.Errorf("request ID = %q, want fixed-id", got)
	}

	// A request without an ID gets one assigned.
	rec2 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec2.Header().Get(RequestIDHeader) == "" {
		t.Error("no request ID assigned")
	}
}
