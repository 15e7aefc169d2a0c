package orchestrator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func startTestRouter(t *testing.T) http.Handler {
	t.Helper()
	hub := NewHub()
	session := NewSession(hub.SessionCallbacks())
	done := make(chan struct{})
	go hub.Run(done)
	go session.Run(done)
	t.Cleanup(func() { close(done) })
	return NewRouter(session, hub)
}

func TestPingEndpoint(t *testing.T) {
	router := startTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLoadAndStatusEndpoints(t *testing.T) {
	router := startTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status before load: expected 200, got %d", rec.Code)
	}
	var before StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &before); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if before.Phase != "idle" || before.Board != nil {
		t.Fatalf("expected an idle empty session, got %+v", before)
	}

	rec = httptest.NewRecorder()
	body := strings.NewReader(`{"board":[[1,2,3],[4,0,6],[7,5,8]]}`)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/load", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("load: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var loaded StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &loaded); err != nil {
		t.Fatalf("decode load response: %v", err)
	}
	if loaded.Phase != "awaiting_agents" || !loaded.Solvable || loaded.StepCount != 0 {
		t.Fatalf("unexpected post-load status %+v", loaded)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	var after StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if len(after.Board) != 3 || after.Board[1][1] != 0 {
		t.Fatalf("status does not reflect the loaded board: %+v", after)
	}
}

func TestLoadRejectsBadBoards(t *testing.T) {
	router := startTestRouter(t)
	for _, body := range []string{
		`not json`,
		`{"board":[[1,2],[3,4]]}`,
		`{"board":[[1,2,3],[4,5,6]]}`,
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/load", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", body, rec.Code)
		}
	}
}
