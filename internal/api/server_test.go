package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GandhamRajaReddy/honeypot-api/internal/agent"
	"github.com/GandhamRajaReddy/honeypot-api/internal/engine"
	"github.com/GandhamRajaReddy/honeypot-api/internal/session"
)

const testAPIKey = "sk_test_abc"

func newTestServer(t *testing.T) (*Server, *session.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := session.NewStore()
	a := agent.NewWithSource(nil, 0, logger, rand.New(rand.NewSource(1)))
	eng := engine.New(store, a, nil, nil, nil, logger)
	return NewServer(8000, testAPIKey, eng, store, nil, false), store
}

func postHoneypot(t *testing.T, srv *Server, apiKey string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/honeypot", bytes.NewReader(body))
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func honeypotBody(t *testing.T, sessionID, text string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"sessionId": sessionID,
		"message": map[string]string{
			"sender":    "scammer",
			"text":      text,
			"timestamp": "2026-08-31T10:00:00Z",
		},
		"conversationHistory": []any{},
	})
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	return body
}

func TestHoneypot_RequiresAPIKey(t *testing.T) {
	srv, _ := newTestServer(t)

	w := postHoneypot(t, srv, "", honeypotBody(t, "s1", "hello"))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", w.Code)
	}

	w = postHoneypot(t, srv, "wrong-key", honeypotBody(t, "s1", "hello"))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", w.Code)
	}
}

func TestHoneypot_MalformedJSON(t *testing.T) {
	srv, store := newTestServer(t)

	w := postHoneypot(t, srv, testAPIKey, []byte("{not json"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", w.Code)
	}

	// A rejected request must not create session state.
	if _, ok := store.Snapshot(""); ok {
		t.Error("malformed request must not mutate the store")
	}
}

func TestHoneypot_MissingFields(t *testing.T) {
	srv, _ := newTestServer(t)

	body, _ := json.Marshal(map[string]any{"sessionId": "s2"})
	w := postHoneypot(t, srv, testAPIKey, body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing message, got %d", w.Code)
	}

	w = postHoneypot(t, srv, testAPIKey, honeypotBody(t, "", "hello"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing sessionId, got %d", w.Code)
	}
}

func TestHoneypot_Success(t *testing.T) {
	srv, store := newTestServer(t)

	text := "Your account will be blocked. Send to scammer@upi now immediately, call +91-9876543210"
	w := postHoneypot(t, srv, testAPIKey, honeypotBody(t, "s3", text))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp honeypotResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("expected status success, got %q", resp.Status)
	}
	if resp.Reply == "" {
		t.Error("expected non-empty reply")
	}

	info, ok := store.Snapshot("s3")
	if !ok {
		t.Fatal("expected session created")
	}
	if !info.ScamDetected {
		t.Error("expected scam detected for scenario message")
	}
}

func TestSessionInfo(t *testing.T) {
	srv, _ := newTestServer(t)

	postHoneypot(t, srv, testAPIKey, honeypotBody(t, "s4", "hello there"))

	req := httptest.NewRequest("GET", "/sessions/s4", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var info session.Info
	if err := json.NewDecoder(w.Body).Decode(&info); err != nil {
		t.Fatalf("failed to decode info: %v", err)
	}
	if info.SessionID != "s4" {
		t.Errorf("expected sessionId s4, got %q", info.SessionID)
	}
	if info.MessageCount != 2 {
		t.Errorf("expected 2 messages, got %d", info.MessageCount)
	}
}

func TestSessionInfo_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/sessions/never-seen", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown session, got %d", w.Code)
	}
}

func TestSessionInfo_RequiresAPIKey(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/sessions/s5", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestReports_DisabledWithoutArchive(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/v1/reports", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound && w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected route to be absent without archive, got %d", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected status healthy, got %v", body["status"])
	}
	if body["ai_enabled"] != false {
		t.Errorf("expected ai_enabled false, got %v", body["ai_enabled"])
	}
}

func TestRootEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "operational" {
		t.Errorf("expected status operational, got %v", body["status"])
	}
}
