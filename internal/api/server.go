package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/GandhamRajaReddy/honeypot-api/internal/engine"
	"github.com/GandhamRajaReddy/honeypot-api/internal/session"
	"github.com/GandhamRajaReddy/honeypot-api/internal/storage"
)

type Server struct {
	router    *chi.Mux
	port      int
	engine    *engine.Engine
	sessions  *session.Store
	archive   *storage.Store
	aiEnabled bool
}

func NewServer(port int, apiKey string, eng *engine.Engine, sessions *session.Store, archive *storage.Store, aiEnabled bool) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:    router,
		port:      port,
		engine:    eng,
		sessions:  sessions,
		archive:   archive,
		aiEnabled: aiEnabled,
	}

	router.Get("/", s.root)
	router.Get("/health", s.health)

	router.Group(func(r chi.Router) {
		r.Use(APIKeyMiddleware(apiKey))
		r.Post("/api/honeypot", s.honeypot)
		r.Get("/sessions/{sessionID}", s.sessionInfo)
		if archive != nil {
			r.Get("/api/v1/reports", s.recentReports)
		}
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// APIKeyMiddleware rejects requests whose X-API-Key header does not match.
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-API-Key") != apiKey {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid api key"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// honeypotRequest is the inbound wire shape. Channel metadata is accepted but
// unused by the core.
type honeypotRequest struct {
	SessionID           string            `json:"sessionId"`
	Message             session.Message   `json:"message"`
	ConversationHistory []session.Message `json:"conversationHistory"`
	Metadata            *requestMetadata  `json:"metadata,omitempty"`
}

type requestMetadata struct {
	Channel  string `json:"channel,omitempty"`
	Language string `json:"language,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

type honeypotResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

func (s *Server) honeypot(w http.ResponseWriter, r *http.Request) {
	var req honeypotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid JSON: %v", err)})
		return
	}
	if req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sessionId is required"})
		return
	}
	if req.Message.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message.text is required"})
		return
	}

	reply := s.engine.HandleMessage(r.Context(), engine.Request{
		SessionID: req.SessionID,
		Message:   req.Message,
		History:   req.ConversationHistory,
	})

	writeJSON(w, http.StatusOK, honeypotResponse{Status: "success", Reply: reply})
}

func (s *Server) sessionInfo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	info, ok := s.sessions.Snapshot(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	writeJSON(w, http.StatusOK, info)
}

func (s *Server) recentReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.archive.RecentReports(r.Context(), 50)
	if err != nil {
		slog.Error("failed to list reports", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list reports"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reports": reports,
		"count":   len(reports),
	})
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "Agentic Honeypot API",
		"status":  "operational",
		"endpoints": map[string]string{
			"health":   "/health",
			"honeypot": "/api/honeypot",
			"sessions": "/sessions/{id}",
		},
		"version": "1.0.0",
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "healthy",
		"service":    "honeypot-api",
		"ai_enabled": s.aiEnabled,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
