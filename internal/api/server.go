package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/friengo/friengo/internal/metrics"
	"github.com/friengo/friengo/internal/service"
)

// Server provides a read-only HTTP view of the bot's state: health,
// metrics, the user registry and poll tallies. All writes go through
// Telegram, so there are no mutation endpoints.
type Server struct {
	svc    *service.Service
	logger *logrus.Logger
	mux    *http.ServeMux
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, logger *logrus.Logger) *Server {
	s := &Server{svc: svc, logger: logger, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", metrics.Handler())
	s.mux.HandleFunc("GET /api/users", s.handleGetUsers)
	s.mux.HandleFunc("GET /api/polls/active", s.handleGetActivePoll)
	s.mux.HandleFunc("GET /api/polls/{id}/stats", s.handleGetPollStats)
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// pathID extracts the {id} path value and converts it to int64.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// requireChatID reads the chat_id query parameter. It writes an error
// response and returns false when the parameter is absent or invalid.
func (s *Server) requireChatID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("chat_id")
	if raw == "" {
		s.respondError(w, http.StatusBadRequest, "chat_id query parameter is required")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "chat_id must be an integer")
		return 0, false
	}
	return id, true
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.Users.ListAll(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to list users")
		s.respondError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	s.respondJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetActivePoll(w http.ResponseWriter, r *http.Request) {
	chatID, ok := s.requireChatID(w, r)
	if !ok {
		return
	}

	poll, err := s.svc.ActivePoll(r.Context(), chatID)
	if err != nil {
		s.logger.WithError(err).Error("failed to get active poll")
		s.respondError(w, http.StatusInternalServerError, "failed to get active poll")
		return
	}
	if poll == nil {
		s.respondError(w, http.StatusNotFound, "no active poll for this chat")
		return
	}
	s.respondJSON(w, http.StatusOK, poll)
}

func (s *Server) handleGetPollStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "poll id must be an integer")
		return
	}

	stats, err := s.svc.DetailedStats(r.Context(), id)
	if err != nil {
		s.logger.WithError(err).Error("failed to get poll stats")
		s.respondError(w, http.StatusInternalServerError, "failed to get poll stats")
		return
	}
	if stats == nil {
		s.respondError(w, http.StatusNotFound, "poll not found")
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}
