// Package server exposes the plan service over HTTP: clarifying
// questions, continuation decisions, and plan generation as JSON
// endpoints.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"coachai/internal/coach"
)

// Advisor is the planning engine behind the endpoints.
type Advisor interface {
	Decide(ctx context.Context, goal string, qaPairs []coach.QAPair) (coach.Decision, error)
	Generate(ctx context.Context, goal string, qaPairs []coach.QAPair) (*coach.Plan, error)
}

// Server is the plan service HTTP layer.
type Server struct {
	advisor Advisor
	logger  *zap.Logger
	router  chi.Router
}

// New creates a server around an advisor.
func New(advisor Advisor, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{advisor: advisor, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleRoot)
	r.Post("/api/clarify", s.handleClarify)
	r.Post("/api/continue", s.handleContinue)
	r.Post("/api/plan", s.handlePlan)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("plan service listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type clarifyRequest struct {
	Goal string `json:"goal"`
}

type clarifyResponse struct {
	Questions []string `json:"questions"`
}

type conversationRequest struct {
	Goal    string         `json:"goal"`
	QAPairs []coach.QAPair `json:"qa_pairs"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "coach plan service is running"})
}

// handleClarify returns the fixed time question. Adaptive questions are
// driven by /api/continue, so this stays static.
func (s *Server) handleClarify(w http.ResponseWriter, r *http.Request) {
	var req clarifyRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, clarifyResponse{Questions: []string{coach.FixedTimeQuestion}})
}

// handleContinue decides whether another question is needed. An advisor
// failure degrades to a "ready" decision rather than an error: the client
// can always fall through to plan generation.
func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	var req conversationRequest
	if !s.decode(w, r, &req) {
		return
	}

	decision, err := s.advisor.Decide(r.Context(), req.Goal, req.QAPairs)
	if err != nil {
		s.logger.Error("continuation decision failed", zap.String("goal", req.Goal), zap.Error(err))
		decision = coach.Decision{
			Action:    coach.ActionReady,
			Reasoning: "Error occurred, proceeding with available information",
		}
	}
	s.writeJSON(w, http.StatusOK, decision)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req conversationRequest
	if !s.decode(w, r, &req) {
		return
	}

	plan, err := s.advisor.Generate(r.Context(), req.Goal, req.QAPairs)
	if err != nil {
		s.logger.Error("plan generation failed", zap.String("goal", req.Goal), zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid JSON body"})
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to write response", zap.Error(err))
	}
}

// logRequests logs one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
