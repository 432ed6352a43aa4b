// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/haneul-games/wordrush/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SubmitScore(ctx context.Context, in types.SubmitInput) (types.SubmitResult, error)
	ListScores(ctx context.Context, debug bool) types.Leaderboards
	ClearLegacy(ctx context.Context) ([]types.ClearDetail, error)
	StoreHealth(ctx context.Context) types.StoreHealth
	Guess(ctx context.Context, lines string) (string, error)
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	scoresHandler     *ScoresHandler
	adminHandler      *AdminHandler
	guessHandler      *GuessHandler
	transcribeHandler *TranscribeHandler
	healthHandler     *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		scoresHandler:     NewScoresHandler(deps),
		adminHandler:      NewAdminHandler(deps),
		guessHandler:      NewGuessHandler(deps),
		transcribeHandler: NewTranscribeHandler(deps),
		healthHandler:     NewHealthHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleMetrics, "healthz"))
	mux.HandleFunc("/api/scores", MetricsMiddleware(s.scoresHandler.HandleScores, "scores"))
	mux.HandleFunc("/api/admin/clear-legacy", MetricsMiddleware(s.adminHandler.HandleClearLegacy, "clear_legacy"))
	mux.HandleFunc("/api/guess", MetricsMiddleware(s.guessHandler.HandleGuess, "guess"))
	mux.HandleFunc("/api/transcribe", MetricsMiddleware(s.transcribeHandler.HandleTranscribe, "transcribe"))
	mux.HandleFunc("/api/store/health", MetricsMiddleware(s.healthHandler.HandleStoreHealth, "store_health"))
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, errorResponse{Error: code})
}
