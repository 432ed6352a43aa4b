// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/haneul-games/wordrush/internal/adapters/openai"
)

// Placeholder replies keep the game UI working when the inference upstream
// is missing or down. The bracketed token is what the client parses as the
// AI's guess.
const (
	guessNoKeyText  = "API 키가 설정되지 않았습니다. [[모름]]"
	guessFailedText = "AI와 통신 중 오류가 발생했습니다. [[오류]]"
)

// GuessDependencies defines the interface for AI-guess proxying.
type GuessDependencies interface {
	Guess(ctx context.Context, lines string) (string, error)
}

// GuessHandler proxies description lines to the inference upstream.
type GuessHandler struct {
	deps GuessDependencies
}

// NewGuessHandler creates a new guess handler.
func NewGuessHandler(deps GuessDependencies) *GuessHandler {
	return &GuessHandler{deps: deps}
}

type guessRequest struct {
	Lines string `json:"lines"`
}

type guessResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// HandleGuess handles POST /api/guess requests. Upstream trouble always
// degrades to HTTP 200 with a placeholder so the client UI never breaks on
// a missing third-party dependency.
func (h *GuessHandler) HandleGuess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed)
		return
	}
	var req guessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest)
		return
	}

	text, err := h.deps.Guess(r.Context(), req.Lines)
	if err != nil {
		if errors.Is(err, openai.ErrNoAPIKey) {
			writeJSON(w, http.StatusOK, guessResponse{Text: guessNoKeyText, Error: codeOpenAIKeyMissing})
			return
		}
		writeJSON(w, http.StatusOK, guessResponse{Text: guessFailedText, Error: codeOpenAIReqFailed})
		return
	}
	writeJSON(w, http.StatusOK, guessResponse{Text: text})
}
