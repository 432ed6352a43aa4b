// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/haneul-games/wordrush/internal/adapters/kv"
	service "github.com/haneul-games/wordrush/internal/app"
	"github.com/haneul-games/wordrush/internal/domain/dept"
	"github.com/haneul-games/wordrush/internal/domain/score"
	"github.com/haneul-games/wordrush/internal/domain/types"
)

// ScoresDependencies defines the interface for score operations.
type ScoresDependencies interface {
	SubmitScore(ctx context.Context, in types.SubmitInput) (types.SubmitResult, error)
	ListScores(ctx context.Context, debug bool) types.Leaderboards
}

// ScoresHandler handles score submission and leaderboard reads.
type ScoresHandler struct {
	deps ScoresDependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps ScoresDependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// submitRequest mirrors the wire schema for POST /api/scores. Score is kept
// raw because clients have historically sent both numbers and numeric
// strings.
type submitRequest struct {
	Mode       string          `json:"mode"`
	Score      json.RawMessage `json:"score"`
	PlayerName string          `json:"playerName"`
	DeptCode   string          `json:"deptCode"`
}

type submitResponse struct {
	Success        bool             `json:"success"`
	Entry          types.ScoreEntry `json:"entry"`
	Stats          types.Stats      `json:"stats"`
	SubmittedScore float64          `json:"submittedScore"`
	Improved       bool             `json:"improved"`
	PersonalBest   float64          `json:"personalBest"`
}

// HandleScores dispatches POST (submit) and GET (list) on /api/scores.
func (h *ScoresHandler) HandleScores(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleSubmit(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed)
	}
}

func (h *ScoresHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest)
		return
	}

	result, err := h.deps.SubmitScore(r.Context(), types.SubmitInput{
		Mode:       req.Mode,
		Score:      coerceScore(req.Score),
		PlayerName: req.PlayerName,
		DeptCode:   req.DeptCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			writeError(w, http.StatusBadRequest, codeMissingFields)
		case errors.Is(err, score.ErrInvalidScore):
			writeError(w, http.StatusBadRequest, codeInvalidScore)
		case errors.Is(err, dept.ErrInvalidDept):
			writeError(w, http.StatusBadRequest, codeInvalidDept)
		case errors.Is(err, kv.ErrNotConfigured):
			writeError(w, http.StatusInternalServerError, codeStoreNotConfig)
		default:
			writeError(w, http.StatusInternalServerError, codeInternalError)
		}
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success:        true,
		Entry:          result.Entry,
		Stats:          result.Stats,
		SubmittedScore: result.SubmittedScore,
		Improved:       result.Improved,
		PersonalBest:   result.PersonalBest,
	})
}

func (h *ScoresHandler) handleList(w http.ResponseWriter, r *http.Request) {
	debug := false
	if q := r.URL.Query().Get("debug"); q == "1" || q == "true" {
		debug = true
	}
	// Reads never fail the caller; diagnostics ride in the body.
	writeJSON(w, http.StatusOK, h.deps.ListScores(r.Context(), debug))
}

// coerceScore accepts a JSON number or a numeric string; anything else maps
// to NaN, which the ingestion path rejects as invalid_score.
func coerceScore(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return math.NaN()
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
	}
	return math.NaN()
}
