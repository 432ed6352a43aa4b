// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/haneul-games/wordrush/internal/adapters/openai"
)

// MaxAudioBase64Length caps the encoded payload (~15MB base64, ~11MB binary).
const MaxAudioBase64Length = 15 * 1024 * 1024

// TranscribeDependencies defines the interface for transcription proxying.
type TranscribeDependencies interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// TranscribeHandler proxies recorded audio to the transcription upstream.
type TranscribeHandler struct {
	deps TranscribeDependencies
}

// NewTranscribeHandler creates a new transcribe handler.
func NewTranscribeHandler(deps TranscribeDependencies) *TranscribeHandler {
	return &TranscribeHandler{deps: deps}
}

type transcribeRequest struct {
	Audio    string `json:"audio"`
	MimeType string `json:"mimeType"`
}

type transcribeResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// HandleTranscribe handles POST /api/transcribe requests. Oversized or
// undecodable input is rejected before any outbound call; upstream trouble
// degrades to HTTP 200 with an error tag.
func (h *TranscribeHandler) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed)
		return
	}
	var req transcribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest)
		return
	}

	if req.Audio == "" {
		writeError(w, http.StatusBadRequest, codeMissingAudio)
		return
	}
	if len(req.Audio) > MaxAudioBase64Length {
		writeError(w, http.StatusRequestEntityTooLarge, codeAudioTooLarge)
		return
	}
	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidAudio)
		return
	}
	if len(audio) == 0 {
		writeError(w, http.StatusBadRequest, codeEmptyAudio)
		return
	}

	text, err := h.deps.Transcribe(r.Context(), audio, req.MimeType)
	if err != nil {
		if errors.Is(err, openai.ErrNoAPIKey) {
			writeJSON(w, http.StatusOK, transcribeResponse{Error: codeOpenAIKeyMissing})
			return
		}
		writeJSON(w, http.StatusOK, transcribeResponse{Error: codeOpenAIReqFailed})
		return
	}
	writeJSON(w, http.StatusOK, transcribeResponse{Text: text})
}
