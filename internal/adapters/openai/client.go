// Package openai is a minimal client for the chat-completion and audio
// transcription endpoints the game proxies to.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Default upstream configuration constants.
const (
	defaultBaseURL         = "https://api.openai.com"
	defaultChatModel       = "gpt-4o-mini"
	defaultTranscribeModel = "gpt-4o-mini-transcribe"
	defaultTimeout         = 30 * time.Second
	guessTemperature       = 0.2
	guessMaxTokens         = 100
)

// System and user prompt templates for the guessing game. The model sees
// player descriptions of a hidden word and answers in Korean, embedding its
// best guess as [[word]].
const (
	guessSystemPrompt = "당신은 추측 게임을 하고 있습니다. 사용자가 금지어를 사용하지 않고 숨겨진 목표어를 설명합니다. 당신은 목표어나 금지어 목록을 볼 수 없습니다.\n한국어로 간결하게 답변하세요(2문장 이하). 확신이 들면 가장 좋은 추측을 [[단어]] 형태로 포함하세요(소문자, 공백 없이).\n예시: 이것은 교통수단 같네요. [[버스]]"
	guessUserPrompt   = "다음 설명들을 바탕으로 짧은 추론과 함께 답변해주세요. 확신이 들면 [[단어]] 형태로 추측을 포함하세요.\n설명들:\n%s"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the upstream base URL (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithHTTPClient overrides the transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// Client calls the inference and transcription endpoints.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// New creates a client. An empty API key is allowed; calls will return
// ErrNoAPIKey so handlers can degrade to a placeholder response.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Guess asks the model for its best guess given the player's description
// lines.
func (c *Client) Guess(ctx context.Context, lines string) (string, error) {
	if !c.Configured() {
		return "", ErrNoAPIKey
	}

	body, err := json.Marshal(chatRequest{
		Model: defaultChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: guessSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(guessUserPrompt, lines)},
		},
		Temperature: guessTemperature,
		MaxTokens:   guessMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: chat completion status %d", ErrUpstream, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decode chat response: %w", ErrUpstream, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty chat response", ErrUpstream)
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// GuessExtension picks an upload filename extension from the audio MIME type.
func GuessExtension(mime string) string {
	lower := strings.ToLower(mime)
	switch {
	case strings.Contains(lower, "mp4"):
		return "m4a"
	case strings.Contains(lower, "mpeg"):
		return "mp3"
	case strings.Contains(lower, "ogg"):
		return "ogg"
	case strings.Contains(lower, "wav"):
		return "wav"
	default:
		return "webm"
	}
}

// Transcribe uploads decoded audio and returns the transcribed text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if !c.Configured() {
		return "", ErrNoAPIKey
	}
	if mimeType == "" {
		mimeType = "audio/webm"
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "speech."+GuessExtension(mimeType))
	if err != nil {
		return "", fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write audio part: %w", err)
	}
	_ = form.WriteField("model", defaultTranscribeModel)
	_ = form.WriteField("response_format", "json")
	_ = form.WriteField("language", "ko")
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: transcription status %d: %s", ErrUpstream, resp.StatusCode, body)
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decode transcription response: %w", ErrUpstream, err)
	}
	return strings.TrimSpace(parsed.Text), nil
}
