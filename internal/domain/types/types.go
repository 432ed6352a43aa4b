// Package types contains common types used across the application
package types

import "strings"

// MaxPlayerNameLength caps stored display names.
const MaxPlayerNameLength = 40

// Mode identifies which game a score belongs to.
type Mode string

// Game modes.
const (
	ModeTimeAttack Mode = "TIME_ATTACK"
	ModeSpeedRun   Mode = "SPEED_RUN"
)

// ParseMode maps a raw mode string to a known Mode. Anything that is not
// exactly SPEED_RUN falls back to TIME_ATTACK; a mode is never rejected.
func ParseMode(raw string) Mode {
	if strings.TrimSpace(raw) == string(ModeSpeedRun) {
		return ModeSpeedRun
	}
	return ModeTimeAttack
}

// ScoreEntry represents one player's recorded attempt.
type ScoreEntry struct {
	ID         string  `json:"id"`
	PlayerName string  `json:"playerName"`
	DeptCode   string  `json:"deptCode"`
	DeptLabel  string  `json:"deptLabel,omitempty"`
	Score      float64 `json:"score"`
	Mode       Mode    `json:"mode"`
	Date       string  `json:"date"`
}

// Stats describes where a submission landed relative to every score ever
// recorded for its mode and scope.
type Stats struct {
	Total      int     `json:"total"`
	RankIndex  int     `json:"rankIndex"`
	TopPercent float64 `json:"topPercent"`
}

// SubmitResult is the full outcome of a score submission.
type SubmitResult struct {
	Entry          ScoreEntry `json:"entry"`
	Stats          Stats      `json:"stats"`
	SubmittedScore float64    `json:"submittedScore"`
	Improved       bool       `json:"improved"`
	PersonalBest   float64    `json:"personalBest"`
}

// NormalizePlayerName lower-cases and trims a display name for identity
// comparisons. Case and surrounding whitespace never create distinct players.
func NormalizePlayerName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// TruncatePlayerName trims a display name and caps it at MaxPlayerNameLength
// runes for storage.
func TruncatePlayerName(name string) string {
	trimmed := strings.TrimSpace(name)
	runes := []rune(trimmed)
	if len(runes) > MaxPlayerNameLength {
		return string(runes[:MaxPlayerNameLength])
	}
	return trimmed
}
