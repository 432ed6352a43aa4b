// Package dedupe collapses leaderboard reads to one entry per player.
package dedupe

import (
	"github.com/haneul-games/wordrush/internal/domain/types"
)

// ByPlayer keeps the first occurrence of each normalized player name, up to
// limit entries. Input is assumed best-ranked first, so the kept occurrence is
// the player's best. Entries with blank names are dropped.
func ByPlayer(entries []types.ScoreEntry, limit int) []types.ScoreEntry {
	if len(entries) == 0 || limit <= 0 {
		return []types.ScoreEntry{}
	}
	seen := make(map[string]struct{}, len(entries))
	unique := make([]types.ScoreEntry, 0, limit)
	for _, e := range entries {
		key := types.NormalizePlayerName(e.PlayerName)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, e)
		if len(unique) >= limit {
			break
		}
	}
	return unique
}
