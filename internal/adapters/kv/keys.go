package kv

import "github.com/haneul-games/wordrush/internal/domain/types"

// DefaultNamespace is the key prefix used when none is configured.
const DefaultNamespace = "scores"

// Keys carries the fully-scoped key names for one request. All keys share
// the same namespace and scope suffix so a scope switch partitions every
// structure at once.
type Keys struct {
	base string
}

// NewKeys builds the key set for a namespace and resolved scope suffix.
func NewKeys(namespace, scopeSuffix string) Keys {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return Keys{base: namespace + scopeSuffix}
}

// Leaderboard returns the bounded per-mode board key.
func (k Keys) Leaderboard(mode types.Mode) string {
	if mode == types.ModeSpeedRun {
		return k.base + ":speed_run"
	}
	return k.base + ":time_attack"
}

// AllTime returns the unbounded per-mode set key used for rank queries.
// It is never trimmed; trimming it would break percentile accuracy for
// entries that fell off the display board.
func (k Keys) AllTime(mode types.Mode) string {
	return k.Leaderboard(mode) + ":all"
}

// Record returns the payload key for an entry id.
func (k Keys) Record(id string) string {
	return k.base + ":entry:" + id
}
