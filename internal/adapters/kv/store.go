// Package kv defines the ranking store interface and its key schema.
package kv

import "context"

// Store provides the sorted-set and record operations the leaderboard needs
// from the backing key-value service, independent of its transport. Each
// call is atomic on the remote side; multi-call sequences are not.
type Store interface {
	// UpsertRanked inserts or updates member's position under sortValue in
	// the named ordered set. Idempotent for the same member.
	UpsertRanked(ctx context.Context, setKey, member string, sortValue float64) error

	// TrimToRank deletes all members ranked at or beyond keepCount
	// (0 = best), leaving at most the best keepCount members.
	TrimToRank(ctx context.Context, setKey string, keepCount int) error

	// CountLessOrEqual returns how many members sort at or below sortValue.
	// Ties count as better-or-equal.
	CountLessOrEqual(ctx context.Context, setKey string, sortValue float64) (int, error)

	// RangeBest returns members ordered best-first within rank bounds,
	// inclusive.
	RangeBest(ctx context.Context, setKey string, start, end int) ([]string, error)

	// TotalCount returns the cardinality of the ordered set.
	TotalCount(ctx context.Context, setKey string) (int, error)

	// RemoveMembers drops the given members from the ordered set.
	RemoveMembers(ctx context.Context, setKey string, members ...string) error

	// PutRecord stores an opaque payload under recordKey.
	PutRecord(ctx context.Context, recordKey string, payload []byte) error

	// GetRecords fetches payloads for the given keys in order. Missing keys
	// yield nil slots rather than errors.
	GetRecords(ctx context.Context, keys ...string) ([][]byte, error)

	// DeleteKeys removes whole keys and reports how many existed.
	DeleteKeys(ctx context.Context, keys ...string) ([]bool, error)

	// Ping verifies connectivity.
	Ping(ctx context.Context) error
}
