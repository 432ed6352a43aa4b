// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/haneul-games/wordrush/internal/adapters/kv"
	"github.com/haneul-games/wordrush/internal/adapters/openai"
	"github.com/haneul-games/wordrush/internal/domain/dedupe"
	"github.com/haneul-games/wordrush/internal/domain/dept"
	"github.com/haneul-games/wordrush/internal/domain/scope"
	"github.com/haneul-games/wordrush/internal/domain/score"
	"github.com/haneul-games/wordrush/internal/domain/types"
	"github.com/haneul-games/wordrush/pkg/logger"
	"github.com/haneul-games/wordrush/pkg/metrics"
)

// Namespace for deterministic personal-best identity ids. Submissions from
// the same player+department+mode map to the same entry id, which is what
// makes the upsert a personal-best rather than an append.
var identityNamespace = uuid.MustParse("9bfa2a45-6f2c-4c7e-9d3a-6f0f3a1d8c21")

// Legacy unscoped keys removed by the administrative clear. The list is
// deliberately fixed and explicit; nothing scope-aware is cascaded.
var legacyKeys = []string{
	"scores:time_attack:all",
	"scores:speed_run:all",
	"scores:time_attack",
	"scores:speed_run",
}

// Inference is the upstream the guess and transcription proxies call.
type Inference interface {
	Configured() bool
	Guess(ctx context.Context, lines string) (string, error)
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Service implements the API dependencies for the leaderboard system.
type Service struct {
	store     kv.Store // nil when no store is configured
	inference Inference

	namespace       string
	scopeMode       scope.Mode
	scopeTag        string
	cap             int
	fetchMultiplier int

	now func() time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the ranking store backend.
func WithStore(store kv.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithInference sets the guess/transcription upstream.
func WithInference(i Inference) Option {
	return func(s *Service) {
		s.inference = i
	}
}

// WithNamespace sets the key prefix for all ranking structures.
func WithNamespace(ns string) Option {
	return func(s *Service) {
		if ns != "" {
			s.namespace = ns
		}
	}
}

// WithScope selects board partitioning: global, per-day, or tagged.
func WithScope(mode scope.Mode, tag string) Option {
	return func(s *Service) {
		s.scopeMode = mode
		s.scopeTag = tag
	}
}

// WithLeaderboardCap bounds the display board per mode.
func WithLeaderboardCap(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cap = n
		}
	}
}

// WithFetchMultiplier oversizes board reads to survive player dedupe.
func WithFetchMultiplier(m int) Option {
	return func(s *Service) {
		if m > 0 {
			s.fetchMultiplier = m
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the wall clock (used by tests and day-scope tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		namespace:       kv.DefaultNamespace,
		scopeMode:       scope.ModeGlobal,
		cap:             10,
		fetchMultiplier: 4,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// keys resolves the scope fresh for this request; day boards roll over at
// local midnight.
func (s *Service) keys() kv.Keys {
	suffix := scope.Resolve(s.scopeMode, s.scopeTag, s.now())
	return kv.NewKeys(s.namespace, suffix)
}

func identityID(mode types.Mode, playerName, deptCode string) string {
	seed := string(mode) + "|" + types.NormalizePlayerName(playerName) + "|" + deptCode
	return uuid.NewSHA1(identityNamespace, []byte(seed)).String()
}

// SubmitScore validates a submission, applies the personal-best upsert, and
// computes rank statistics against the all-time set.
func (s *Service) SubmitScore(ctx context.Context, in types.SubmitInput) (types.SubmitResult, error) {
	mode := types.ParseMode(in.Mode)

	name := types.TruncatePlayerName(in.PlayerName)
	if name == "" {
		metrics.RecordScoreRejected("missing_fields")
		return types.SubmitResult{}, ErrMissingFields
	}

	normalized, err := score.Normalize(mode, in.Score)
	if err != nil {
		metrics.RecordScoreRejected("invalid_score")
		return types.SubmitResult{}, err
	}

	code, err := dept.Validate(in.DeptCode)
	if err != nil {
		metrics.RecordScoreRejected("invalid_dept")
		return types.SubmitResult{}, err
	}

	if s.store == nil {
		return types.SubmitResult{}, kv.ErrNotConfigured
	}

	keys := s.keys()
	id := identityID(mode, name, code)
	sortValue := score.SortValue(mode, normalized)

	entry := types.ScoreEntry{
		ID:         id,
		PlayerName: name,
		DeptCode:   code,
		DeptLabel:  dept.Label(code),
		Score:      normalized,
		Mode:       mode,
		Date:       s.now().UTC().Format(time.RFC3339),
	}

	result := types.SubmitResult{
		Entry:          entry,
		SubmittedScore: normalized,
		Improved:       true,
		PersonalBest:   normalized,
	}

	// Personal-best check: a stored record that is at least as good wins,
	// and the new submission is discarded.
	if existing, ok := s.loadRecord(ctx, keys.Record(id)); ok {
		if !score.Better(mode, normalized, existing.Score) {
			result.Entry = existing
			result.Improved = false
			result.PersonalBest = existing.Score
			result.Stats = s.stats(ctx, mode, keys.AllTime(mode), score.SortValue(mode, existing.Score))
			return result, nil
		}
		entry.Date = existing.Date // creation time is immutable across overwrites
		result.Entry = entry
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return types.SubmitResult{}, err
	}
	if err := s.store.PutRecord(ctx, keys.Record(id), payload); err != nil {
		metrics.RecordStoreError("put_record")
		return types.SubmitResult{}, err
	}
	if err := s.store.UpsertRanked(ctx, keys.Leaderboard(mode), id, sortValue); err != nil {
		metrics.RecordStoreError("upsert_board")
		return types.SubmitResult{}, err
	}
	if err := s.store.UpsertRanked(ctx, keys.AllTime(mode), id, sortValue); err != nil {
		// The all-time set only feeds rank statistics; the board write
		// already succeeded, so log and continue.
		metrics.RecordStoreError("upsert_all_time")
		s.logger.Warn(ctx, "all-time set update failed", logger.Error(err))
	}
	if err := s.store.TrimToRank(ctx, keys.Leaderboard(mode), s.cap); err != nil {
		metrics.RecordStoreError("trim")
		s.logger.Warn(ctx, "leaderboard trim failed", logger.Error(err))
	}

	metrics.RecordScoreSubmitted(string(mode))
	metrics.RecordPersonalBestImproved()

	result.Stats = s.stats(ctx, mode, keys.AllTime(mode), sortValue)
	return result, nil
}

// stats computes total/rank/topPercent from the all-time set. Failures
// degrade to safe defaults; a submission never fails because its percentile
// could not be computed.
func (s *Service) stats(ctx context.Context, mode types.Mode, allTimeKey string, sortValue float64) types.Stats {
	total, err := s.store.TotalCount(ctx, allTimeKey)
	if err != nil {
		metrics.RecordStoreError("total_count")
		s.logger.Warn(ctx, "all-time count failed", logger.Error(err))
		total = 0
	}

	rank := 1
	if n, err := s.store.CountLessOrEqual(ctx, allTimeKey, sortValue); err != nil {
		metrics.RecordStoreError("count_less_or_equal")
		s.logger.Warn(ctx, "rank count failed", logger.Error(err))
	} else if n > 1 {
		rank = n
	}

	topPercent := 100.0
	if total > 0 {
		topPercent = float64(rank) / float64(total) * 100
	}

	metrics.UpdateAllTimeEntries(string(mode), total)
	return types.Stats{Total: total, RankIndex: rank, TopPercent: topPercent}
}

func (s *Service) loadRecord(ctx context.Context, recordKey string) (types.ScoreEntry, bool) {
	payloads, err := s.store.GetRecords(ctx, recordKey)
	if err != nil {
		metrics.RecordStoreError("get_record")
		s.logger.Warn(ctx, "record lookup failed", logger.Error(err))
		return types.ScoreEntry{}, false
	}
	if len(payloads) == 0 || payloads[0] == nil {
		return types.ScoreEntry{}, false
	}
	var entry types.ScoreEntry
	if err := json.Unmarshal(payloads[0], &entry); err != nil {
		return types.ScoreEntry{}, false
	}
	if math.IsNaN(entry.Score) || math.IsInf(entry.Score, 0) {
		return types.ScoreEntry{}, false
	}
	return entry, true
}

// ListScores reads both mode boards. It never fails the caller: store
// trouble yields empty arrays plus a diagnostic tag.
func (s *Service) ListScores(ctx context.Context, debug bool) types.Leaderboards {
	out := types.Leaderboards{
		TimeAttackScores: []types.ScoreEntry{},
		SpeedRunScores:   []types.ScoreEntry{},
	}

	if s.store == nil {
		out.Error = "kv_unavailable"
		if debug {
			out.Debug = map[string]string{"reason": "missing_store_credentials"}
		}
		return out
	}

	keys := s.keys()
	fetched := 0

	for _, mode := range []types.Mode{types.ModeTimeAttack, types.ModeSpeedRun} {
		entries, n, err := s.readBoard(ctx, keys, mode)
		if err != nil {
			metrics.RecordStoreError("range_best")
			s.logger.Warn(ctx, "leaderboard read failed", logger.String("mode", string(mode)), logger.Error(err))
			out.Error = "kv_unavailable"
			continue
		}
		fetched += n
		if mode == types.ModeTimeAttack {
			out.TimeAttackScores = entries
		} else {
			out.SpeedRunScores = entries
		}
		metrics.UpdateLeaderboardSize(string(mode), len(entries))
	}

	if debug {
		out.Debug = map[string]string{
			"scope":     scope.Resolve(s.scopeMode, s.scopeTag, s.now()),
			"board":     keys.Leaderboard(types.ModeTimeAttack),
			"fetched":   strconv.Itoa(fetched),
			"retained":  strconv.Itoa(len(out.TimeAttackScores) + len(out.SpeedRunScores)),
			"namespace": s.namespace,
		}
	}
	return out
}

// readBoard fetches an oversized window of best ids, hydrates their records,
// heals stale ids out of both ranking structures, and dedupes by player.
func (s *Service) readBoard(ctx context.Context, keys kv.Keys, mode types.Mode) ([]types.ScoreEntry, int, error) {
	limit := s.cap * s.fetchMultiplier
	ids, err := s.store.RangeBest(ctx, keys.Leaderboard(mode), 0, limit-1)
	if err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return []types.ScoreEntry{}, 0, nil
	}

	recordKeys := make([]string, len(ids))
	for i, id := range ids {
		recordKeys[i] = keys.Record(id)
	}
	payloads, err := s.store.GetRecords(ctx, recordKeys...)
	if err != nil {
		// Batch hydration is best-effort; a failed mget degrades to an
		// empty board rather than an error.
		metrics.RecordStoreError("get_records")
		s.logger.Warn(ctx, "record hydration failed", logger.Error(err))
		return []types.ScoreEntry{}, len(ids), nil
	}

	entries := make([]types.ScoreEntry, 0, len(ids))
	var stale []string
	for i, id := range ids {
		entry, ok := parseRecord(payloads[i])
		if !ok {
			stale = append(stale, id)
			continue
		}
		entry.ID = id
		entries = append(entries, entry)
	}

	if len(stale) > 0 {
		s.healStale(ctx, keys, mode, stale)
	}

	return dedupe.ByPlayer(entries, s.cap), len(ids), nil
}

// healStale removes ids whose backing record is gone or unusable from both
// the bounded board and the all-time set. Failures are ignored; the next
// read retries.
func (s *Service) healStale(ctx context.Context, keys kv.Keys, mode types.Mode, stale []string) {
	s.logger.Info(ctx, "removing stale leaderboard entries",
		logger.String("mode", string(mode)),
		logger.Int("count", len(stale)),
	)
	if err := s.store.RemoveMembers(ctx, keys.Leaderboard(mode), stale...); err != nil {
		metrics.RecordStoreError("remove_stale")
	}
	if err := s.store.RemoveMembers(ctx, keys.AllTime(mode), stale...); err != nil {
		metrics.RecordStoreError("remove_stale")
	}
	for range stale {
		metrics.RecordStaleEntryRemoved()
	}
}

func parseRecord(payload []byte) (types.ScoreEntry, bool) {
	if payload == nil {
		return types.ScoreEntry{}, false
	}
	var entry types.ScoreEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return types.ScoreEntry{}, false
	}
	if types.NormalizePlayerName(entry.PlayerName) == "" {
		return types.ScoreEntry{}, false
	}
	if math.IsNaN(entry.Score) || math.IsInf(entry.Score, 0) {
		return types.ScoreEntry{}, false
	}
	return entry, true
}

// ClearLegacy deletes the fixed list of unscoped legacy keys and reports
// per-key whether anything was removed. Idempotent.
func (s *Service) ClearLegacy(ctx context.Context) ([]types.ClearDetail, error) {
	if s.store == nil {
		return nil, kv.ErrNotConfigured
	}
	deleted, err := s.store.DeleteKeys(ctx, legacyKeys...)
	if err != nil {
		metrics.RecordStoreError("delete_keys")
		return nil, err
	}
	details := make([]types.ClearDetail, len(legacyKeys))
	for i, key := range legacyKeys {
		details[i] = types.ClearDetail{Key: key, Deleted: deleted[i]}
	}
	return details, nil
}

// StoreHealth pings the store and reports configuration diagnostics.
func (s *Service) StoreHealth(ctx context.Context) types.StoreHealth {
	env := map[string]string{
		"namespace":  s.namespace,
		"scope_mode": string(s.scopeMode),
		"configured": boolString(s.store != nil),
	}
	if s.store == nil {
		return types.StoreHealth{OK: false, Env: env}
	}
	if err := s.store.Ping(ctx); err != nil {
		metrics.RecordStoreError("ping")
		env["error"] = err.Error()
		return types.StoreHealth{OK: false, Env: env}
	}
	return types.StoreHealth{OK: true, Env: env}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Guess proxies the player's description lines to the inference upstream.
func (s *Service) Guess(ctx context.Context, lines string) (string, error) {
	if s.inference == nil {
		return "", openai.ErrNoAPIKey
	}
	text, err := s.inference.Guess(ctx, lines)
	if err != nil {
		metrics.RecordUpstreamError("guess")
		return "", err
	}
	return text, nil
}

// Transcribe proxies decoded audio to the transcription upstream.
func (s *Service) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if s.inference == nil {
		return "", openai.ErrNoAPIKey
	}
	text, err := s.inference.Transcribe(ctx, audio, mimeType)
	if err != nil {
		metrics.RecordUpstreamError("transcribe")
		return "", err
	}
	return text, nil
}
