package kv

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore implements Store in process. It backs tests and store-less
// development runs with the same ordering semantics as the remote backend:
// ascending sort value, ties broken lexicographically by member.
type MemoryStore struct {
	mu      sync.RWMutex
	sets    map[string]map[string]float64
	records map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sets:    make(map[string]map[string]float64),
		records: make(map[string][]byte),
	}
}

func (s *MemoryStore) sortedMembers(setKey string) []string {
	set := s.sets[setKey]
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		si, sj := set[members[i]], set[members[j]]
		if si != sj {
			return si < sj
		}
		return members[i] < members[j]
	})
	return members
}

// UpsertRanked inserts or updates member under sortValue.
func (s *MemoryStore) UpsertRanked(_ context.Context, setKey, member string, sortValue float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[setKey]
	if !ok {
		set = make(map[string]float64)
		s.sets[setKey] = set
	}
	set[member] = sortValue
	return nil
}

// TrimToRank evicts every member ranked at or beyond keepCount.
func (s *MemoryStore) TrimToRank(_ context.Context, setKey string, keepCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if keepCount < 0 {
		keepCount = 0
	}
	members := s.sortedMembers(setKey)
	for i := keepCount; i < len(members); i++ {
		delete(s.sets[setKey], members[i])
	}
	return nil
}

// CountLessOrEqual counts members sorting at or below sortValue, inclusive.
func (s *MemoryStore) CountLessOrEqual(_ context.Context, setKey string, sortValue float64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, v := range s.sets[setKey] {
		if v <= sortValue {
			n++
		}
	}
	return n, nil
}

// RangeBest returns members best-first within inclusive rank bounds.
func (s *MemoryStore) RangeBest(_ context.Context, setKey string, start, end int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := s.sortedMembers(setKey)
	if start < 0 {
		start = 0
	}
	if start >= len(members) {
		return []string{}, nil
	}
	if end < 0 || end >= len(members) {
		end = len(members) - 1
	}
	return append([]string(nil), members[start:end+1]...), nil
}

// TotalCount returns the set cardinality.
func (s *MemoryStore) TotalCount(_ context.Context, setKey string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sets[setKey]), nil
}

// RemoveMembers drops members from the set.
func (s *MemoryStore) RemoveMembers(_ context.Context, setKey string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.sets[setKey]
	for _, m := range members {
		delete(set, m)
	}
	return nil
}

// PutRecord stores an opaque payload.
func (s *MemoryStore) PutRecord(_ context.Context, recordKey string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[recordKey] = append([]byte(nil), payload...)
	return nil
}

// GetRecords batch-fetches payloads; missing keys yield nil slots.
func (s *MemoryStore) GetRecords(_ context.Context, keys ...string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([][]byte, len(keys))
	for i, k := range keys {
		if p, ok := s.records[k]; ok {
			out[i] = append([]byte(nil), p...)
		}
	}
	return out, nil
}

// DeleteRecord removes a stored payload. Used by stale-entry cleanup.
func (s *MemoryStore) DeleteRecord(recordKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, recordKey)
}

// DeleteKeys removes whole keys (sets or records) and reports which existed.
func (s *MemoryStore) DeleteKeys(_ context.Context, keys ...string) ([]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := make([]bool, len(keys))
	for i, k := range keys {
		if _, ok := s.sets[k]; ok {
			delete(s.sets, k)
			deleted[i] = true
		}
		if _, ok := s.records[k]; ok {
			delete(s.records, k)
			deleted[i] = true
		}
	}
	return deleted, nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
