package kv

import "errors"

// Sentinel kinds for ranking store errors. ErrNotConfigured lets callers
// distinguish an absent store credential from a transient backend failure.
var (
	ErrNotConfigured = errors.New("ranking store is not configured")
	ErrBadStoreURL   = errors.New("invalid ranking store url")
)
