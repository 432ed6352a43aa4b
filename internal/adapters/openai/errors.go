package openai

import "errors"

// Sentinel kinds for upstream inference errors.
var (
	ErrNoAPIKey = errors.New("inference api key is not configured")
	ErrUpstream = errors.New("inference upstream failed")
)
