package service

import "errors"

// Sentinel kinds for submission validation errors. Score and department
// failures reuse the domain packages' sentinels.
var (
	ErrMissingFields = errors.New("missing required fields")
)
