package dept

import "errors"

// Sentinel kinds for department validation errors.
var (
	ErrInvalidDept = errors.New("invalid department")
)
