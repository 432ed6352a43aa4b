// Package score normalizes raw submissions and derives ranking sort values.
package score

import (
	"math"

	"github.com/haneul-games/wordrush/internal/domain/types"
)

const speedRunPrecision = 100 // two decimal places

// Normalize validates and rounds a raw score for the given mode.
// Non-finite input yields ErrInvalidScore. Negative values clamp to zero.
// TIME_ATTACK scores are whole points; SPEED_RUN scores are seconds kept to
// two decimals.
func Normalize(mode types.Mode, raw float64) (float64, error) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, ErrInvalidScore
	}
	v := math.Max(0, raw)
	if mode == types.ModeTimeAttack {
		return math.Round(v), nil
	}
	return math.Round(v*speedRunPrecision) / speedRunPrecision, nil
}

// SortValue encodes the mode-specific "better" direction so that ascending
// sort order is always best-first: time-attack scores count down (higher is
// better, stored negated), speed-run times count up (lower is better).
func SortValue(mode types.Mode, normalized float64) float64 {
	if mode == types.ModeTimeAttack {
		return -normalized
	}
	return normalized
}

// Better reports whether candidate beats incumbent under the mode's
// comparison rule.
func Better(mode types.Mode, candidate, incumbent float64) bool {
	return SortValue(mode, candidate) < SortValue(mode, incumbent)
}
