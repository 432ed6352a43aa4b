// Package scope derives the namespace suffix that partitions every ranking
// store key: one shared global board, a board per calendar day, or a board
// per operator-configured tag.
package scope

import (
	"strings"
	"time"
)

// Mode selects how boards are partitioned.
type Mode string

// Partitioning modes.
const (
	ModeGlobal Mode = "global"
	ModeDay    Mode = "day"
	ModeTag    Mode = "tag"
)

const dayStampLayout = "20060102"

// Resolve computes the key suffix for the active scope. It is pure and must
// be called fresh on every request: day scope rolls over at local midnight
// with no migration of prior-day data. Tag mode with no configured tag falls
// back to global rather than erroring.
func Resolve(mode Mode, tag string, now time.Time) string {
	switch mode {
	case ModeDay:
		return ":" + now.Format(dayStampLayout)
	case ModeTag:
		t := strings.TrimSpace(tag)
		if t == "" {
			return ""
		}
		return ":" + t
	default:
		return ""
	}
}

// ParseMode maps a configuration string to a Mode, defaulting to global.
func ParseMode(raw string) Mode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(ModeDay):
		return ModeDay
	case string(ModeTag):
		return ModeTag
	default:
		return ModeGlobal
	}
}
