package types

// SubmitInput carries a raw submission after transport decoding. Score may
// be NaN when the caller could not coerce the payload to a number; the
// ingestion path rejects it with the other validation failures.
type SubmitInput struct {
	Mode       string
	Score      float64
	PlayerName string
	DeptCode   string
}

// Leaderboards is the retrieval result for both modes. Error carries a
// diagnostic tag ("kv_unavailable") when the store could not be reached;
// the arrays are always non-nil so callers never break.
type Leaderboards struct {
	TimeAttackScores []ScoreEntry      `json:"timeAttackScores"`
	SpeedRunScores   []ScoreEntry      `json:"speedRunScores"`
	Error            string            `json:"error,omitempty"`
	Debug            map[string]string `json:"_debug,omitempty"`
}

// ClearDetail reports the outcome of deleting one legacy key.
type ClearDetail struct {
	Key     string `json:"key"`
	Deleted bool   `json:"deleted"`
}

// StoreHealth is the store connectivity diagnostic.
type StoreHealth struct {
	OK  bool              `json:"ok"`
	Env map[string]string `json:"env"`
}
