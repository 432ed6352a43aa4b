package api

// Wire error codes. Validation codes match what the game client expects.
const (
	codeMissingFields     = "missing_fields"
	codeInvalidScore      = "invalid_score"
	codeInvalidDept       = "invalid_dept"
	codeBadRequest        = "bad_request"
	codeInternalError     = "internal_error"
	codeStoreNotConfig    = "store_not_configured"
	codeMissingAudio      = "missing_audio"
	codeInvalidAudio      = "invalid_audio"
	codeEmptyAudio        = "empty_audio"
	codeAudioTooLarge     = "audio_too_large"
	codeOpenAIKeyMissing  = "openai_key_missing"
	codeOpenAIReqFailed   = "openai_request_failed"
	codeMethodNotAllowed  = "method_not_allowed"
)
