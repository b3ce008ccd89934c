package constants

// ExtractStatus labels how an extraction request ended. Used as a metric label.
type ExtractStatus string

// Stable values (exported as metric label values).
const (
	ExtractStatusOK          ExtractStatus = "ok"           // model output parsed
	ExtractStatusFallback    ExtractStatus = "fallback"     // model output malformed, all-sentinel record
	ExtractStatusDecodeError ExtractStatus = "decode_error" // image unreadable
	ExtractStatusOCRError    ExtractStatus = "ocr_error"    // no text recovered
	ExtractStatusLLMError    ExtractStatus = "llm_error"    // completion call failed
	ExtractStatusInternal    ExtractStatus = "internal"     // anything else
)
