package extract

import "fmt"

// DecodeError means the input bytes are not a readable image.
type DecodeError struct{ Err error }

func (e *DecodeError) Error() string { return fmt.Sprintf("decode image: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// OcrError means recognition failed or produced no usable text.
type OcrError struct{ Err error }

func (e *OcrError) Error() string { return fmt.Sprintf("ocr: %v", e.Err) }
func (e *OcrError) Unwrap() error { return e.Err }

// CategorizationError means the completion call itself failed (network, auth, quota).
// Malformed model output is not reported this way; it yields a fallback record.
type CategorizationError struct {
	Provider string
	Err      error
}

func (e *CategorizationError) Error() string {
	return fmt.Sprintf("categorize (%s): %v", e.Provider, e.Err)
}
func (e *CategorizationError) Unwrap() error { return e.Err }
