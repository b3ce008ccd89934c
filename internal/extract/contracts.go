// Package extract turns poster images into EventRecords: OCR, then LLM
// categorization, then record assembly.
package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/poster-outreach/internal/entity"
	"github.com/joseph-ayodele/poster-outreach/internal/ocr"
)

// TextRecognizer is stage 1: image bytes -> text.
type TextRecognizer interface {
	Recognize(ctx context.Context, image []byte) (ocr.Result, error)
}

// Result carries the record plus how it was obtained. UsedFallback is set
// when the model answered with something unparseable and Record is the
// all-sentinel default rather than model output.
type Result struct {
	Record       entity.EventRecord
	OCRText      string
	UsedFallback bool
	Provider     string
	OCRDuration  time.Duration
	LLMDuration  time.Duration
}
