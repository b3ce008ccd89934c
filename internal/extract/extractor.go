package extract

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/poster-outreach/constants"
	"github.com/joseph-ayodele/poster-outreach/internal/entity"
	"github.com/joseph-ayodele/poster-outreach/internal/llm"
	"github.com/joseph-ayodele/poster-outreach/internal/ocr"
	"github.com/joseph-ayodele/poster-outreach/internal/textutil"
)

// Extractor runs image -> text -> categorized record.
type Extractor struct {
	ocr       TextRecognizer
	completer llm.Completer
	logger    *slog.Logger
}

func NewExtractor(rec TextRecognizer, completer llm.Completer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{ocr: rec, completer: completer, logger: logger}
}

// Extract recognizes image and categorizes its text.
// Errors are *DecodeError, *OcrError or *CategorizationError.
func (e *Extractor) Extract(ctx context.Context, image []byte) (Result, error) {
	if len(image) == 0 {
		return Result{}, &DecodeError{Err: ocr.ErrDecode}
	}

	ocrRes, err := e.ocr.Recognize(ctx, image)
	if err != nil {
		if errors.Is(err, ocr.ErrDecode) {
			return Result{}, &DecodeError{Err: err}
		}
		e.logger.Error("extract.ocr.failed", "error", err)
		return Result{OCRDuration: ocrRes.Duration}, &OcrError{Err: err}
	}

	text := textutil.Clean(ocrRes.Text)
	if text == "" {
		e.logger.Warn("extract.ocr.unusable", "raw_chars", len(ocrRes.Text))
		return Result{OCRDuration: ocrRes.Duration}, &OcrError{Err: ocr.ErrNoText}
	}
	e.logger.Info("extract.ocr.ok", "chars", len(text), "elapsed_ms", ocrRes.Duration.Milliseconds())

	res, err := e.Categorize(ctx, text)
	res.OCRDuration = ocrRes.Duration
	return res, err
}

// Categorize sends already-cleaned text to the model and assembles the record.
func (e *Extractor) Categorize(ctx context.Context, text string) (Result, error) {
	start := time.Now()
	res := Result{OCRText: text, Provider: e.completer.Name()}

	content, err := e.completer.Complete(ctx, llm.CompletionRequest{
		System: llm.SystemPrompt,
		Prompt: llm.BuildUserPrompt(text),
	})
	res.LLMDuration = time.Since(start)
	if err != nil {
		e.logger.Error("extract.categorize.failed", "provider", res.Provider, "error", err)
		return res, &CategorizationError{Provider: res.Provider, Err: err}
	}

	fields, err := llm.ParseEventFields(content, e.logger)
	switch {
	case errors.Is(err, llm.ErrMalformedOutput):
		e.logger.Warn("extract.categorize.fallback",
			"provider", res.Provider,
			"error", err,
			"content_len", len(content),
		)
		res.Record = entity.NewEventRecord()
		res.UsedFallback = true
		return res, nil
	case err != nil:
		return res, &CategorizationError{Provider: res.Provider, Err: err}
	}

	res.Record = assemble(fields)
	e.logger.Info("extract.categorize.ok",
		"provider", res.Provider,
		"event", res.Record.EventName,
		"date", res.Record.Date,
		"elapsed_ms", res.LLMDuration.Milliseconds(),
	)
	return res, nil
}

// assemble keeps only the extracted keys; contact emails come from a later lookup.
func assemble(fields map[string]string) entity.EventRecord {
	picked := make(map[string]string, len(constants.ExtractedFields))
	for _, k := range constants.ExtractedFields {
		picked[k] = fields[k]
	}
	r := entity.EventRecordFromMap(picked)
	r.Date = textutil.CoerceDate(r.Date)
	return r
}
