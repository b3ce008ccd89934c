// Package ocr turns poster images into raw text using the tesseract CLI.
package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"time"
)

// Config controls the tesseract invocation.
type Config struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Lang        string // default "eng"
	TessdataDir string
	OEM         int // engine mode; 3 = default engine selection
	PSM         int // page segmentation; 6 = single uniform block of text
	TempDir     string
}

// Result is one recognition run.
type Result struct {
	Text     string
	Format   string
	Width    int
	Height   int
	Duration time.Duration
}

// Engine decodes, normalizes and recognizes poster images.
type Engine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// NewEngine builds an Engine. Zero-valued config fields fall back to defaults.
func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	return &Engine{cfg: cfg, runner: execRunner{}, logger: logger}
}

// WithRunner swaps the command runner, used by tests and dry runs.
func (e *Engine) WithRunner(r Runner) *Engine {
	e.runner = r
	return e
}

// Recognize decodes data and returns the normalized text tesseract finds in it.
// Unreadable input wraps ErrDecode; an engine failure or empty output wraps ErrNoText.
// Engine failures also wrap ErrTesseractMissing, ErrLanguageData or the context error.
func (e *Engine) Recognize(ctx context.Context, data []byte) (Result, error) {
	start := time.Now()

	img, format, err := Decode(data)
	if err != nil {
		e.logger.Warn("ocr.decode.failed", "bytes", len(data), "error", err)
		return Result{}, err
	}
	rgba := toRGBA(img)
	res := Result{Format: format, Width: rgba.Bounds().Dx(), Height: rgba.Bounds().Dy()}

	path, cleanup, err := e.writeTemp(rgba)
	if err != nil {
		return res, fmt.Errorf("%w: stage image: %v", ErrNoText, err)
	}
	defer cleanup()

	out, err := e.tesseract().run(ctx, path)
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}

	res.Text = Normalize(out)
	if res.Text == "" {
		e.logger.Warn("ocr.empty", "format", format, "elapsed_ms", res.Duration.Milliseconds())
		return res, ErrNoText
	}
	e.logger.Info("ocr.ok",
		"format", format,
		"width", res.Width,
		"height", res.Height,
		"chars", len(res.Text),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Engine) tesseract() tesseract {
	return tesseract{
		bin:      e.cfg.Tesseract,
		lang:     e.cfg.Lang,
		tessdata: e.cfg.TessdataDir,
		oem:      e.cfg.OEM,
		psm:      e.cfg.PSM,
		runner:   e.runner,
		logger:   e.logger,
	}
}

func (e *Engine) writeTemp(img *image.RGBA) (string, func(), error) {
	f, err := os.CreateTemp(e.cfg.TempDir, "poster-*.png")
	if err != nil {
		return "", func() {}, err
	}
	cleanup := func() { _ = os.Remove(f.Name()) }
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		cleanup()
		return "", func() {}, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", func() {}, err
	}
	return f.Name(), cleanup, nil
}
