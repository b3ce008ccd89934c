package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrTesseractMissing marks a host without the configured tesseract binary.
	ErrTesseractMissing = errors.New("tesseract not installed")
	// ErrLanguageData marks a missing traineddata file for the configured language.
	ErrLanguageData = errors.New("tesseract language data missing")
)

// Runner executes an external command. Tests stub it instead of installing tesseract.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

// tesseract is one configured invocation of the tesseract CLI.
type tesseract struct {
	bin      string
	lang     string
	tessdata string
	oem, psm int
	runner   Runner
	logger   *slog.Logger
}

// args builds: tesseract <file> stdout -l <lang> [--oem N] [--psm N] [--tessdata-dir D]
func (t tesseract) args(path string) []string {
	args := []string{path, "stdout", "-l", t.lang}
	if t.oem > 0 {
		args = append(args, "--oem", strconv.Itoa(t.oem))
	}
	if t.psm > 0 {
		args = append(args, "--psm", strconv.Itoa(t.psm))
	}
	if t.tessdata != "" {
		args = append(args, "--tessdata-dir", t.tessdata)
	}
	return args
}

// run recognizes the staged image at path and returns raw stdout.
// Every failure wraps ErrNoText together with its classified cause.
func (t tesseract) run(ctx context.Context, path string) (string, error) {
	start := time.Now()
	args := t.args(path)

	out, stderr, err := t.runner.Run(ctx, t.bin, args...)
	elapsed := time.Since(start)
	if err != nil {
		cause := t.classify(ctx, err, stderr)
		t.logger.Error("ocr.tesseract.failed",
			"cmd", t.bin,
			"args", strings.Join(args, " "),
			"elapsed_ms", elapsed.Milliseconds(),
			"error", cause,
			"stderr", truncate(string(stderr), 8<<10),
		)
		return "", fmt.Errorf("%w: %w", ErrNoText, cause)
	}
	t.logger.Debug("ocr.tesseract.ok",
		"cmd", t.bin,
		"lang", t.lang,
		"elapsed_ms", elapsed.Milliseconds(),
		"stdout_bytes", len(out),
	)
	return string(out), nil
}

func (t tesseract) classify(ctx context.Context, err error, stderr []byte) error {
	msg := strings.TrimSpace(truncate(string(stderr), 512))
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrTesseractMissing, t.bin)
	case ctx.Err() != nil:
		return ctx.Err()
	case strings.Contains(msg, "Error opening data file"), strings.Contains(msg, "Failed loading language"):
		return fmt.Errorf("%w for %q", ErrLanguageData, t.lang)
	case msg != "":
		return fmt.Errorf("tesseract: %v: %s", err, msg)
	default:
		return fmt.Errorf("tesseract: %w", err)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
