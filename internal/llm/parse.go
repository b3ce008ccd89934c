package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// StripCodeFence unwraps a ```json ... ``` (or bare ```) block around model output.
// Text without a leading fence is only trimmed.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if end := strings.Index(s, "```"); end >= 0 {
		s = s[:end]
	}
	s = strings.TrimSpace(s)
	if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		s = s[4:]
	}
	return strings.TrimSpace(s)
}

// ParseEventFields turns raw model text into the extracted-field mapping.
// Anything that is not a JSON object of scalar values, after sanitizing,
// fails with ErrMalformedOutput.
func ParseEventFields(content string, logger *slog.Logger) (map[string]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	body := []byte(StripCodeFence(content))

	cleaned, _, err := NormalizeAndSanitizeJSON(body, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	schema, err := compiledEventSchema()
	if err != nil {
		return nil, fmt.Errorf("event schema: %w", err)
	}
	if err := validateWith(schema, cleaned); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	var out map[string]string
	if err := json.Unmarshal(cleaned, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return out, nil
}
