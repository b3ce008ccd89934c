package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/poster-outreach/constants"
)

// synonyms maps keys models commonly emit to the canonical field names.
var synonyms = map[string]string{
	"event":     constants.FieldEventName,
	"title":     constants.FieldEventName,
	"artist":    constants.FieldArtistName,
	"performer": constants.FieldArtistName,
	"venue":     constants.FieldVenueName,
	"owner":     constants.FieldVenueOwner,
	"city":      constants.FieldLocation,
}

// NormalizeAndSanitizeJSON
// - Renames known synonyms (artist -> artist_name)
// - Coerces numbers and booleans to strings
// - Drops null, empty and non-scalar values
// - Removes unknown keys so the strict schema can validate
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}
	if m == nil {
		return nil, nil, fmt.Errorf("sanitize: decode: not an object")
	}

	dropped := make([]string, 0, 4)
	for from, to := range synonyms {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	allowed := make(map[string]struct{}, len(constants.ExtractedFields))
	for _, k := range constants.ExtractedFields {
		allowed[k] = struct{}{}
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	for k, v := range maps.Clone(m) {
		switch t := v.(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" || strings.EqualFold(s, "null") {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		case float64:
			m[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			m[k] = strconv.FormatBool(t)
		case nil:
			delete(m, k)
			dropped = append(dropped, k+"(null)")
		default:
			delete(m, k)
			dropped = append(dropped, k+"(type)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.categorize.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}
