package llm

import (
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/poster-outreach/constants"
)

// maxPromptText bounds the OCR text sent to the model.
const maxPromptText = 6000

// SystemPrompt is sent as the system message for every categorization call.
const SystemPrompt = "You are a data extraction expert. Return only valid JSON without any markdown formatting or explanation."

var fieldHints = map[string]string{
	constants.FieldEventName:  "name of the event",
	constants.FieldArtistName: "name of the artist/performer",
	constants.FieldVenueName:  "name of the venue",
	constants.FieldVenueOwner: "name of venue owner if mentioned",
	constants.FieldDate:       "event date in YYYY-MM-DD format",
	constants.FieldTime:       "event time (e.g., 7:00 PM)",
	constants.FieldLocation:   "city and country",
}

// BuildUserPrompt asks for the seven event fields as a bare JSON object.
func BuildUserPrompt(ocrText string) string {
	text := strings.TrimSpace(ocrText)
	if len(text) > maxPromptText {
		cut := maxPromptText
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	var b strings.Builder
	b.WriteString("Extract and categorize the following event poster text into JSON format.\n\n")
	b.WriteString("TEXT:\n")
	b.WriteString(text)
	b.WriteString("\n\nReturn ONLY a valid JSON object (no markdown, no code blocks) with these exact fields:\n{\n")
	for i, k := range constants.ExtractedFields {
		b.WriteString(`    "` + k + `": "` + fieldHints[k] + `"`)
		if i < len(constants.ExtractedFields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n\nRules:\n")
	b.WriteString(`- If any field is not found, use "` + constants.NotSpecified + `"` + "\n")
	b.WriteString("- For dates, convert to YYYY-MM-DD format\n")
	b.WriteString("- Extract only factual information from the text\n")
	b.WriteString("- Do not add information that isn't in the text\n")
	return b.String()
}
