package llm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/poster-outreach/constants"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", ` {"a":"b"} `, `{"a":"b"}`},
		{"json fence", "```json\n{\"a\":\"b\"}\n```", `{"a":"b"}`},
		{"plain fence", "```\n{\"a\":\"b\"}\n```", `{"a":"b"}`},
		{"fence with trailing prose", "```json\n{}\n```\nHope this helps!", `{}`},
		{"unterminated fence", "```JSON {\"a\":1}", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestParseEventFields(t *testing.T) {
	content := "```json\n" + `{
		"event_name": "Jazz Night",
		"artist": "Miles Quartet",
		"venue_name": "Blue Room",
		"venue_owner": null,
		"date": "2024-03-05",
		"time": 19,
		"location": "  Lagos, Nigeria ",
		"ticket_price": "$20"
	}` + "\n```"

	got, err := ParseEventFields(content, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		constants.FieldEventName:  "Jazz Night",
		constants.FieldArtistName: "Miles Quartet",
		constants.FieldVenueName:  "Blue Room",
		constants.FieldDate:       "2024-03-05",
		constants.FieldTime:       "19",
		constants.FieldLocation:   "Lagos, Nigeria",
	}, got)
}

func TestParseEventFieldsMalformed(t *testing.T) {
	for _, in := range []string{
		"Sorry, I cannot help with that.",
		`["event_name"]`,
		`null`,
		`{"event_name": "Jazz"`,
	} {
		_, err := ParseEventFields(in, nil)
		assert.ErrorIs(t, err, ErrMalformedOutput, in)
	}
}

func TestParseEventFieldsDropsNestedValues(t *testing.T) {
	got, err := ParseEventFields(`{"event_name": {"text": "x"}, "date": "2024-01-01"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{constants.FieldDate: "2024-01-01"}, got)
}

func TestSanitizeKeepsCanonicalOverSynonym(t *testing.T) {
	out, dropped, err := NormalizeAndSanitizeJSON([]byte(`{"artist_name":"A","artist":"B"}`), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"artist_name":"A"}`, string(out))
	assert.Contains(t, dropped, "artist->artist_name")
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := BuildEventJSONSchema()
	assert.NoError(t, ValidateJSONAgainstSchema(schema, []byte(`{"event_name":"x"}`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"event_name":1}`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"extra":"x"}`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"event_name":""}`)))
}

func TestBuildUserPrompt(t *testing.T) {
	p := BuildUserPrompt("  JAZZ NIGHT at the Blue Room  ")

	assert.Contains(t, p, "TEXT:\nJAZZ NIGHT at the Blue Room\n")
	for _, k := range constants.ExtractedFields {
		assert.Contains(t, p, `"`+k+`"`)
	}
	assert.Contains(t, p, `use "Not specified"`)
	assert.Contains(t, p, "YYYY-MM-DD")
}

func TestBuildUserPromptTruncatesOnRuneBoundary(t *testing.T) {
	// "é" is two bytes, so with the leading "a" byte 6000 falls mid-rune.
	long := "a" + strings.Repeat("é", 3500)
	p := BuildUserPrompt(long)

	start := strings.Index(p, "TEXT:\n") + len("TEXT:\n")
	end := strings.Index(p, "\n\nReturn ONLY")
	require.True(t, start > 0 && end > start)
	text := p[start:end]

	assert.True(t, utf8.ValidString(p))
	assert.Len(t, text, 5999)
	assert.True(t, strings.HasPrefix(long, text))
}
