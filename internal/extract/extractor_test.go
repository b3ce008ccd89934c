package extract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/poster-outreach/constants"
	"github.com/joseph-ayodele/poster-outreach/internal/entity"
	"github.com/joseph-ayodele/poster-outreach/internal/llm"
	"github.com/joseph-ayodele/poster-outreach/internal/ocr"
)

type mockRecognizer struct{ mock.Mock }

func (m *mockRecognizer) Recognize(ctx context.Context, image []byte) (ocr.Result, error) {
	args := m.Called(ctx, image)
	return args.Get(0).(ocr.Result), args.Error(1)
}

type mockCompleter struct{ mock.Mock }

func (m *mockCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockCompleter) Name() string { return "mock" }

var poster = []byte("png-bytes")

func newTestExtractor(text string, content string, completeErr error) (*Extractor, *mockRecognizer, *mockCompleter) {
	rec := &mockRecognizer{}
	rec.On("Recognize", mock.Anything, poster).Return(ocr.Result{Text: text}, nil)
	comp := &mockCompleter{}
	comp.On("Complete", mock.Anything, mock.Anything).Return(content, completeErr)
	return NewExtractor(rec, comp, nil), rec, comp
}

func TestExtractHappyPath(t *testing.T) {
	content := `{"event_name":"Jazz Night","artist_name":"Miles Quartet","venue_name":"Blue Room",` +
		`"venue_owner":"Not specified","date":"March 5, 2024","time":"7:00 PM","location":"Lagos, Nigeria"}`
	e, _, comp := newTestExtractor("JAZZ NIGHT\nMiles Quartet @ Blue Room", content, nil)

	res, err := e.Extract(context.Background(), poster)
	require.NoError(t, err)

	assert.False(t, res.UsedFallback)
	assert.Equal(t, "mock", res.Provider)
	assert.Equal(t, "JAZZ NIGHT Miles Quartet @ Blue Room", res.OCRText)
	assert.Equal(t, entity.EventRecord{
		EventName:  "Jazz Night",
		ArtistName: "Miles Quartet",
		VenueName:  "Blue Room",
		VenueOwner: constants.NotSpecified,
		Date:       "2024-03-05",
		Time:       "7:00 PM",
		Location:   "Lagos, Nigeria",
	}, res.Record)

	req := comp.Calls[0].Arguments.Get(1).(llm.CompletionRequest)
	assert.Equal(t, llm.SystemPrompt, req.System)
	assert.Contains(t, req.Prompt, "JAZZ NIGHT Miles Quartet @ Blue Room")
}

func TestExtractMissingKeysDefaultToSentinel(t *testing.T) {
	e, _, _ := newTestExtractor("poster", "```json\n{\"event_name\":\"Gig\"}\n```", nil)

	res, err := e.Extract(context.Background(), poster)
	require.NoError(t, err)
	assert.False(t, res.UsedFallback)

	fields := res.Record.Fields()
	assert.Equal(t, "Gig", fields[constants.FieldEventName])
	for _, k := range constants.ExtractedFields[1:] {
		assert.Equal(t, constants.NotSpecified, fields[k], k)
	}
	assert.Empty(t, res.Record.ArtistEmail)
}

func TestExtractMalformedOutputFallsBack(t *testing.T) {
	e, _, _ := newTestExtractor("poster", "I could not find any event details.", nil)

	res, err := e.Extract(context.Background(), poster)
	require.NoError(t, err)

	assert.True(t, res.UsedFallback)
	assert.Equal(t, entity.NewEventRecord(), res.Record)
	for _, k := range constants.ExtractedFields {
		assert.NotEmpty(t, res.Record.Fields()[k])
	}
}

func TestExtractCompletionFailure(t *testing.T) {
	e, _, _ := newTestExtractor("poster", "", &llm.StatusError{Status: 401, Body: "bad key"})

	_, err := e.Extract(context.Background(), poster)

	var ce *CategorizationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "mock", ce.Provider)
	var se *llm.StatusError
	assert.True(t, errors.As(err, &se))
}

func TestExtractDecodeError(t *testing.T) {
	rec := &mockRecognizer{}
	rec.On("Recognize", mock.Anything, poster).Return(ocr.Result{}, fmt.Errorf("%w: bad header", ocr.ErrDecode))
	comp := &mockCompleter{}
	e := NewExtractor(rec, comp, nil)

	_, err := e.Extract(context.Background(), poster)
	var de *DecodeError
	assert.True(t, errors.As(err, &de))
	comp.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)

	_, err = e.Extract(context.Background(), nil)
	assert.True(t, errors.As(err, &de), "empty input")
}

func TestExtractOcrError(t *testing.T) {
	rec := &mockRecognizer{}
	rec.On("Recognize", mock.Anything, poster).Return(ocr.Result{}, ocr.ErrNoText)
	e := NewExtractor(rec, &mockCompleter{}, nil)

	_, err := e.Extract(context.Background(), poster)
	var oe *OcrError
	assert.True(t, errors.As(err, &oe))
	assert.ErrorIs(t, err, ocr.ErrNoText)
}

func TestExtractUnusableTextIsOcrError(t *testing.T) {
	e, _, comp := newTestExtractor(" ~~~ ### ", "{}", nil)

	_, err := e.Extract(context.Background(), poster)
	var oe *OcrError
	assert.True(t, errors.As(err, &oe))
	comp.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}
