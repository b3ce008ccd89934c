package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/poster-outreach/constants"
)

func TestNewEventRecord(t *testing.T) {
	r := NewEventRecord()

	for _, k := range constants.ExtractedFields {
		assert.Equal(t, constants.NotSpecified, r.Fields()[k], k)
	}
	assert.Empty(t, r.ArtistEmail)
	assert.Empty(t, r.VenueEmail)
	assert.True(t, r.IsFallback())
}

func TestEventRecordFromMap(t *testing.T) {
	r := EventRecordFromMap(map[string]string{
		"event_name":   "Jazz Night",
		"artist_name":  "",
		"date":         "2024-03-05",
		"artist_email": "a@b.com",
		"unexpected":   "ignored",
	})

	assert.Equal(t, "Jazz Night", r.EventName)
	assert.Equal(t, constants.NotSpecified, r.ArtistName, "blank value defaults to sentinel")
	assert.Equal(t, "2024-03-05", r.Date)
	assert.Equal(t, constants.NotSpecified, r.Location)
	assert.Equal(t, "a@b.com", r.ArtistEmail)
	assert.Empty(t, r.VenueEmail)
	assert.False(t, r.IsFallback())
}

func TestFieldsHasEveryKey(t *testing.T) {
	f := NewEventRecord().Fields()

	assert.Len(t, f, len(constants.RecordFields))
	for _, k := range constants.RecordFields {
		_, ok := f[k]
		assert.True(t, ok, k)
	}
}

func TestFieldsIsACopy(t *testing.T) {
	r := NewEventRecord()
	f := r.Fields()
	f[constants.FieldEventName] = "changed"

	assert.Equal(t, constants.NotSpecified, r.EventName)
}
