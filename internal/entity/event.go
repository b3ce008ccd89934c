package entity

import (
	"github.com/joseph-ayodele/poster-outreach/constants"
)

// EventRecord is the structured result of reading one poster.
// Every field always holds a value: unknown extracted fields carry
// constants.NotSpecified and unknown contact emails are empty.
type EventRecord struct {
	EventName   string `json:"event_name"`
	ArtistName  string `json:"artist_name"`
	VenueName   string `json:"venue_name"`
	VenueOwner  string `json:"venue_owner"`
	Date        string `json:"date"` // YYYY-MM-DD when derivable
	Time        string `json:"time"`
	Location    string `json:"location"`
	ArtistEmail string `json:"artist_email"`
	VenueEmail  string `json:"venue_email"`
}

// NewEventRecord returns the all-sentinel record.
func NewEventRecord() EventRecord {
	return EventRecord{
		EventName:  constants.NotSpecified,
		ArtistName: constants.NotSpecified,
		VenueName:  constants.NotSpecified,
		VenueOwner: constants.NotSpecified,
		Date:       constants.NotSpecified,
		Time:       constants.NotSpecified,
		Location:   constants.NotSpecified,
	}
}

// EventRecordFromMap builds a record from a loose key/value mapping.
// Missing or blank extracted keys default to the sentinel, missing emails to "".
// Keys outside constants.RecordFields are ignored.
func EventRecordFromMap(m map[string]string) EventRecord {
	r := NewEventRecord()
	pick := func(key string, dst *string) {
		if v, ok := m[key]; ok && v != "" {
			*dst = v
		}
	}
	pick(constants.FieldEventName, &r.EventName)
	pick(constants.FieldArtistName, &r.ArtistName)
	pick(constants.FieldVenueName, &r.VenueName)
	pick(constants.FieldVenueOwner, &r.VenueOwner)
	pick(constants.FieldDate, &r.Date)
	pick(constants.FieldTime, &r.Time)
	pick(constants.FieldLocation, &r.Location)
	pick(constants.FieldArtistEmail, &r.ArtistEmail)
	pick(constants.FieldVenueEmail, &r.VenueEmail)
	return r
}

// Fields returns a fresh map holding all nine keys of the record.
func (r EventRecord) Fields() map[string]string {
	return map[string]string{
		constants.FieldEventName:   r.EventName,
		constants.FieldArtistName:  r.ArtistName,
		constants.FieldVenueName:   r.VenueName,
		constants.FieldVenueOwner:  r.VenueOwner,
		constants.FieldDate:        r.Date,
		constants.FieldTime:        r.Time,
		constants.FieldLocation:    r.Location,
		constants.FieldArtistEmail: r.ArtistEmail,
		constants.FieldVenueEmail:  r.VenueEmail,
	}
}

// IsFallback reports whether every extracted field still holds the sentinel.
func (r EventRecord) IsFallback() bool {
	for _, k := range constants.ExtractedFields {
		if r.Fields()[k] != constants.NotSpecified {
			return false
		}
	}
	return true
}
