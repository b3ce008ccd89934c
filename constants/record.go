package constants

// NotSpecified is the value used for any event field the poster does not reveal.
const NotSpecified = "Not specified"

// Record field keys, as they appear in model output, templates and JSON payloads.
const (
	FieldEventName   = "event_name"
	FieldArtistName  = "artist_name"
	FieldVenueName   = "venue_name"
	FieldVenueOwner  = "venue_owner"
	FieldDate        = "date"
	FieldTime        = "time"
	FieldLocation    = "location"
	FieldArtistEmail = "artist_email"
	FieldVenueEmail  = "venue_email"
)

// ExtractedFields are the seven keys the categorization step asks the model for, in prompt order.
var ExtractedFields = []string{
	FieldEventName,
	FieldArtistName,
	FieldVenueName,
	FieldVenueOwner,
	FieldDate,
	FieldTime,
	FieldLocation,
}

// RecordFields is every key of an event record: the extracted seven plus both contact emails.
var RecordFields = append(append([]string{}, ExtractedFields...), FieldArtistEmail, FieldVenueEmail)

// StoreHeader is the first row of the persisted table.
var StoreHeader = []string{
	"Timestamp",
	"Event Name",
	"Artist Name",
	"Venue Name",
	"Venue Owner",
	"Date",
	"Time",
	"Location",
	"Artist Email",
	"Venue Email",
}

// RecipientRole is the party a template is addressed to.
type RecipientRole string

const (
	RoleArtist RecipientRole = "artist"
	RoleVenue  RecipientRole = "venue"
)

// Contact lookup channels. Artists are looked up on instagram, venues on facebook.
const (
	ChannelInstagram = "instagram"
	ChannelFacebook  = "facebook"
)
