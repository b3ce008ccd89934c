// Package contacts resolves contact addresses for artists and venues.
package contacts

import (
	"context"
	"strings"

	"github.com/joseph-ayodele/poster-outreach/constants"
)

// Resolver finds a contact email for a name on a channel. Lookups are best
// effort: implementations return "" (never an error) when nothing is found.
type Resolver interface {
	Resolve(ctx context.Context, name, channel string) string
}

// DefaultAddress is returned when no guess can be derived.
const DefaultAddress = "email@example.com"

// PlaceholderResolver guesses an address from the slugified name instead of
// performing a real lookup. It never fails and always returns a valid address.
type PlaceholderResolver struct{}

func (PlaceholderResolver) Resolve(_ context.Context, name, channel string) string {
	slug := Slug(name)
	if slug == "" {
		return DefaultAddress
	}
	switch strings.ToLower(channel) {
	case constants.ChannelInstagram:
		return "contact@" + slug + ".com"
	case constants.ChannelFacebook:
		return "info@" + slug + ".com"
	default:
		return DefaultAddress
	}
}

// Slug lowercases name, drops spaces and the word fragment "the", then
// keeps only [a-z0-9].
func Slug(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "the", "")
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
