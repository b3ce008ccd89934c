package contacts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/poster-outreach/constants"

	"github.com/joseph-ayodele/poster-outreach/internal/textutil"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Blue Room", "blueroom"},
		{"Miles Quartet", "milesquartet"},
		{"DJ K-9!", "djk9"},
		{"Théâtre", "thtre"},
		{"The The", ""},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in), tt.in)
	}
}

func TestPlaceholderResolver(t *testing.T) {
	var r Resolver = PlaceholderResolver{}
	ctx := context.Background()

	assert.Equal(t, "contact@milesquartet.com", r.Resolve(ctx, "Miles Quartet", constants.ChannelInstagram))
	assert.Equal(t, "info@blueroom.com", r.Resolve(ctx, "The Blue Room", constants.ChannelFacebook))
	assert.Equal(t, DefaultAddress, r.Resolve(ctx, "Miles Quartet", "myspace"))
	assert.Equal(t, DefaultAddress, r.Resolve(ctx, "***", constants.ChannelInstagram))
}

func TestPlaceholderAlwaysValid(t *testing.T) {
	r := PlaceholderResolver{}
	for _, name := range []string{"Not specified", "a", "Ünïcødé Band", "The The", "   "} {
		for _, ch := range []string{constants.ChannelInstagram, constants.ChannelFacebook, ""} {
			assert.True(t, textutil.IsValidEmail(r.Resolve(context.Background(), name, ch)), "%q/%q", name, ch)
		}
	}
}
