package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"collapses whitespace", "  Jazz\n\n Night\t 2024  ", "Jazz Night 2024"},
		{"strips symbols", "Live! @ The Blue Room #1 (free) $10", "Live! @ The Blue Room 1 free 10"},
		{"keeps punctuation", "Doors 7:00 p.m., Sat.", "Doors 700 p.m., Sat."},
		{"keeps hyphen and underscore", "hip-hop_night", "hip-hop_night"},
		{"keeps unicode letters", "Café Müller", "Café Müller"},
		{"separator controls", "Jazz\x1cNight\x1d2024\x1e\x1fLive", "Jazz Night 2024 Live"},
		{"next line", "Blue\u0085Room", "Blue Room"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Clean(tc.in))
		})
	}
}

func TestCoerceDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"March 5, 2024", "2024-03-05"},
		{"Mar 5, 2024", "2024-03-05"},
		{"5 March 2024", "2024-03-05"},
		{"5 Mar 2024", "2024-03-05"},
		{"2024-03-05", "2024-03-05"},
		{"05-03-2024", "2024-03-05"}, // day first wins
		{"12-25-2024", "2024-12-25"}, // month first when day first is impossible
		{"05/03/2024", "2024-03-05"},
		{"12/25/2024", "2024-12-25"},
		{"  March 5, 2024 ", "2024-03-05"},
		{"not a date", "not a date"},
		{"Not specified", "Not specified"},
		{"", ""},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, CoerceDate(tc.in))
		})
	}
}

func TestFindEmails(t *testing.T) {
	assert.Equal(t, []string{"a@b.com", "c@d.org"}, FindEmails("contact me at a@b.com or c@d.org"))
	assert.Equal(t, []string{"x@y.io", "x@y.io"}, FindEmails("x@y.io, x@y.io"))
	assert.Empty(t, FindEmails("no addresses here"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("booking@blue-room.co.uk"))
	assert.True(t, IsValidEmail("first.last+gig@example.com"))
	assert.False(t, IsValidEmail("a@b.c"))
	assert.False(t, IsValidEmail("no-at-sign.com"))
	assert.False(t, IsValidEmail("a@b.com\n"))
	assert.False(t, IsValidEmail("a@b.com other@c.com"))
	assert.False(t, IsValidEmail(""))
}
