package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRoom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "known code passes through", input: "WP", expected: "WP"},
		{name: "lowercase code uppercased", input: "wp", expected: "WP"},
		{name: "code with whitespace", input: "  TM ", expected: "TM"},
		{name: "full hall name", input: "Salle Wilfrid-Pelletier", expected: "WP"},
		{name: "unaccented hall name", input: "Cinquieme Salle", expected: "C5"},
		{name: "accented hall name", input: "Salle Claude-Léveillée", expected: "CL"},
		{name: "maison symphonique", input: "Maison symphonique", expected: "MS"},
		{name: "historical SWP abbreviation", input: "SWP", expected: "WP"},
		{name: "unrecognized text kept trimmed", input: " Studio B ", expected: "Studio B"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeRoom(tt.input))
		})
	}
}

func TestNormalizeRoomIdempotent(t *testing.T) {
	inputs := []string{"WP", "Salle Wilfrid-Pelletier", "SWP", "Studio B", "salle d"}
	for _, in := range inputs {
		once := NormalizeRoom(in)
		assert.Equal(t, once, NormalizeRoom(once), "input %q", in)
	}
}

func TestNormalizePiano(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "brand with model reduces to brand", input: "Steinway D 274", expected: "STEINWAY"},
		{name: "lowercase brand", input: "yamaha C7", expected: "YAMAHA"},
		{name: "accented brand", input: "Bösendorfer 280", expected: "BÖSENDORFER"},
		{name: "no brand collapses whitespace", input: "  Piano  droit ", expected: "piano droit"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePiano(tt.input))
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "h separator", input: "14h30", expected: "14:30"},
		{name: "h separator no minutes", input: "9h", expected: "09:00"},
		{name: "colon separator", input: "14:30", expected: "14:30"},
		{name: "embedded in phrase", input: "avant 10h", expected: "10:00"},
		{name: "no time", input: "en soirée", expected: ""},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTime(tt.input))
		})
	}
}

func TestNormalizeRequester(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "room code cleared", input: "WP", expected: ""},
		{name: "lowercase room code cleared", input: "wp", expected: ""},
		{name: "full name maps to code", input: "Annie Jenkins", expected: "AJ"},
		{name: "abbreviated name maps to code", input: "A. Jenkins", expected: "AJ"},
		{name: "known code kept uppercase", input: "ic", expected: "IC"},
		{name: "unknown short token cleared", input: "XY", expected: ""},
		{name: "longer unknown name kept", input: "Jean Tremblay", expected: "Jean Tremblay"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeRequester(tt.input))
		})
	}
}

func TestIsRoomCode(t *testing.T) {
	assert.True(t, IsRoomCode("WP"))
	assert.True(t, IsRoomCode(" ms "))
	assert.False(t, IsRoomCode("SWP"))
	assert.False(t, IsRoomCode(""))
}
