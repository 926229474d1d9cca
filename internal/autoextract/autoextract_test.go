package autoextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGoogleMapsSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.google.com/maps/place/x", true},
		{"https://maps.google.com/?q=cafe", true},
		{"HTTPS://WWW.GOOGLE.COM/MAPS/search/bars", true},
		{"https://example.com", false},
		{"https://google.com/search?q=maps", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsGoogleMapsSource(tt.url), "url=%q", tt.url)
	}
}

func TestIsAutoExtractable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attribute string
		want      bool
	}{
		{"name", true},
		{"business_name", true}, // contains the synonym "name"
		{"Phone_Number", true},
		{"website", true},
		{"site", false},
		{"rating", true},
		{"reviews_count", true},
		{"reviews", true}, // synonym "reviewscount" contains "reviews"
		{"category", true},
		{"opening_hours", true},
		{"description", true},
		{"addr", true}, // "address" contains "addr"
		{"unrelated_field", false},
		{"price", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsAutoExtractable(tt.attribute), "attribute=%q", tt.attribute)
	}
}

func TestApplies(t *testing.T) {
	t.Parallel()

	assert.True(t, Applies("https://www.google.com/maps/place/x", "business_name"))
	assert.False(t, Applies("https://example.com", "business_name"))
	assert.False(t, Applies("https://www.google.com/maps/place/x", "unrelated_field"))
}
