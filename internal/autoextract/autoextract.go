// Package autoextract implements the Google Maps auto-extraction
// heuristic. For recognized map-listing sources, well-known place fields
// need no explicit selector: the external extractor resolves them by
// semantics alone.
package autoextract

import "strings"

// placeFieldSynonyms are the well-known place-field keys, already
// normalized (lower-cased, underscores removed).
var placeFieldSynonyms = []string{
	"name",
	"address",
	"phone",
	"website",
	"rating",
	"reviewscount",
	"category",
	"hours",
	"description",
}

// IsGoogleMapsSource reports whether the URL points at Google Maps,
// matching case-insensitively against the known host/path shapes.
func IsGoogleMapsSource(url string) bool {
	u := strings.ToLower(url)
	return strings.Contains(u, "google.com/maps") || strings.Contains(u, "maps.google.com")
}

// normalizeAttribute lower-cases an attribute name and strips underscores
// so loosely spelled aliases compare equal.
func normalizeAttribute(attribute string) string {
	return strings.ReplaceAll(strings.ToLower(attribute), "_", "")
}

// IsAutoExtractable reports whether an attribute matches one of the
// well-known place-field keys. Matching is bidirectional substring
// containment over normalized names, so "business_name" matches "name"
// and "phone" matches "phonenumber". Only meaningful for Google Maps
// sources; callers gate on IsGoogleMapsSource.
func IsAutoExtractable(attribute string) bool {
	normalized := normalizeAttribute(attribute)
	if normalized == "" {
		return false
	}
	for _, synonym := range placeFieldSynonyms {
		if strings.Contains(normalized, synonym) || strings.Contains(synonym, normalized) {
			return true
		}
	}
	return false
}

// Applies reports whether auto-extraction covers the given attribute for
// the given source URL, making an empty selector valid at save and
// preview time.
func Applies(url, attribute string) bool {
	return IsGoogleMapsSource(url) && IsAutoExtractable(attribute)
}
