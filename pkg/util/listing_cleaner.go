package util

import (
	"regexp"
	"strings"

	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
)

// multiSpacePattern matches multiple consecutive whitespace characters
var multiSpacePattern = regexp.MustCompile(`\s+`)

// missingMarkers are cell values treated as "no value" in every listing source.
var missingMarkers = []string{"", "NA", "NaN", "null", "<nil>"}

// MissingMarkers returns the cell values that denote a missing value.
func MissingMarkers() []string {
	out := make([]string, len(missingMarkers))
	copy(out, missingMarkers)
	return out
}

// IsMissing reports whether a raw cell denotes a missing value.
func IsMissing(cell string) bool {
	cell = strings.TrimSpace(cell)
	for _, m := range missingMarkers {
		if cell == m {
			return true
		}
	}
	return false
}

// CleanListing normalizes the categorical fields of a listing.
func CleanListing(l model.Listing) model.Listing {
	l.Country = CleanField(l.Country)
	l.CountryCode = CleanCountryCode(l.CountryCode)
	l.RoomType = CleanField(l.RoomType)
	l.PropertyType = CleanField(l.PropertyType)
	l.HostName = CleanField(l.HostName)
	return l
}

// CleanCountryCode trims and upper-cases a country code.
func CleanCountryCode(code string) string {
	return strings.ToUpper(CleanField(code))
}

// CleanField collapses whitespace runs into a single space and trims the result.
func CleanField(s string) string {
	if s == "" {
		return ""
	}
	s = multiSpacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NeedsCleanup checks if a listing has categorical fields that CleanListing would change.
func NeedsCleanup(l model.Listing) bool {
	return CleanListing(l) != l
}
