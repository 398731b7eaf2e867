package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Free-text fields (names, addresses, item descriptions, waste labels) are
// echoed back to every client that views a leaderboard or pickup, so markup is
// stripped entirely rather than escaped.
var sanitizer = bluemonday.StrictPolicy()

// SanitizeText strips all HTML from user-provided plain text.
func SanitizeText(input string) string {
	return strings.TrimSpace(sanitizer.Sanitize(input))
}
