package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Free-text fields (notes, meal descriptions) are plain text; strip any markup
// instead of trying to allow a safe subset.
var sanitizer = bluemonday.StrictPolicy()

// CleanText removes HTML from user supplied text and trims surrounding space.
func CleanText(input string) string {
	return strings.TrimSpace(sanitizer.Sanitize(input))
}
