package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly handle from the given name.
//
// Examples:
//   - "All Products" → "all-products"
//   - "Mugs & Cups"  → "mugs-cups"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	// Replace runs of non-alphanumeric characters with a single hyphen.
	s = slugRegexp.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}
