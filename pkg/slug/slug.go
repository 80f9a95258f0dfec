package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from a product or category name.
// Accented letters are folded to their ASCII base letter.
//
// Examples:
//   - "Crème Brûlée Mug" → "creme-brulee-mug"
//   - "  Men's T-Shirt (XL) " → "men-s-t-shirt-xl"
func Generate(name string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		name,
	)
	if err != nil {
		folded = name
	}

	s := strings.ToLower(strings.TrimSpace(folded))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// WithSuffix appends a short disambiguating suffix to a slug, used when the
// plain slug is already taken.
func WithSuffix(slug, suffix string) string {
	suffix = Generate(suffix)
	if suffix == "" {
		return slug
	}
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}
