package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// accents folds common Latin-1 letters found in product names to ASCII.
var accents = strings.NewReplacer(
	"à", "a", "á", "a", "â", "a", "ä", "a", "ã", "a",
	"ç", "c",
	"è", "e", "é", "e", "ê", "e", "ë", "e",
	"ì", "i", "í", "i", "î", "i", "ï", "i",
	"ñ", "n",
	"ò", "o", "ó", "o", "ô", "o", "ö", "o",
	"ù", "u", "ú", "u", "û", "u", "ü", "u",
	"&", " and ",
)

// Generate creates a URL-friendly identifier from a product name.
//
// Examples:
//   - "Premium Cotton T-Shirt" → "premium-cotton-t-shirt"
//   - "Café Crème Sweater" → "cafe-creme-sweater"
//   - "Shirts & Tops" → "shirts-and-tops"
func Generate(name string) string {
	s := accents.Replace(strings.ToLower(strings.TrimSpace(name)))
	s = slugRegexp.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
