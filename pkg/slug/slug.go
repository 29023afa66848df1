// Package slug derives URL slugs for categories and genres.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLen matches the slug column width.
const MaxLen = 50

var (
	nonSlug     = regexp.MustCompile(`[^a-z0-9_-]+`)
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// From converts s into an ASCII slug: accents are stripped, letters are
// lowercased and every other run of characters becomes one hyphen. The
// result is cut to MaxLen. It may be empty when s has no usable characters.
func From(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	result = strings.ToLower(result)
	result = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, result)
	result = nonSlug.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLen {
		result = strings.TrimRight(result[:MaxLen], "-")
	}
	return result
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
