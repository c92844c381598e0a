package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// emptySlug is returned when a title has no usable characters.
const emptySlug = "item"

// Slug converts a title into a lowercase URL-safe identifier.
//
// Accented letters are folded to their base letter. Whitespace and hyphens
// separate words, which are joined with a single "-". Any other punctuation
// is dropped without splitting the word, so "Cat's Capture" becomes
// "cats-capture".
func Slug(title string) string {
	folded, _, err := transform.String(foldAccents(), title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			pending = true
		}
	}

	if b.Len() == 0 {
		return emptySlug
	}
	return b.String()
}

// foldAccents returns a transformer that strips combining marks.
// A transform.Transformer is stateful, so each call builds a fresh chain.
func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// NormalizeSessionID turns a session link or path into a bare slug.
// "/missions/a-rank/" and "missions/a-rank" both become "a-rank".
func NormalizeSessionID(s string) string {
	s = strings.TrimPrefix(s, "/")
	s = strings.TrimPrefix(s, "missions/")
	return strings.TrimSuffix(s, "/")
}

// MissionIDFromLink strips the "/mission/" prefix from a card link.
// It returns "" when link is empty.
func MissionIDFromLink(link string) string {
	link = strings.TrimPrefix(link, "/")
	return strings.TrimPrefix(link, "mission/")
}
