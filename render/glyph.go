package render

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/danielledeleo/ayatembed/quran"
)

// MaxGlyphLength bounds a single glyph payload. Longer payloads are dropped.
const MaxGlyphLength = 2000

// DefaultEndMarker is shown for end-of-verse words that carry no text.
const DefaultEndMarker = "۝"

var charRef = regexp.MustCompile(`&(#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6}|[A-Za-z][A-Za-z0-9]{1,31});`)

// SanitizeGlyph prepares a ligature glyph payload for inline rendering.
// Payloads with angle brackets are escaped in full; anything else passes
// through so numeric character references reach the browser intact.
func SanitizeGlyph(raw string) string {
	if utf8.RuneCountInString(raw) > MaxGlyphLength {
		return ""
	}
	if strings.ContainsAny(raw, "<>") {
		return html.EscapeString(raw)
	}
	return raw
}

// SanitizeGlyphForMarkup is the stricter variant used for portable markup.
// On top of SanitizeGlyph it escapes payloads containing quotes or an
// ampersand that does not start a well-formed character reference.
func SanitizeGlyphForMarkup(raw string) string {
	s := SanitizeGlyph(raw)
	if s != raw {
		return s
	}
	if strings.ContainsAny(raw, `"'`) {
		return html.EscapeString(raw)
	}
	if strings.Contains(charRef.ReplaceAllString(raw, ""), "&") {
		return html.EscapeString(raw)
	}
	return raw
}

// EndMarker returns the escaped text of an end-of-verse word. It never
// goes through the glyph pass-through: ligature fonts draw numerals wrong.
func EndMarker(w quran.Word) string {
	text := w.Text
	if text == "" {
		text = DefaultEndMarker
	}
	return html.EscapeString(text)
}
