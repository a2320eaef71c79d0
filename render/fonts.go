package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/danielledeleo/ayatembed/quran"
)

const (
	// PageFontBaseURL serves one woff2 ligature font per print page.
	PageFontBaseURL = "https://verses.quran.foundation/fonts/quran/hafs/v2/woff2"
	// FallbackFontURL serves the Unicode font used for plain text and numerals.
	FallbackFontURL    = "https://verses.quran.foundation/fonts/quran/hafs/uthmanic_hafs/UthmanicHafs1Ver18.woff2"
	FallbackFontFamily = "UthmanicHafs"
	// UIFontImport loads the Latin UI font used for translations and badges.
	UIFontImport = "https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600&display=swap"
)

// PageFontFamily names the ligature font of a print page.
func PageFontFamily(page int) string {
	return fmt.Sprintf("QPC Mushaf Page %d", page)
}

// PageFontURL returns the font file of a print page.
func PageFontURL(page int) string {
	return fmt.Sprintf("%s/p%d.woff2", PageFontBaseURL, page)
}

func fontFace(family, url string) string {
	return fmt.Sprintf("@font-face {\n  font-family: \"%s\";\n  src: url(\"%s\") format(\"woff2\");\n  font-display: swap;\n}\n", family, url)
}

// FallbackFontFace declares the fixed-name Unicode fallback font.
func FallbackFontFace() string {
	return fontFace(FallbackFontFamily, FallbackFontURL)
}

// PageFontFaces declares one font face per distinct valid page, ascending.
func PageFontFaces(pages []int) string {
	var valid []int
	for _, p := range pages {
		if p >= 1 && p <= quran.PageCount {
			valid = append(valid, p)
		}
	}
	slices.Sort(valid)
	valid = slices.Compact(valid)

	var b strings.Builder
	for _, p := range valid {
		b.WriteString(fontFace(PageFontFamily(p), PageFontURL(p)))
	}
	return b.String()
}

// VersePages collects the pages of every verse.
func VersePages(verses []*quran.Verse) []int {
	var pages []int
	for _, v := range verses {
		pages = append(pages, v.Pages()...)
	}
	return pages
}
