package render

import (
	"fmt"
	"strconv"
	"strings"
)

var arabicIndicDigits = strings.NewReplacer(
	"0", "٠", "1", "١", "2", "٢", "3", "٣", "4", "٤",
	"5", "٥", "6", "٦", "7", "٧", "8", "٨", "9", "٩",
)

// LocalizeDigits renders n with Arabic-Indic digits.
func LocalizeDigits(n int) string {
	return arabicIndicDigits.Replace(strconv.Itoa(n))
}

// FormatReference builds the citation shown under a card, e.g.
// "Al-Fatiha (1:1)" or "البقرة (١-٣)". The same text is used by the live
// page, the iframe embed and the static export.
func FormatReference(nameLatin, nameNative string, chapter, from, to int, native bool) string {
	single := from == to

	if native {
		if single {
			return fmt.Sprintf("%s (%s)", nameNative, LocalizeDigits(from))
		}
		return fmt.Sprintf("%s (%s-%s)", nameNative, LocalizeDigits(from), LocalizeDigits(to))
	}

	if single {
		return fmt.Sprintf("%s (%d:%d)", nameLatin, chapter, from)
	}
	return fmt.Sprintf("%s (%d:%d-%d)", nameLatin, chapter, from, to)
}
