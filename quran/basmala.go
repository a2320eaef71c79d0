package quran

import "strings"

// Basmala is the invocation that opens every chapter but one.
const Basmala = "بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ"

// StripBasmala removes a leading Basmala from the text of verse 1 of every
// chapter except the first, where it is the verse itself. Other text is
// returned unchanged.
func StripBasmala(chapter, verse int, text string) string {
	if chapter == 1 || verse != 1 {
		return text
	}
	trimmed := strings.TrimLeft(text, " \t\n\r ")
	if rest, ok := strings.CutPrefix(trimmed, Basmala); ok {
		return strings.TrimLeft(rest, " \t\n\r ")
	}
	return text
}
