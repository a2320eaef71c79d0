package content

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/danielledeleo/ayatembed/quran"
	"github.com/microcosm-cc/bluemonday"
)

// TextLimit bounds any text field taken from the upstream. Real verses and
// translations are far shorter; longer payloads are rejected, not cut.
const TextLimit = 5000

// MaxNameLength bounds chapter name fields.
const MaxNameLength = 200

var stripTags = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	// footnote markers
	p.SkipElementsContent("sup")
	return p
}()

// plainText removes markup and returns the decoded text. Callers escape it
// again on output.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripTags.Sanitize(s)))
}

func checkLength(field, s string) error {
	if n := utf8.RuneCountInString(s); n > TextLimit {
		return &quran.ValidationRejectError{Field: field, Length: n, Limit: TextLimit}
	}
	return nil
}

func revelationPlace(s string) (quran.RevelationPlace, bool) {
	switch strings.ToLower(s) {
	case "makkah", "meccan":
		return quran.Meccan, true
	case "madinah", "medinan":
		return quran.Medinan, true
	}
	return "", false
}

func validName(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 1 && n <= MaxNameLength
}

func mapChapter(p chapterPayload) (*quran.Chapter, error) {
	if p.ID < 1 || p.ID > quran.ChapterCount {
		return nil, fmt.Errorf("%w: chapter id %d", quran.ErrMalformedPayload, p.ID)
	}
	if p.VersesCount < 1 || p.VersesCount > quran.MaxChapterVerses {
		return nil, fmt.Errorf("%w: chapter %d has %d verses", quran.ErrMalformedPayload, p.ID, p.VersesCount)
	}
	place, ok := revelationPlace(p.RevelationPlace)
	if !ok {
		return nil, fmt.Errorf("%w: chapter %d revelation place %q", quran.ErrMalformedPayload, p.ID, p.RevelationPlace)
	}
	for _, name := range []string{p.NameSimple, p.NameArabic, p.TranslatedName.Name} {
		if !validName(name) {
			return nil, fmt.Errorf("%w: chapter %d name length", quran.ErrMalformedPayload, p.ID)
		}
	}

	return &quran.Chapter{
		Number:          p.ID,
		NameNative:      p.NameArabic,
		NameLatin:       p.NameSimple,
		NameTranslated:  p.TranslatedName.Name,
		VerseCount:      p.VersesCount,
		RevelationPlace: place,
	}, nil
}

// mapWords keeps reading order. A word's page falls back to the verse's
// page, then to 1. Words with neither glyph code nor text are dropped.
func mapWords(words []wordBody, versePage int) []quran.Word {
	out := make([]quran.Word, 0, len(words))
	for _, w := range words {
		if w.CodeV2 == "" && w.TextQPCHafs == "" {
			continue
		}
		page := w.PageNumber
		if page < 1 {
			page = versePage
		}
		if page < 1 {
			page = 1
		}
		out = append(out, quran.Word{
			ID:       w.ID,
			Position: w.Position,
			Page:     page,
			Code:     w.CodeV2,
			Text:     w.TextQPCHafs,
			Kind:     quran.WordKind(w.CharTypeName),
		})
	}
	return out
}

// wordTranslation joins word-by-word glosses when no verse translation
// exists. It is a best-effort reading aid, not a translation.
func wordTranslation(words []wordBody) string {
	var parts []string
	for _, w := range words {
		if quran.WordKind(w.CharTypeName) == quran.WordKindEnd || w.Translation == nil {
			continue
		}
		if t := strings.TrimSpace(w.Translation.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func mapVerse(key quran.VerseKey, v *verseBody, translationID int) (*quran.Verse, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: no verse object", quran.ErrMalformedPayload)
	}
	if v.VerseKey != "" && v.VerseKey != key.String() {
		return nil, fmt.Errorf("%w: asked for %s, got %s", quran.ErrMalformedPayload, key, v.VerseKey)
	}
	if v.TextUthmani == "" && len(v.Words) == 0 {
		return nil, fmt.Errorf("%w: verse %s has no text", quran.ErrMalformedPayload, key)
	}
	if err := checkLength("verse text", v.TextUthmani); err != nil {
		return nil, err
	}

	text, ok := v.Translations.pick(translationID)
	if !ok {
		text = wordTranslation(v.Words)
	}
	if err := checkLength("translation", text); err != nil {
		return nil, err
	}

	number := v.VerseNumber
	if number < 1 {
		number = key.Verse
	}

	return &quran.Verse{
		Number:      number,
		Text:        quran.StripBasmala(key.Chapter, number, v.TextUthmani),
		CodeText:    quran.StripBasmala(key.Chapter, number, v.CodeV2),
		Translation: plainText(text),
		Page:        v.PageNumber,
		Words:       mapWords(v.Words, v.PageNumber),
	}, nil
}
