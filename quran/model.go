package quran

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// ChapterCount is the number of chapters in the corpus.
	ChapterCount = 114
	// MaxChapterVerses is the verse count of the longest chapter.
	MaxChapterVerses = 286
	// PageCount is the number of pages in the reference print layout.
	PageCount = 604
)

// RevelationPlace is one of exactly two enumerated values.
type RevelationPlace string

const (
	Meccan  RevelationPlace = "Meccan"
	Medinan RevelationPlace = "Medinan"
)

// Chapter holds the metadata of one chapter (surah).
type Chapter struct {
	Number          int             `db:"number" json:"number"`
	NameNative      string          `db:"name_native" json:"name"`
	NameLatin       string          `db:"name_latin" json:"englishName"`
	NameTranslated  string          `db:"name_translated" json:"englishNameTranslation"`
	VerseCount      int             `db:"verse_count" json:"numberOfAyahs"`
	RevelationPlace RevelationPlace `db:"revelation_place" json:"revelationType"`
}

// WordKind classifies a Word.
type WordKind string

const (
	WordKindWord WordKind = "word"
	WordKindEnd  WordKind = "end"
)

// Word is one glyph-rendering unit within a verse. At least one of Code or
// Text is set; words with neither are dropped when mapping upstream payloads.
type Word struct {
	ID       int
	Position int
	Page     int
	Code     string   // ligature glyph code, usually numeric character references
	Text     string   // plain Unicode fallback
	Kind     WordKind // empty when upstream sent no category
}

// IsEnd reports whether the word is an end-of-verse marker.
func (w Word) IsEnd() bool {
	return w.Kind == WordKindEnd
}

// Verse is one verse's renderable content. Words are in reading order.
type Verse struct {
	Number      int
	Text        string // plain Unicode text, always present
	CodeText    string // ligature-encoded text, optional
	Translation string // plain text; escaped on output
	Page        int    // 0 when unknown
	Words       []Word
}

// Pages returns the distinct page numbers whose ligature fonts the verse
// needs, in first-seen order.
func (v *Verse) Pages() []int {
	var pages []int
	seen := map[int]bool{}
	add := func(p int) {
		if p < 1 || p > PageCount || seen[p] {
			return
		}
		seen[p] = true
		pages = append(pages, p)
	}

	if len(v.Words) > 0 {
		for _, w := range v.Words {
			add(w.Page)
		}
		return pages
	}
	if v.CodeText != "" {
		add(v.Page)
	}
	return pages
}

// VerseKey identifies a verse as "chapter:verse".
type VerseKey struct {
	Chapter int
	Verse   int
}

func (k VerseKey) String() string {
	return fmt.Sprintf("%d:%d", k.Chapter, k.Verse)
}

// ParseVerseKey parses "chapter:verse".
func ParseVerseKey(s string) (VerseKey, error) {
	c, v, ok := strings.Cut(s, ":")
	if !ok {
		return VerseKey{}, fmt.Errorf("malformed verse key %q", s)
	}
	chapter, err := strconv.Atoi(c)
	if err != nil {
		return VerseKey{}, fmt.Errorf("malformed verse key %q: %w", s, err)
	}
	verse, err := strconv.Atoi(v)
	if err != nil {
		return VerseKey{}, fmt.Errorf("malformed verse key %q: %w", s, err)
	}
	return VerseKey{Chapter: chapter, Verse: verse}, nil
}
