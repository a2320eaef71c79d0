package quran

import (
	"fmt"
	"strconv"
)

// MaxVerses is the largest number of verses fetched for one selection.
const MaxVerses = 30

// Selection identifies a chapter and an inclusive verse range.
type Selection struct {
	Chapter int
	From    int
	To      int
}

// Validate checks the structural invariants: chapter in [1,114] and
// 1 <= From <= To. It does not know chapter lengths; see CheckChapter.
func (s Selection) Validate() error {
	if s.Chapter < 1 || s.Chapter > ChapterCount {
		return s.invalid(ErrChapterOutOfRange)
	}
	if s.From < 1 || s.To < s.From {
		return s.invalid(ErrBadVerseRange)
	}
	return nil
}

// CheckChapter reports an InvalidSelectionError when the range ends past
// the chapter's last verse. This is a user-facing error, never a clamp.
func (s Selection) CheckChapter(ch *Chapter) error {
	if s.From > ch.VerseCount || s.To > ch.VerseCount {
		return s.invalid(fmt.Errorf("%w: verse %d, %s has %d",
			ErrVerseOutOfRange, max(s.From, s.To), ch.NameLatin, ch.VerseCount))
	}
	return nil
}

// Clamp silently lowers To so the selection spans at most MaxVerses.
func (s Selection) Clamp() Selection {
	if limit := s.From + MaxVerses - 1; s.To > limit {
		s.To = limit
	}
	return s
}

// Count returns the number of verses in the range.
func (s Selection) Count() int {
	if s.To < s.From {
		return 0
	}
	return s.To - s.From + 1
}

// IsSingle reports whether the selection covers one verse.
func (s Selection) IsSingle() bool {
	return s.From == s.To
}

// Keys returns the verse keys of the range in reading order.
func (s Selection) Keys() []VerseKey {
	keys := make([]VerseKey, 0, s.Count())
	for v := s.From; v <= s.To; v++ {
		keys = append(keys, VerseKey{Chapter: s.Chapter, Verse: v})
	}
	return keys
}

// VerseRange formats the range as it appears in embed paths: "3" or "3-7".
func (s Selection) VerseRange() string {
	if s.IsSingle() {
		return strconv.Itoa(s.From)
	}
	return fmt.Sprintf("%d-%d", s.From, s.To)
}

func (s Selection) String() string {
	return fmt.Sprintf("%d:%s", s.Chapter, s.VerseRange())
}

func (s Selection) invalid(err error) *InvalidSelectionError {
	return &InvalidSelectionError{
		Chapter: strconv.Itoa(s.Chapter),
		Verses:  s.VerseRange(),
		Err:     err,
	}
}
