package repository

import "github.com/danielledeleo/ayatembed/quran"

// ChapterRepository defines the interface for chapter metadata persistence.
// Verse content is never persisted.
type ChapterRepository interface {
	// SelectChapters returns all stored chapters ordered by number.
	SelectChapters() ([]*quran.Chapter, error)

	// SelectChapter returns one chapter or quran.ErrChapterNotFound.
	SelectChapter(number int) (*quran.Chapter, error)

	// ReplaceChapters stores the full chapter list, replacing what was there.
	ReplaceChapters(chapters []*quran.Chapter) error
}
