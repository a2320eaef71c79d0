package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielledeleo/ayatembed/internal/cache"
	"github.com/danielledeleo/ayatembed/internal/fetchqueue"
	"github.com/danielledeleo/ayatembed/quran"
	"github.com/danielledeleo/ayatembed/quran/repository"
)

// Source is the upstream content provider.
type Source interface {
	Chapters(ctx context.Context) ([]*quran.Chapter, error)
	Verse(ctx context.Context, key quran.VerseKey) (*quran.Verse, error)
}

// Passage is a resolved selection: the chapter, the selection after
// clamping, and its verses in reading order.
type Passage struct {
	Chapter   *quran.Chapter
	Selection quran.Selection
	Verses    []*quran.Verse
}

// ContentService defines the interface for reading chapters and verses.
type ContentService interface {
	// Chapters returns all chapters ordered by number.
	Chapters(ctx context.Context) ([]*quran.Chapter, error)

	// Chapter returns one chapter's metadata.
	Chapter(ctx context.Context, number int) (*quran.Chapter, error)

	// Passage validates sel, clamps it to quran.MaxVerses and fetches its
	// verses. Either every verse is returned or none are.
	Passage(ctx context.Context, sel quran.Selection, tier fetchqueue.Tier) (*Passage, error)

	// Close stops the fetch workers.
	Close(ctx context.Context) error
}

// Options tunes the service. Zero values take defaults.
type Options struct {
	Workers      int
	VerseTTL     time.Duration
	VerseEntries int
	ChapterTTL   time.Duration
}

const chaptersKey = "chapters"

type contentService struct {
	source   Source
	repo     repository.ChapterRepository
	queue    *fetchqueue.Queue
	verses   *cache.Cache[*quran.Verse]
	chapters *cache.Cache[[]*quran.Chapter]
}

// NewContentService creates a ContentService. repo may be nil, in which
// case chapters are only ever served from upstream and memory.
func NewContentService(source Source, repo repository.ChapterRepository, opts Options) ContentService {
	if opts.Workers <= 0 {
		opts.Workers = fetchqueue.DefaultWorkers
	}
	if opts.VerseTTL <= 0 {
		opts.VerseTTL = cache.DefaultVerseTTL
	}
	if opts.VerseEntries <= 0 {
		opts.VerseEntries = cache.DefaultVerseEntries
	}
	if opts.ChapterTTL <= 0 {
		opts.ChapterTTL = cache.DefaultChapterTTL
	}

	return &contentService{
		source:   source,
		repo:     repo,
		queue:    fetchqueue.New(opts.Workers, source.Verse),
		verses:   cache.New[*quran.Verse]("verses", opts.VerseTTL, opts.VerseEntries),
		chapters: cache.New[[]*quran.Chapter]("chapters", opts.ChapterTTL, 1),
	}
}

func (s *contentService) Chapters(ctx context.Context) ([]*quran.Chapter, error) {
	return s.chapters.GetOrLoad(ctx, chaptersKey, s.loadChapters)
}

// loadChapters prefers upstream and refreshes the stored copy. When
// upstream fails a complete stored copy is served instead.
func (s *contentService) loadChapters(ctx context.Context) ([]*quran.Chapter, error) {
	chapters, err := s.source.Chapters(ctx)
	if err == nil {
		if s.repo != nil {
			if err := s.repo.ReplaceChapters(chapters); err != nil {
				slog.Warn("failed to store chapters", "error", err)
			}
		}
		return chapters, nil
	}

	if s.repo != nil {
		stored, repoErr := s.repo.SelectChapters()
		if repoErr == nil && len(stored) == quran.ChapterCount {
			slog.Warn("serving stored chapters", "error", err)
			return stored, nil
		}
	}
	return nil, err
}

func (s *contentService) Chapter(ctx context.Context, number int) (*quran.Chapter, error) {
	if number < 1 || number > quran.ChapterCount {
		return nil, quran.ErrChapterNotFound
	}
	chapters, err := s.Chapters(ctx)
	if err != nil {
		return nil, err
	}
	for _, ch := range chapters {
		if ch.Number == number {
			return ch, nil
		}
	}
	return nil, quran.ErrChapterNotFound
}

func (s *contentService) Passage(ctx context.Context, sel quran.Selection, tier fetchqueue.Tier) (*Passage, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	ch, err := s.Chapter(ctx, sel.Chapter)
	if err != nil {
		return nil, err
	}
	if err := sel.CheckChapter(ch); err != nil {
		return nil, err
	}
	sel = sel.Clamp()

	keys := sel.Keys()
	verses := make([]*quran.Verse, len(keys))
	var missing []quran.VerseKey
	var missingAt []int
	for i, k := range keys {
		if v, ok := s.verses.Get(k.String()); ok {
			verses[i] = v
			continue
		}
		missing = append(missing, k)
		missingAt = append(missingAt, i)
	}

	if len(missing) > 0 {
		fetched, err := s.queue.FetchAll(ctx, tier, missing)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, asUpstreamError(sel, err)
		}
		for j, v := range fetched {
			s.verses.Set(missing[j].String(), v)
			verses[missingAt[j]] = v
		}
	}

	return &Passage{Chapter: ch, Selection: sel, Verses: verses}, nil
}

// asUpstreamError reports a failed range fetch as one UpstreamFetchError.
// A single failure that already is one is returned as is.
func asUpstreamError(sel quran.Selection, err error) error {
	if _, ok := err.(*quran.UpstreamFetchError); ok {
		return err
	}
	return &quran.UpstreamFetchError{Resource: "verses " + sel.String(), Err: err}
}

func (s *contentService) Close(ctx context.Context) error {
	return s.queue.Shutdown(ctx)
}
