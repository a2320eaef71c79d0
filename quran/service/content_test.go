package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/danielledeleo/ayatembed/internal/content"
	"github.com/danielledeleo/ayatembed/internal/fetchqueue"
	"github.com/danielledeleo/ayatembed/quran"
	"github.com/danielledeleo/ayatembed/quran/service"
	"github.com/danielledeleo/ayatembed/testutil"
)

// memRepo is an in-memory ChapterRepository.
type memRepo struct {
	mu       sync.Mutex
	chapters []*quran.Chapter
	writes   int
}

func (r *memRepo) SelectChapters() ([]*quran.Chapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*quran.Chapter(nil), r.chapters...), nil
}

func (r *memRepo) SelectChapter(number int) (*quran.Chapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.chapters {
		if ch.Number == number {
			return ch, nil
		}
	}
	return nil, quran.ErrChapterNotFound
}

func (r *memRepo) ReplaceChapters(chapters []*quran.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chapters = append([]*quran.Chapter(nil), chapters...)
	r.writes++
	return nil
}

func newService(t *testing.T, repo *memRepo) (service.ContentService, *testutil.FakeUpstream) {
	t.Helper()
	up := testutil.NewFakeUpstream(t)
	client := content.NewClient(content.Config{APIBaseURL: up.APIBaseURL(), TokenURL: up.TokenURL()})

	var svc service.ContentService
	if repo != nil {
		svc = service.NewContentService(client, repo, service.Options{})
	} else {
		svc = service.NewContentService(client, nil, service.Options{})
	}
	t.Cleanup(func() { svc.Close(context.Background()) })
	return svc, up
}

func TestPassage_ClampsToThirtyVerses(t *testing.T) {
	svc, up := newService(t, nil)

	p, err := svc.Passage(context.Background(), quran.Selection{Chapter: 2, From: 1, To: 100}, fetchqueue.TierInteractive)
	if err != nil {
		t.Fatalf("Passage failed: %v", err)
	}

	if p.Selection.To != 30 {
		t.Errorf("expected selection clamped to 2:1-30, got %s", p.Selection)
	}
	if len(p.Verses) != quran.MaxVerses {
		t.Fatalf("expected %d verses, got %d", quran.MaxVerses, len(p.Verses))
	}
	for i, v := range p.Verses {
		if v.Number != i+1 {
			t.Errorf("position %d holds verse %d", i, v.Number)
		}
	}

	requested := up.VerseRequests()
	if len(requested) != quran.MaxVerses {
		t.Errorf("expected %d upstream requests, got %d", quran.MaxVerses, len(requested))
	}
	for _, k := range requested {
		key, _ := quran.ParseVerseKey(k)
		if key.Verse > 30 {
			t.Errorf("verse %s must never be requested", k)
		}
	}
}

func TestPassage_RangeBeyondChapter(t *testing.T) {
	svc, up := newService(t, nil)

	// Al-Fatiha has 7 verses.
	_, err := svc.Passage(context.Background(), quran.Selection{Chapter: 1, From: 1, To: 8}, fetchqueue.TierInteractive)

	var invalid *quran.InvalidSelectionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSelectionError, got %v", err)
	}
	if !errors.Is(err, quran.ErrVerseOutOfRange) {
		t.Errorf("expected ErrVerseOutOfRange, got %v", err)
	}
	if n := len(up.VerseRequests()); n != 0 {
		t.Errorf("expected no verse requests, got %d", n)
	}
}

func TestPassage_StructuralErrors(t *testing.T) {
	svc, up := newService(t, nil)

	tests := []struct {
		name string
		sel  quran.Selection
		want error
	}{
		{"chapter zero", quran.Selection{Chapter: 0, From: 1, To: 1}, quran.ErrChapterOutOfRange},
		{"chapter 115", quran.Selection{Chapter: 115, From: 1, To: 1}, quran.ErrChapterOutOfRange},
		{"reversed", quran.Selection{Chapter: 2, From: 5, To: 3}, quran.ErrBadVerseRange},
		{"verse zero", quran.Selection{Chapter: 2, From: 0, To: 3}, quran.ErrBadVerseRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Passage(context.Background(), tt.sel, fetchqueue.TierInteractive)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if n := len(up.Requests()); n != 0 {
		t.Errorf("structural errors must not reach upstream, got %d requests", n)
	}
}

func TestPassage_AllOrNothing(t *testing.T) {
	svc, up := newService(t, nil)
	up.FailVerse("2:4", http.StatusServiceUnavailable)

	p, err := svc.Passage(context.Background(), quran.Selection{Chapter: 2, From: 1, To: 7}, fetchqueue.TierInteractive)
	if p != nil {
		t.Errorf("expected no partial passage, got %d verses", len(p.Verses))
	}

	var upErr *quran.UpstreamFetchError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamFetchError, got %v", err)
	}
}

func TestPassage_UsesVerseCache(t *testing.T) {
	svc, up := newService(t, nil)
	ctx := context.Background()

	if _, err := svc.Passage(ctx, quran.Selection{Chapter: 2, From: 1, To: 5}, fetchqueue.TierInteractive); err != nil {
		t.Fatalf("Passage failed: %v", err)
	}
	p, err := svc.Passage(ctx, quran.Selection{Chapter: 2, From: 3, To: 8}, fetchqueue.TierBackground)
	if err != nil {
		t.Fatalf("Passage failed: %v", err)
	}
	if p.Verses[0].Number != 3 || p.Verses[5].Number != 8 {
		t.Errorf("unexpected verse order: first %d last %d", p.Verses[0].Number, p.Verses[5].Number)
	}

	requested := up.VerseRequests()
	sort.Strings(requested)
	want := []string{"2:1", "2:2", "2:3", "2:4", "2:5", "2:6", "2:7", "2:8"}
	if fmt.Sprint(requested) != fmt.Sprint(want) {
		t.Errorf("expected each verse fetched once, got %v", requested)
	}
}

func TestChapter(t *testing.T) {
	svc, up := newService(t, nil)
	ctx := context.Background()

	ch, err := svc.Chapter(ctx, 112)
	if err != nil {
		t.Fatalf("Chapter failed: %v", err)
	}
	if ch.NameLatin != "Al-Ikhlas" || ch.VerseCount != 4 {
		t.Errorf("unexpected chapter: %+v", ch)
	}

	if _, err := svc.Chapter(ctx, 115); !errors.Is(err, quran.ErrChapterNotFound) {
		t.Errorf("expected ErrChapterNotFound, got %v", err)
	}

	svc.Chapter(ctx, 1)
	chapterHits := 0
	for _, p := range up.Requests() {
		if p == "/api/v4/chapters" {
			chapterHits++
		}
	}
	if chapterHits != 1 {
		t.Errorf("expected chapter list fetched once, got %d", chapterHits)
	}
}

func TestChapters_StoredCopy(t *testing.T) {
	repo := &memRepo{}
	svc, _ := newService(t, repo)

	chapters, err := svc.Chapters(context.Background())
	if err != nil {
		t.Fatalf("Chapters failed: %v", err)
	}
	if len(chapters) != quran.ChapterCount {
		t.Fatalf("expected %d chapters, got %d", quran.ChapterCount, len(chapters))
	}
	if repo.writes != 1 || len(repo.chapters) != quran.ChapterCount {
		t.Errorf("expected chapters to be stored once, got %d writes", repo.writes)
	}

	// A second service whose upstream is broken falls back to storage.
	broken, up := newService(t, repo)
	up.SetChaptersBody(`{"chapters": "nope"}`)
	chapters, err = broken.Chapters(context.Background())
	if err != nil {
		t.Fatalf("expected stored chapters, got %v", err)
	}
	if len(chapters) != quran.ChapterCount {
		t.Errorf("expected %d stored chapters, got %d", quran.ChapterCount, len(chapters))
	}
}

func TestChapters_UpstreamFailureWithoutStorage(t *testing.T) {
	svc, up := newService(t, nil)
	up.SetChaptersBody(`{"chapters": "nope"}`)

	_, err := svc.Chapters(context.Background())
	var upErr *quran.UpstreamFetchError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamFetchError, got %v", err)
	}
}
