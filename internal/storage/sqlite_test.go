package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielledeleo/ayatembed/quran"
	"github.com/danielledeleo/ayatembed/quran/repository"
)

var _ repository.ChapterRepository = (*sqliteDb)(nil)

// setupTestDB creates a migrated in-memory database.
func setupTestDB(t *testing.T) *sqliteDb {
	t.Helper()

	conn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	db, err := Init(conn)
	if err != nil {
		t.Fatalf("failed to initialize prepared statements: %v", err)
	}
	return db
}

func testChapters() []*quran.Chapter {
	return []*quran.Chapter{
		{Number: 1, NameNative: "الفاتحة", NameLatin: "Al-Fatihah", NameTranslated: "The Opener", VerseCount: 7, RevelationPlace: quran.Meccan},
		{Number: 2, NameNative: "البقرة", NameLatin: "Al-Baqarah", NameTranslated: "The Cow", VerseCount: 286, RevelationPlace: quran.Medinan},
	}
}

func TestReplaceAndSelectChapters(t *testing.T) {
	db := setupTestDB(t)

	if err := db.ReplaceChapters(testChapters()); err != nil {
		t.Fatalf("ReplaceChapters failed: %v", err)
	}

	chapters, err := db.SelectChapters()
	if err != nil {
		t.Fatalf("SelectChapters failed: %v", err)
	}
	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(chapters))
	}
	if *chapters[1] != *testChapters()[1] {
		t.Errorf("round trip mismatch: %+v", chapters[1])
	}

	ch, err := db.SelectChapter(1)
	if err != nil {
		t.Fatalf("SelectChapter failed: %v", err)
	}
	if ch.NameLatin != "Al-Fatihah" || ch.RevelationPlace != quran.Meccan {
		t.Errorf("unexpected chapter: %+v", ch)
	}
}

func TestSelectChapter_NotFound(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.SelectChapter(3); !errors.Is(err, quran.ErrChapterNotFound) {
		t.Errorf("expected ErrChapterNotFound, got %v", err)
	}
}

func TestReplaceChapters_Replaces(t *testing.T) {
	db := setupTestDB(t)
	db.ReplaceChapters(testChapters())
	db.ReplaceChapters(testChapters()[:1])

	chapters, err := db.SelectChapters()
	if err != nil {
		t.Fatalf("SelectChapters failed: %v", err)
	}
	if len(chapters) != 1 {
		t.Errorf("expected old rows to be replaced, got %d chapters", len(chapters))
	}
}

func TestReplaceChapters_RollsBackOnViolation(t *testing.T) {
	db := setupTestDB(t)
	db.ReplaceChapters(testChapters())

	bad := testChapters()
	bad[1].VerseCount = 0
	if err := db.ReplaceChapters(bad); err == nil {
		t.Fatal("expected constraint error")
	}

	chapters, _ := db.SelectChapters()
	if len(chapters) != 2 {
		t.Errorf("expected previous rows to survive a failed replace, got %d", len(chapters))
	}
}

func TestChaptersRefreshed(t *testing.T) {
	db := setupTestDB(t)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	db.now = func() time.Time { return fixed }

	if got, err := db.ChaptersRefreshed(); err != nil || !got.IsZero() {
		t.Errorf("expected zero time before any refresh, got %v, %v", got, err)
	}

	db.ReplaceChapters(testChapters())
	got, err := db.ChaptersRefreshed()
	if err != nil {
		t.Fatalf("ChaptersRefreshed failed: %v", err)
	}
	if !got.Equal(fixed) {
		t.Errorf("expected %v, got %v", fixed, got)
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ayatembed.db")

	conn, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	db, err := Init(conn)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	db.ReplaceChapters(testChapters())
	conn.Close()

	// Reopening keeps the data and does not re-run migrations.
	conn, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer conn.Close()
	db, _ = Init(conn)
	chapters, err := db.SelectChapters()
	if err != nil || len(chapters) != 2 {
		t.Errorf("expected stored chapters after reopen, got %d, %v", len(chapters), err)
	}
}
