package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/danielledeleo/ayatembed/quran"
)

// Chapter repository methods for sqliteDb

func (db *sqliteDb) SelectChapters() ([]*quran.Chapter, error) {
	chapters := []*quran.Chapter{}
	if err := db.SelectChaptersStmt.Select(&chapters); err != nil {
		return nil, err
	}
	return chapters, nil
}

func (db *sqliteDb) SelectChapter(number int) (*quran.Chapter, error) {
	ch := &quran.Chapter{}
	err := db.SelectChapterStmt.Get(ch, number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, quran.ErrChapterNotFound
	} else if err != nil {
		return nil, err
	}
	return ch, nil
}

func (db *sqliteDb) ReplaceChapters(chapters []*quran.Chapter) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM Chapter`); err != nil {
		return err
	}
	for _, ch := range chapters {
		_, err := tx.NamedExec(`INSERT INTO Chapter (`+chapterColumns+`)
			VALUES (:number, :name_native, :name_latin, :name_translated, :verse_count, :revelation_place)`, ch)
		if err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO Setting (key, value) VALUES ('chapters_refreshed', ?)`,
		db.now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}

// ChaptersRefreshed returns when the chapter list was last replaced, or the
// zero time if it never was.
func (db *sqliteDb) ChaptersRefreshed() (time.Time, error) {
	var raw string
	err := db.conn.Get(&raw, `SELECT value FROM Setting WHERE key = 'chapters_refreshed'`)
	if errors.Is(err, sql.ErrNoRows) || raw == "" {
		return time.Time{}, nil
	} else if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, raw)
}
