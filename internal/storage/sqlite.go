package storage

import (
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Open opens the sqlite database at path and applies migrations. ":memory:"
// gives a private in-memory database.
func Open(path string) (*sqlx.DB, error) {
	dsn := path
	if path != ":memory:" && !strings.Contains(path, "?") {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// PreparedStatements holds the prepared SQL statements used for queries.
type PreparedStatements struct {
	SelectChaptersStmt *sqlx.Stmt
	SelectChapterStmt  *sqlx.Stmt
}

const chapterColumns = `number, name_native, name_latin, name_translated, verse_count, revelation_place`

// InitializeStatements prepares the statements needed for chapter queries.
func InitializeStatements(conn *sqlx.DB) (*PreparedStatements, error) {
	stmts := &PreparedStatements{}
	var err error

	stmts.SelectChaptersStmt, err = conn.Preparex(`SELECT ` + chapterColumns + ` FROM Chapter ORDER BY number`)
	if err != nil {
		return nil, err
	}

	stmts.SelectChapterStmt, err = conn.Preparex(`SELECT ` + chapterColumns + ` FROM Chapter WHERE number = ?`)
	if err != nil {
		return nil, err
	}

	return stmts, nil
}

// sqliteDb implements the chapter repository. Methods live in chapter_repo.go.
type sqliteDb struct {
	*PreparedStatements
	conn *sqlx.DB
	now  func() time.Time
}

// Init wraps a migrated connection.
func Init(db *sqlx.DB) (*sqliteDb, error) {
	store := &sqliteDb{conn: db, now: time.Now}

	var err error
	store.PreparedStatements, err = InitializeStatements(db)
	if err != nil {
		return nil, err
	}
	return store, nil
}
