package storage

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schemaSQL string

// migration upgrades the schema from version-1 to version.
type migration struct {
	version int
	apply   func(*sqlx.Tx) error
}

var migrations = []migration{
	{version: 1, apply: func(tx *sqlx.Tx) error {
		_, err := tx.Exec(schemaSQL)
		return err
	}},
	{version: 2, apply: func(tx *sqlx.Tx) error {
		// Records when the chapter list was last refreshed from upstream.
		_, err := tx.Exec(`INSERT OR IGNORE INTO Setting (key, value) VALUES ('chapters_refreshed', '')`)
		return err
	}},
}

var latestVersion = migrations[len(migrations)-1].version

func getSchemaVersion(db *sqlx.DB) (int, error) {
	var exists int
	if err := db.Get(&exists, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'Setting'`); err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, nil
	}

	var raw string
	err := db.Get(&raw, `SELECT value FROM Setting WHERE key = 'schema_version'`)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return strconv.Atoi(raw)
}

// RunMigrations brings the schema up to date. It is idempotent.
func RunMigrations(db *sqlx.DB) error {
	current, err := getSchemaVersion(db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := db.Beginx()
		if err != nil {
			return err
		}
		if err := m.apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(`INSERT OR REPLACE INTO Setting (key, value) VALUES ('schema_version', ?)`,
			strconv.Itoa(m.version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		slog.Info("applied migration", "version", m.version)
	}
	return nil
}
