package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// schemaVersion is the schema this release reads and writes. Opening a store
// with a higher version fails with ErrIncompatibleVersion.
const schemaVersion = 2

// DB is the local catalog and sync-state store, backed by a single SQLite
// file. All mutation goes through its methods; each multi-step operation runs
// in one transaction, so readers never observe partial effects.
type DB struct {
	*sqlx.DB
}

// Meta is the singleton metadata row describing the store itself.
type Meta struct {
	ID      int    `db:"id"`
	StoreID string `db:"store_id"`
	Version int    `db:"version"`
	Ctime   int64  `db:"ctime"`
}

// Open opens or creates the store at path and brings the schema up to date.
func Open(path string) (*DB, error) {
	// foreign_keys must be set per connection, so it goes in the DSN where it
	// applies to every pooled connection.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=synchronous(NORMAL)",
		path,
	)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	store := &DB{db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Meta returns the store's singleton metadata row.
func (db *DB) Meta() (*Meta, error) {
	var m Meta
	if err := db.Get(&m, "SELECT id, store_id, version, ctime FROM meta WHERE id = 1"); err != nil {
		return nil, fmt.Errorf("failed to read meta: %w", err)
	}
	return &m, nil
}

// migrate initializes a fresh store or upgrades an existing one. Each upgrade
// step runs in its own transaction and bumps the version last, so a crash
// mid-migration leaves a consistent store at the previous version.
func (db *DB) migrate() error {
	version, err := db.storedVersion()
	if err != nil {
		return err
	}

	if version == 0 {
		if err := db.initialize(); err != nil {
			return err
		}
		version = 1
	}

	if version > schemaVersion {
		return fmt.Errorf("store version %d, supported %d: %w", version, schemaVersion, ErrIncompatibleVersion)
	}

	for _, m := range migrations {
		if version >= m.version {
			continue
		}
		err := db.withTx(func(tx *sqlx.Tx) error {
			if _, err := tx.Exec(m.stmts); err != nil {
				return fmt.Errorf("failed to apply schema v%d: %w", m.version, err)
			}
			if _, err := tx.Exec("UPDATE meta SET version = ? WHERE id = 1", m.version); err != nil {
				return fmt.Errorf("failed to set schema version: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		version = m.version
	}

	return nil
}

// storedVersion returns the version from the meta table, or 0 for a fresh
// database without one.
func (db *DB) storedVersion() (int, error) {
	var exists int
	err := db.Get(&exists, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name = 'meta'
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect schema: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}

	var version int
	err = db.Get(&version, "SELECT version FROM meta WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("meta table has no singleton row")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func (db *DB) initialize() error {
	return db.withTx(func(tx *sqlx.Tx) error {
		if _, err := tx.Exec(schemaV1); err != nil {
			return fmt.Errorf("failed to apply schema v1: %w", err)
		}
		_, err := tx.Exec(
			"INSERT INTO meta (id, store_id, version, ctime) VALUES (1, ?, 1, ?)",
			uuid.New().String(), time.Now().UnixMicro(),
		)
		if err != nil {
			return fmt.Errorf("failed to create meta row: %w", err)
		}
		return nil
	})
}

// withTx executes fn within a transaction, rolling back on error.
func (db *DB) withTx(fn func(*sqlx.Tx) error) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
