package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mkoelzer/songbase/internal/domain"
)

// RecordResource records a downloaded resource file for an attempt. An
// existing record for the same (attempt, kind) pair is overwritten. Resource
// changes never touch the active selection.
func (db *DB) RecordResource(attemptID domain.AttemptID, kind domain.ResourceKind, fname string, mtime int64, resource string) error {
	if !kind.Valid() {
		return validationErrorf("kind", "unknown resource kind %q", kind)
	}
	return db.withTx(func(tx *sqlx.Tx) error {
		if _, err := attemptOwner(tx, attemptID); err != nil {
			return err
		}
		_, err := tx.Exec(`
			INSERT INTO resource_record (attempt_id, kind, fname, mtime, resource)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (attempt_id, kind) DO UPDATE SET
				fname = excluded.fname,
				mtime = excluded.mtime,
				resource = excluded.resource`,
			attemptID, kind, fname, mtime, resource)
		if err != nil {
			return fmt.Errorf("failed to record resource: %w", err)
		}
		return nil
	})
}

// RemoveResource deletes the record for one resource kind of an attempt.
// Removing a kind that was never recorded is a no-op.
func (db *DB) RemoveResource(attemptID domain.AttemptID, kind domain.ResourceKind) error {
	return db.withTx(func(tx *sqlx.Tx) error {
		if _, err := attemptOwner(tx, attemptID); err != nil {
			return err
		}
		_, err := tx.Exec("DELETE FROM resource_record WHERE attempt_id = ? AND kind = ?", attemptID, kind)
		if err != nil {
			return fmt.Errorf("failed to remove resource: %w", err)
		}
		return nil
	})
}

// ListResources returns all resource records of an attempt, keyed by kind.
func (db *DB) ListResources(attemptID domain.AttemptID) ([]domain.ResourceRecord, error) {
	var records []domain.ResourceRecord
	err := db.Select(&records, `
		SELECT attempt_id, kind, fname, mtime, resource
		FROM resource_record WHERE attempt_id = ? ORDER BY kind`, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return records, nil
}
