package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mkoelzer/songbase/internal/domain"
)

// lastAttemptID guards attempt id generation. IDs are unix microseconds,
// bumped on collision so they stay strictly increasing within the process.
var lastAttemptID atomic.Int64

func nextAttemptID() domain.AttemptID {
	for {
		id := time.Now().UnixMicro()
		last := lastAttemptID.Load()
		if id <= last {
			id = last + 1
		}
		if lastAttemptID.CompareAndSwap(last, id) {
			return domain.AttemptID(id)
		}
	}
}

// RecordSync records a completed synchronization for songID at path. If an
// attempt already exists at that path it is updated in place instead of
// duplicated. The song's active selection is recomputed in the same
// transaction. Fails with ErrNotFound if the song is not in the catalog.
func (db *DB) RecordSync(songID domain.SongID, path string, mtime int64, metaTags string, pinned bool) (domain.AttemptID, error) {
	var attemptID domain.AttemptID
	err := db.withTx(func(tx *sqlx.Tx) error {
		if err := songExists(tx, songID); err != nil {
			return err
		}

		var prev domain.SyncAttempt
		err := tx.Get(&prev, `
			SELECT attempt_id, song_id, path, mtime, meta_tags, pinned
			FROM sync_attempt WHERE path = ?`, path)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			attemptID = nextAttemptID()
			_, err := tx.Exec(`
				INSERT INTO sync_attempt (attempt_id, song_id, path, mtime, meta_tags, pinned)
				VALUES (?, ?, ?, ?, ?, ?)`,
				attemptID, songID, path, mtime, metaTags, pinned)
			if err != nil {
				return fmt.Errorf("failed to insert sync attempt: %w", err)
			}
			return recomputeSelection(tx, songID)

		case err != nil:
			return fmt.Errorf("failed to look up path %q: %w", path, err)

		default:
			attemptID = prev.AttemptID
			if prev.SongID != songID {
				// The path changed owner. Clear both selections before the
				// update so the composite foreign key never dangles.
				if err := clearSelection(tx, prev.SongID); err != nil {
					return err
				}
				if err := clearSelection(tx, songID); err != nil {
					return err
				}
			}
			_, err := tx.Exec(`
				UPDATE sync_attempt SET song_id = ?, mtime = ?, meta_tags = ?, pinned = ?
				WHERE attempt_id = ?`,
				songID, mtime, metaTags, pinned, attemptID)
			if err != nil {
				return fmt.Errorf("failed to update sync attempt: %w", err)
			}
			if prev.SongID != songID {
				if err := recomputeSelection(tx, prev.SongID); err != nil {
					return err
				}
			}
			return recomputeSelection(tx, songID)
		}
	})
	if err != nil {
		return 0, err
	}
	return attemptID, nil
}

// RemoveSync deletes the attempt, cascading to its resource records, and
// recomputes the owning song's active selection.
func (db *DB) RemoveSync(attemptID domain.AttemptID) error {
	return db.withTx(func(tx *sqlx.Tx) error {
		songID, err := attemptOwner(tx, attemptID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM sync_attempt WHERE attempt_id = ?", attemptID); err != nil {
			return fmt.Errorf("failed to delete sync attempt: %w", err)
		}
		return recomputeSelection(tx, songID)
	})
}

// SetPinned toggles the pin flag and recomputes the song's active selection,
// since pinning changes precedence.
func (db *DB) SetPinned(attemptID domain.AttemptID, pinned bool) error {
	return db.withTx(func(tx *sqlx.Tx) error {
		songID, err := attemptOwner(tx, attemptID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec("UPDATE sync_attempt SET pinned = ? WHERE attempt_id = ?", pinned, attemptID); err != nil {
			return fmt.Errorf("failed to set pinned: %w", err)
		}
		return recomputeSelection(tx, songID)
	})
}

// GetAttempt returns the sync attempt, or ErrNotFound.
func (db *DB) GetAttempt(attemptID domain.AttemptID) (*domain.SyncAttempt, error) {
	var attempt domain.SyncAttempt
	err := db.Get(&attempt, `
		SELECT attempt_id, song_id, path, mtime, meta_tags, pinned
		FROM sync_attempt WHERE attempt_id = ?`, attemptID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("attempt %d: %w", attemptID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt %d: %w", attemptID, err)
	}
	return &attempt, nil
}

// ListAttempts returns all sync attempts for a song, newest first.
func (db *DB) ListAttempts(songID domain.SongID) ([]domain.SyncAttempt, error) {
	var attempts []domain.SyncAttempt
	err := db.Select(&attempts, `
		SELECT attempt_id, song_id, path, mtime, meta_tags, pinned
		FROM sync_attempt WHERE song_id = ? ORDER BY attempt_id DESC`, songID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

// AttemptsInFolder returns all attempts whose path lies below folder. The
// folder must use forward slashes, like the stored paths.
func (db *DB) AttemptsInFolder(folder string) ([]domain.SyncAttempt, error) {
	var attempts []domain.SyncAttempt
	err := db.Select(&attempts, `
		SELECT attempt_id, song_id, path, mtime, meta_tags, pinned
		FROM sync_attempt WHERE path GLOB ? || '/*' ORDER BY path`, folder)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts in %q: %w", folder, err)
	}
	return attempts, nil
}

// Selection returns the song's active selection ordered by rank. Rank 0 is
// the primary attempt.
func (db *DB) Selection(songID domain.SongID) ([]domain.ActiveSelection, error) {
	var selection []domain.ActiveSelection
	err := db.Select(&selection, `
		SELECT song_id, rank, attempt_id
		FROM active_selection WHERE song_id = ? ORDER BY rank`, songID)
	if err != nil {
		return nil, fmt.Errorf("failed to get selection: %w", err)
	}
	return selection, nil
}

// recomputeSelection replaces the song's active selection with a fresh
// ranking of its attempts: pinned before unpinned, then newer mtime, then
// higher attempt id. Ranks are dense starting at 0.
func recomputeSelection(tx *sqlx.Tx, songID domain.SongID) error {
	if err := clearSelection(tx, songID); err != nil {
		return err
	}
	_, err := tx.Exec(`
		INSERT INTO active_selection (song_id, rank, attempt_id)
		SELECT song_id,
		       ROW_NUMBER() OVER (ORDER BY pinned DESC, mtime DESC, attempt_id DESC) - 1,
		       attempt_id
		FROM sync_attempt WHERE song_id = ?`, songID)
	if err != nil {
		return fmt.Errorf("failed to recompute selection: %w", err)
	}
	return nil
}

func clearSelection(tx *sqlx.Tx, songID domain.SongID) error {
	if _, err := tx.Exec("DELETE FROM active_selection WHERE song_id = ?", songID); err != nil {
		return fmt.Errorf("failed to clear selection: %w", err)
	}
	return nil
}

func songExists(tx *sqlx.Tx, songID domain.SongID) error {
	var n int
	if err := tx.Get(&n, "SELECT COUNT(*) FROM catalog_entry WHERE song_id = ?", songID); err != nil {
		return fmt.Errorf("failed to look up song %d: %w", songID, err)
	}
	if n == 0 {
		return fmt.Errorf("song %d: %w", songID, ErrNotFound)
	}
	return nil
}

func attemptOwner(tx *sqlx.Tx, attemptID domain.AttemptID) (domain.SongID, error) {
	var songID domain.SongID
	err := tx.Get(&songID, "SELECT song_id FROM sync_attempt WHERE attempt_id = ?", attemptID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("attempt %d: %w", attemptID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up attempt %d: %w", attemptID, err)
	}
	return songID, nil
}
