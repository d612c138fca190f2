package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mkoelzer/songbase/internal/constants"
	"github.com/mkoelzer/songbase/internal/domain"
)

const upsertSongStmt = `
	INSERT INTO catalog_entry (song_id, artist, title, language, edition, golden_notes, rating, views)
	VALUES (:song_id, :artist, :title, :language, :edition, :golden_notes, :rating, :views)
	ON CONFLICT (song_id) DO UPDATE SET
		artist = excluded.artist,
		title = excluded.title,
		language = excluded.language,
		edition = excluded.edition,
		golden_notes = excluded.golden_notes,
		rating = excluded.rating,
		views = excluded.views`

// ReconcileSnapshot aligns the catalog with a complete remote snapshot in one
// transaction: new identifiers are inserted, known ones are updated in place,
// and identifiers absent from the snapshot are deleted together with their
// sync attempts, resource records and active selections.
//
// An empty snapshot or one with duplicate identifiers fails with a
// ValidationError and leaves the store unchanged.
func (db *DB) ReconcileSnapshot(songs []domain.Song) error {
	if len(songs) == 0 {
		return validationErrorf("snapshot", "snapshot is empty")
	}
	snapshot := make(map[domain.SongID]struct{}, len(songs))
	for _, s := range songs {
		if _, dup := snapshot[s.SongID]; dup {
			return validationErrorf("song_id", "duplicate identifier %d", s.SongID)
		}
		snapshot[s.SongID] = struct{}{}
	}

	return db.withTx(func(tx *sqlx.Tx) error {
		for _, s := range songs {
			if _, err := tx.NamedExec(upsertSongStmt, s); err != nil {
				return fmt.Errorf("failed to upsert song %d: %w", s.SongID, err)
			}
		}

		var known []domain.SongID
		if err := tx.Select(&known, "SELECT song_id FROM catalog_entry"); err != nil {
			return fmt.Errorf("failed to list songs: %w", err)
		}

		var stale []domain.SongID
		for _, id := range known {
			if _, ok := snapshot[id]; !ok {
				stale = append(stale, id)
			}
		}
		return deleteSongs(tx, stale)
	})
}

// deleteSongs removes the given songs in batches. The foreign keys cascade
// through sync_attempt, resource_record and active_selection.
func deleteSongs(tx *sqlx.Tx, ids []domain.SongID) error {
	for len(ids) > 0 {
		batch := ids
		if len(batch) > constants.DeleteBatchSize {
			batch = batch[:constants.DeleteBatchSize]
		}
		ids = ids[len(batch):]

		query, args, err := sqlx.In("DELETE FROM catalog_entry WHERE song_id IN (?)", batch)
		if err != nil {
			return fmt.Errorf("failed to build delete: %w", err)
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to delete songs: %w", err)
		}
	}
	return nil
}

// GetSong returns the catalog entry for songID, or ErrNotFound.
func (db *DB) GetSong(songID domain.SongID) (*domain.Song, error) {
	var song domain.Song
	err := db.Get(&song, `
		SELECT song_id, artist, title, language, edition, golden_notes, rating, views
		FROM catalog_entry WHERE song_id = ?`, songID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("song %d: %w", songID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song %d: %w", songID, err)
	}
	return &song, nil
}

// GetSongState returns the song together with its attempts and selection.
func (db *DB) GetSongState(songID domain.SongID) (*domain.SongState, error) {
	song, err := db.GetSong(songID)
	if err != nil {
		return nil, err
	}
	attempts, err := db.ListAttempts(songID)
	if err != nil {
		return nil, err
	}
	selection, err := db.Selection(songID)
	if err != nil {
		return nil, err
	}
	return &domain.SongState{Song: *song, Attempts: attempts, Selection: selection}, nil
}

// DeleteAllSongs empties the catalog, cascading to all dependent state. Used
// for a forced full reload.
func (db *DB) DeleteAllSongs() error {
	if _, err := db.Exec("DELETE FROM catalog_entry"); err != nil {
		return fmt.Errorf("failed to delete songs: %w", err)
	}
	return nil
}

// SongCount returns the number of catalog entries.
func (db *DB) SongCount() (int, error) {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM catalog_entry"); err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return count, nil
}

// MaxSongID returns the highest known song identifier, or 0 for an empty
// catalog. The scraper uses it as the watermark for incremental fetches.
func (db *DB) MaxSongID() (domain.SongID, error) {
	var maxID sql.NullInt64
	if err := db.Get(&maxID, "SELECT MAX(song_id) FROM catalog_entry"); err != nil {
		return 0, fmt.Errorf("failed to get max song id: %w", err)
	}
	return domain.SongID(maxID.Int64), nil
}

// LocalSongIDs returns the identifiers of all songs with at least one sync
// attempt.
func (db *DB) LocalSongIDs() ([]domain.SongID, error) {
	var ids []domain.SongID
	err := db.Select(&ids, "SELECT DISTINCT song_id FROM sync_attempt ORDER BY song_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list local songs: %w", err)
	}
	return ids, nil
}

// Stats returns catalog and sync-state counters.
func (db *DB) Stats() (*domain.Stats, error) {
	songs, err := db.SongCount()
	if err != nil {
		return nil, err
	}
	var local int
	if err := db.Get(&local, "SELECT COUNT(DISTINCT song_id) FROM sync_attempt"); err != nil {
		return nil, fmt.Errorf("failed to count local songs: %w", err)
	}
	maxID, err := db.MaxSongID()
	if err != nil {
		return nil, err
	}
	return &domain.Stats{Songs: songs, LocalSongs: local, MaxSongID: maxID}, nil
}
