package app

import (
	"github.com/mkoelzer/songbase/internal/domain"
	"github.com/mkoelzer/songbase/internal/logger"
	"github.com/mkoelzer/songbase/internal/store"
)

// SyncService handles reports from the downloader and pin commands from the
// UI.
type SyncService struct {
	Store  *store.DB
	Logger *logger.Logger
}

func NewSyncService(db *store.DB, log *logger.Logger) *SyncService {
	return &SyncService{Store: db, Logger: log}
}

// RecordSync records a completed download for a song. Re-syncing a known path
// updates the existing attempt.
func (s *SyncService) RecordSync(songID domain.SongID, path string, mtime int64, metaTags string, pinned bool) (domain.AttemptID, error) {
	attemptID, err := s.Store.RecordSync(songID, path, mtime, metaTags, pinned)
	if err != nil {
		return 0, err
	}
	s.Logger.Info("Sync recorded", "song_id", songID, "attempt_id", attemptID, "path", path)
	return attemptID, nil
}

// RemoveSync drops an attempt after its local files are gone.
func (s *SyncService) RemoveSync(attemptID domain.AttemptID) error {
	if err := s.Store.RemoveSync(attemptID); err != nil {
		return err
	}
	s.Logger.Info("Sync removed", "attempt_id", attemptID)
	return nil
}

// SetPinned toggles an attempt's pin flag.
func (s *SyncService) SetPinned(attemptID domain.AttemptID, pinned bool) error {
	if err := s.Store.SetPinned(attemptID, pinned); err != nil {
		return err
	}
	s.Logger.Info("Pin flag updated", "attempt_id", attemptID, "pinned", pinned)
	return nil
}

// RecordResource records one downloaded resource file for an attempt.
func (s *SyncService) RecordResource(attemptID domain.AttemptID, kind domain.ResourceKind, fname string, mtime int64, resource string) error {
	if err := s.Store.RecordResource(attemptID, kind, fname, mtime, resource); err != nil {
		return err
	}
	s.Logger.Info("Resource recorded", "attempt_id", attemptID, "kind", kind, "fname", fname)
	return nil
}

// RemoveResource drops one resource kind from an attempt.
func (s *SyncService) RemoveResource(attemptID domain.AttemptID, kind domain.ResourceKind) error {
	if err := s.Store.RemoveResource(attemptID, kind); err != nil {
		return err
	}
	s.Logger.Info("Resource removed", "attempt_id", attemptID, "kind", kind)
	return nil
}

// GetAttempt returns one attempt with its resource records.
func (s *SyncService) GetAttempt(attemptID domain.AttemptID) (*domain.SyncAttempt, []domain.ResourceRecord, error) {
	attempt, err := s.Store.GetAttempt(attemptID)
	if err != nil {
		return nil, nil, err
	}
	resources, err := s.Store.ListResources(attemptID)
	if err != nil {
		return nil, nil, err
	}
	return attempt, resources, nil
}
