package app

import (
	"fmt"

	"github.com/mkoelzer/songbase/internal/constants"
	"github.com/mkoelzer/songbase/internal/domain"
	"github.com/mkoelzer/songbase/internal/logger"
	"github.com/mkoelzer/songbase/internal/snapcache"
	"github.com/mkoelzer/songbase/internal/store"
)

// CatalogService handles snapshot ingestion and catalog queries.
type CatalogService struct {
	Store  *store.DB
	Cache  *snapcache.Cache
	Logger *logger.Logger
}

func NewCatalogService(db *store.DB, cache *snapcache.Cache, log *logger.Logger) *CatalogService {
	return &CatalogService{Store: db, Cache: cache, Logger: log}
}

// ImportSnapshot reconciles a full remote snapshot into the catalog and
// refreshes the on-disk snapshot cache.
func (s *CatalogService) ImportSnapshot(songs []domain.Song) error {
	if err := s.Store.ReconcileSnapshot(songs); err != nil {
		return err
	}
	s.Logger.Info("Snapshot reconciled", "songs", len(songs))

	if s.Cache != nil {
		if err := s.Cache.Dump(songs); err != nil {
			// The cache is an offline convenience, not part of the store's
			// consistency contract.
			s.Logger.Warn("Failed to write snapshot cache", "error", err)
		}
	}
	return nil
}

// Bootstrap loads the cached snapshot into an empty catalog. It returns the
// number of songs loaded, or 0 when the catalog already has entries or no
// cache exists.
func (s *CatalogService) Bootstrap() (int, error) {
	if s.Cache == nil {
		return 0, nil
	}
	count, err := s.Store.SongCount()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	songs, err := s.Cache.Load()
	if err != nil {
		return 0, fmt.Errorf("failed to load snapshot cache: %w", err)
	}
	if len(songs) == 0 {
		return 0, nil
	}

	if err := s.Store.ReconcileSnapshot(songs); err != nil {
		return 0, err
	}
	s.Logger.Info("Catalog bootstrapped from snapshot cache", "songs", len(songs))
	return len(songs), nil
}

// SearchSongs runs a structured catalog search capped at the result limit.
func (s *CatalogService) SearchSongs(b *store.SearchBuilder) ([]domain.Song, error) {
	return s.Store.SearchSongs(b, constants.MaxSearchResults)
}

// GetSongState returns a song with its attempts and active selection.
func (s *CatalogService) GetSongState(songID domain.SongID) (*domain.SongState, error) {
	return s.Store.GetSongState(songID)
}

// Facet lists the distinct values of a catalog column with counts.
func (s *CatalogService) Facet(column store.FacetColumn) ([]domain.Facet, error) {
	return s.Store.Facet(column)
}

// Stats returns catalog and sync-state counters.
func (s *CatalogService) Stats() (*domain.Stats, error) {
	return s.Store.Stats()
}
