package dto

import (
	"fmt"

	"github.com/mkoelzer/songbase/internal/domain"
)

// SongDTO is one catalog entry as reported by the scraper.
type SongDTO struct {
	SongID      int64  `json:"song_id"`
	Artist      string `json:"artist"`
	Title       string `json:"title"`
	Language    string `json:"language"`
	Edition     string `json:"edition"`
	GoldenNotes bool   `json:"golden_notes"`
	Rating      int    `json:"rating"`
	Views       int    `json:"views"`
}

func (s *SongDTO) Validate() []ValidationError {
	var errs []ValidationError
	if s.SongID <= 0 {
		errs = append(errs, ValidationError{Field: "song_id", Message: "must be positive"})
	}
	errs = append(errs, validateRequired("artist", s.Artist)...)
	errs = append(errs, validateRequired("title", s.Title)...)
	errs = append(errs, validateRange("rating", s.Rating, 0, 5)...)
	errs = append(errs, validateNonNegative("views", int64(s.Views))...)
	return errs
}

func (s *SongDTO) ToDomain() domain.Song {
	return domain.Song{
		SongID:      domain.SongID(s.SongID),
		Artist:      s.Artist,
		Title:       s.Title,
		Language:    s.Language,
		Edition:     s.Edition,
		GoldenNotes: s.GoldenNotes,
		Rating:      s.Rating,
		Views:       s.Views,
	}
}

// SnapshotRequest is a complete catalog snapshot push.
type SnapshotRequest struct {
	Songs []SongDTO `json:"songs"`
}

func (r *SnapshotRequest) Validate() []ValidationError {
	var errs []ValidationError
	if len(r.Songs) == 0 {
		errs = append(errs, ValidationError{Field: "songs", Message: "cannot be empty"})
	}
	for i, s := range r.Songs {
		for _, e := range s.Validate() {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("songs[%d].%s", i, e.Field),
				Message: e.Message,
			})
		}
	}
	return errs
}

func (r *SnapshotRequest) ToDomain() []domain.Song {
	songs := make([]domain.Song, len(r.Songs))
	for i, s := range r.Songs {
		songs[i] = s.ToDomain()
	}
	return songs
}
