package dto

import (
	"strings"
	"testing"
)

func TestSongDTOValidate(t *testing.T) {
	song := SongDTO{SongID: 1, Artist: "Queen", Title: "Bohemian Rhapsody", Rating: 5}
	if errs := song.Validate(); len(errs) != 0 {
		t.Errorf("Expected valid song, got %v", errs)
	}

	song = SongDTO{SongID: 0, Artist: " ", Title: "", Rating: 9, Views: -1}
	errs := song.Validate()
	fields := ToMap(errs)
	for _, field := range []string{"song_id", "artist", "title", "rating", "views"} {
		if _, ok := fields[field]; !ok {
			t.Errorf("Expected error for %s, got %v", field, fields)
		}
	}
}

func TestSnapshotRequestValidate(t *testing.T) {
	req := SnapshotRequest{}
	if errs := req.Validate(); len(errs) == 0 {
		t.Error("Expected empty snapshot to be invalid")
	}

	req = SnapshotRequest{Songs: []SongDTO{
		{SongID: 1, Artist: "Queen", Title: "Bohemian Rhapsody"},
		{SongID: 2, Artist: "", Title: "Waterloo"},
	}}
	errs := req.Validate()
	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %v", errs)
	}
	if errs[0].Field != "songs[1].artist" {
		t.Errorf("Expected indexed field path, got %q", errs[0].Field)
	}
}

func TestRecordSyncRequestValidate(t *testing.T) {
	req := RecordSyncRequest{SongID: 1, Path: "/songs/queen", Mtime: 100}
	if errs := req.Validate(); len(errs) != 0 {
		t.Errorf("Expected valid request, got %v", errs)
	}

	req = RecordSyncRequest{SongID: -1, Path: "", Mtime: -5}
	fields := ToMap(req.Validate())
	for _, field := range []string{"song_id", "path", "mtime"} {
		if _, ok := fields[field]; !ok {
			t.Errorf("Expected error for %s, got %v", field, fields)
		}
	}
}

func TestValidateKind(t *testing.T) {
	for _, kind := range []string{"txt", "audio", "video", "cover", "background"} {
		if _, errs := ValidateKind(kind); len(errs) != 0 {
			t.Errorf("Expected %s to be valid, got %v", kind, errs)
		}
	}
	if _, errs := ValidateKind("hologram"); len(errs) == 0 {
		t.Error("Expected unknown kind to be rejected")
	}
}

func TestToResponse(t *testing.T) {
	errs := []ValidationError{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}
	joined := ToResponse(errs)
	if !strings.Contains(joined, "a: bad") || !strings.Contains(joined, "b: worse") {
		t.Errorf("Unexpected response %q", joined)
	}
}
