package snapcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mkoelzer/songbase/internal/domain"
)

func TestLoadMissingFile(t *testing.T) {
	cache := New(filepath.Join(t.TempDir(), "songs.json"))

	songs, err := cache.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if songs != nil {
		t.Errorf("Expected nil for missing cache, got %v", songs)
	}
}

func TestDumpAndLoad(t *testing.T) {
	cache := New(filepath.Join(t.TempDir(), "songs.json"))

	want := []domain.Song{
		{SongID: 1, Artist: "Queen", Title: "Bohemian Rhapsody", Language: "English", Edition: "[SC]-Songs", GoldenNotes: true, Rating: 5, Views: 5000},
		{SongID: 2, Artist: "Nena", Title: "99 Luftballons", Language: "German", Edition: "Rock Classics", Rating: 3, Views: 800},
	}
	if err := cache.Dump(want); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}

	got, err := cache.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d songs, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected song %v, got %v", want[i], got[i])
		}
	}

	// A second dump replaces the file.
	if err := cache.Dump(want[:1]); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	got, err = cache.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Expected 1 song after re-dump, got %d", len(got))
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(path).Load(); err == nil {
		t.Error("Expected corrupt cache to error")
	}
}
