package store

import (
	"errors"
	"testing"

	"github.com/mkoelzer/songbase/internal/domain"
)

func seedSong(t *testing.T, db *DB, songs ...domain.Song) {
	t.Helper()
	if err := db.ReconcileSnapshot(songs); err != nil {
		t.Fatalf("ReconcileSnapshot failed: %v", err)
	}
}

func TestRecordSync(t *testing.T) {
	db := setupTestDB(t)
	seedSong(t, db, testSong(1, "Queen", "Bohemian Rhapsody"))

	attemptID, err := db.RecordSync(1, "/songs/queen", 100, "a=1", false)
	if err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}

	attempt, err := db.GetAttempt(attemptID)
	if err != nil {
		t.Fatalf("GetAttempt failed: %v", err)
	}
	if attempt.SongID != 1 || attempt.Path != "/songs/queen" || attempt.Mtime != 100 || attempt.MetaTags != "a=1" || attempt.Pinned {
		t.Errorf("Unexpected attempt: %+v", attempt)
	}

	selection, err := db.Selection(1)
	if err != nil {
		t.Fatalf("Selection failed: %v", err)
	}
	if len(selection) != 1 || selection[0].Rank != 0 || selection[0].AttemptID != attemptID {
		t.Errorf("Expected single rank-0 selection for %d, got %v", attemptID, selection)
	}
}

func TestRecordSyncUnknownSong(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.RecordSync(42, "/songs/nowhere", 100, "", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestRecordSyncSamePathUpdates(t *testing.T) {
	db := setupTestDB(t)
	seedSong(t, db, testSong(1, "Queen", "Bohemian Rhapsody"))

	first, err := db.RecordSync(1, "/songs/queen", 100, "", false)
	if err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}
	second, err := db.RecordSync(1, "/songs/queen", 200, "v=2", true)
	if err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}
	if first != second {
		t.Errorf("Expected re-sync at same path to reuse attempt %d, got %d", first, second)
	}

	attempts, err := db.ListAttempts(1)
	if err != nil {
		t.Fatalf("ListAttempts failed: %v", err)
	}
	if len(attempts) != 1 {
		t.Fatalf("Expected 1 attempt after re-sync, got %d", len(attempts))
	}
	if attempts[0].Mtime != 200 || attempts[0].MetaTags != "v=2" || !attempts[0].Pinned {
		t.Errorf("Expected updated fields, got %+v", attempts[0])
	}
}

func TestRecordSyncPathChangesOwner(t *testing.T) {
	db := setupTestDB(t)
	seedSong(t, db,
		testSong(1, "Queen", "Bohemian Rhapsody"),
		testSong(2, "ABBA", "Waterloo"),
	)

	attemptID, err := db.RecordSync(1, "/songs/shared", 100, "", false)
	if err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}

	moved, err := db.RecordSync(2, "/songs/shared", 200, "", false)
	if err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}
	if moved != attemptID {
		t.Errorf("Expected path to keep attempt %d, got %d", attemptID, moved)
	}

	if selection, _ := db.Selection(1); len(selection) != 0 {
		t.Errorf("Expected song 1 selection to be empty, got %v", selection)
	}
	selection, err := db.Selection(2)
	if err != nil {
		t.Fatalf("Selection failed: %v", err)
	}
	if len(selection) != 1 || selection[0].AttemptID != attemptID {
		t.Errorf("Expected song 2 to own attempt %d, got %v", attemptID, selection)
	}
}

func TestActiveSelectionPinnedOutranksRecency(t *testing.T) {
	db := setupTestDB(t)
	seedSong(t, db, testSong(1, "Queen", "Bohemian Rhapsody"))

	pinned, err := db.RecordSync(1, "/songs/old-pinned", 5, "", true)
	if err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}
	unpinned, err := db.RecordSync(1, "/songs/new-unpinned", 100, "", false)
	if err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}

	selection, err := db.Selection(1)
	if err != nil {
		t.Fatalf("Selection failed: %v", err)
	}
	if len(selection) != 2 {
		t.Fatalf("Expected 2 ranked attempts, got %v", selection)
	}
	if selection[0].AttemptID != pinned || selection[0].Rank != 0 {
		t.Errorf("Expected pinned attempt at rank 0 regardless of mtime, got %v", selection)
	}
	if selection[1].AttemptID != unpinned || selection[1].Rank != 1 {
		t.Errorf("Expected unpinned attempt at rank 1, got %v", selection)
	}
}

func TestActiveSelectionNewerMtimeWins(t *testing.T) {
	db := setupTestDB(t)
	seedSong(t, db, testSong(1, "Queen", "Bohemian Rhapsody"))

	older, err := db.RecordSync(1, "/songs/a", 10, "", false)
	if err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}
	newer, err := db.RecordSync(1, "/songs/b", 20, "", false)
	if err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}

	selection, err := db.Selection(1)
	if err != nil {
		t.Fatalf("Selection failed: %v", err)
	}
	if selection[0].AttemptID != newer || selection[1].AttemptID != older {
		t.Errorf("Expected mtime-20 attempt first, got %v", selection)
	}
}

func TestActiveSelectionTieBreakByAttemptID(t *testing.T) {
	db := setupTestDB(t)
	seedSong(t, db, testSong(1, "Queen", "Bohemian Rhapsody"))

	first, err := db.RecordSync(1, "/songs/a", 10, "", false)
	if err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}
	second, err := db.RecordSync(1, "/songs/b", 10, "", false)
	if err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}
	if second <= first {
		t.Fatalf("Expected attempt ids to increase with creation order, got %d then %d", first, second)
	}

	selection, err := db.Selection(1)
	if err != nil {
		t.Fatalf("Selection failed: %v", err)
	}
	if selection[0].AttemptID != second {
		t.Errorf("Expected most recently created attempt to win the tie, got %v", selection)
	}
}

func TestSetPinnedReordersSelection(t *testing.T) {
	db := setupTestDB(t)
	seedSong(t, db, testSong(1, "Queen", "Bohemian Rhapsody"))

	older, err := db.RecordSync(1, "/songs/a", 10, "", false)
	if err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}
	newer, err := db.RecordSync(1, "/songs/b", 20, "", false)
	if err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}

	if err := db.SetPinned(older, true); err != nil {
		t.Fatalf("SetPinned failed: %v", err)
	}
	selection, _ := db.Selection(1)
	if selection[0].AttemptID != older {
		t.Errorf("Expected pinned attempt to take rank 0, got %v", selection)
	}

	if err := db.SetPinned(older, false); err != nil {
		t.Fatalf("SetPinned failed: %v", err)
	}
	selection, _ = db.Selection(1)
	if selection[0].AttemptID != newer {
		t.Errorf("Expected recency order after unpinning, got %v", selection)
	}

	if err := db.SetPinned(999, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown attempt, got %v", err)
	}
}

func TestRemoveSync(t *testing.T) {
	db := setupTestDB(t)
	seedSong(t, db, testSong(1, "Queen", "Bohemian Rhapsody"))

	first, err := db.RecordSync(1, "/songs/a", 10, "", false)
	if err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}
	second, err := db.RecordSync(1, "/songs/b", 20, "", false)
	if err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}
	if err := db.RecordResource(second, domain.ResourceAudio, "b.mp3", 20, "yt:b"); err != nil {
		t.Fatalf("RecordResource failed: %v", err)
	}

	if err := db.RemoveSync(second); err != nil {
		t.Fatalf("RemoveSync failed: %v", err)
	}
	if _, err := db.GetAttempt(second); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected attempt to be gone, got %v", err)
	}
	if resources, _ := db.ListResources(second); len(resources) != 0 {
		t.Errorf("Expected resources to cascade, got %v", resources)
	}

	// Ranks close up with no gaps.
	selection, err := db.Selection(1)
	if err != nil {
		t.Fatalf("Selection failed: %v", err)
	}
	if len(selection) != 1 || selection[0].Rank != 0 || selection[0].AttemptID != first {
		t.Errorf("Expected remaining attempt at rank 0, got %v", selection)
	}

	if err := db.RemoveSync(second); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for repeated removal, got %v", err)
	}
}

func TestAttemptsInFolder(t *testing.T) {
	db := setupTestDB(t)
	seedSong(t, db, testSong(1, "Queen", "Bohemian Rhapsody"))

	if _, err := db.RecordSync(1, "/library/rock/queen", 10, "", false); err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}
	if _, err := db.RecordSync(1, "/other/queen", 20, "", false); err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}

	attempts, err := db.AttemptsInFolder("/library")
	if err != nil {
		t.Fatalf("AttemptsInFolder failed: %v", err)
	}
	if len(attempts) != 1 || attempts[0].Path != "/library/rock/queen" {
		t.Errorf("Expected only the /library attempt, got %v", attempts)
	}
}

// End-to-end: snapshot, two syncs, pinned one wins.
func TestSyncScenario(t *testing.T) {
	db := setupTestDB(t)
	seedSong(t, db, testSong(1, "A", "T1"))

	p1, err := db.RecordSync(1, "/p1", 100, "", false)
	if err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}
	p2, err := db.RecordSync(1, "/p2", 50, "", true)
	if err != nil {
		t.Fatalf("RecordSync failed: %v", err)
	}

	selection, err := db.Selection(1)
	if err != nil {
		t.Fatalf("Selection failed: %v", err)
	}
	want := []domain.ActiveSelection{
		{SongID: 1, Rank: 0, AttemptID: p2},
		{SongID: 1, Rank: 1, AttemptID: p1},
	}
	if len(selection) != len(want) {
		t.Fatalf("Expected %v, got %v", want, selection)
	}
	for i := range want {
		if selection[i] != want[i] {
			t.Errorf("Expected selection[%d] = %v, got %v", i, want[i], selection[i])
		}
	}
}
