package domain

// SongID identifies a song in the remote catalog. It is the join key for all
// dependent tables.
type SongID int64

// AttemptID identifies one local synchronization attempt. IDs are assigned in
// creation order, so a larger ID always means a more recently created attempt.
type AttemptID int64

// Song is the locally cached metadata of one remote song.
type Song struct {
	SongID      SongID `json:"song_id" db:"song_id"`
	Artist      string `json:"artist" db:"artist"`
	Title       string `json:"title" db:"title"`
	Language    string `json:"language" db:"language"`
	Edition     string `json:"edition" db:"edition"`
	GoldenNotes bool   `json:"golden_notes" db:"golden_notes"`
	Rating      int    `json:"rating" db:"rating"`
	Views       int    `json:"views" db:"views"`
}

// SyncAttempt is one recorded local download outcome for a song. The path is
// globally unique; re-syncing the same path updates the attempt in place.
type SyncAttempt struct {
	AttemptID AttemptID `json:"attempt_id" db:"attempt_id"`
	SongID    SongID    `json:"song_id" db:"song_id"`
	Path      string    `json:"path" db:"path"`
	Mtime     int64     `json:"mtime" db:"mtime"`
	MetaTags  string    `json:"meta_tags" db:"meta_tags"`
	Pinned    bool      `json:"pinned" db:"pinned"`
}

// ResourceKind discriminates the files a sync attempt can produce.
type ResourceKind string

const (
	ResourceTxt        ResourceKind = "txt"
	ResourceAudio      ResourceKind = "audio"
	ResourceVideo      ResourceKind = "video"
	ResourceCover      ResourceKind = "cover"
	ResourceBackground ResourceKind = "background"
)

// AllResourceKinds lists every valid resource kind.
var AllResourceKinds = []ResourceKind{
	ResourceTxt,
	ResourceAudio,
	ResourceVideo,
	ResourceCover,
	ResourceBackground,
}

// Valid reports whether k is a known resource kind.
func (k ResourceKind) Valid() bool {
	for _, kind := range AllResourceKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ResourceRecord describes one downloaded file belonging to a sync attempt.
// At most one record exists per (attempt, kind) pair.
type ResourceRecord struct {
	AttemptID AttemptID    `json:"attempt_id" db:"attempt_id"`
	Kind      ResourceKind `json:"kind" db:"kind"`
	Fname     string       `json:"fname" db:"fname"`
	Mtime     int64        `json:"mtime" db:"mtime"`
	Resource  string       `json:"resource" db:"resource"`
}

// ActiveSelection ranks the sync attempts currently considered valid for a
// song. Rank 0 is the primary choice; higher ranks are fallbacks.
type ActiveSelection struct {
	SongID    SongID    `json:"song_id" db:"song_id"`
	Rank      int       `json:"rank" db:"rank"`
	AttemptID AttemptID `json:"attempt_id" db:"attempt_id"`
}

// SongState aggregates everything the UI needs to render one song.
type SongState struct {
	Song      Song              `json:"song"`
	Attempts  []SyncAttempt     `json:"attempts"`
	Selection []ActiveSelection `json:"selection"`
}

// Facet is one distinct value of a catalog column with its occurrence count.
type Facet struct {
	Value string `json:"value" db:"value"`
	Count int    `json:"count" db:"count"`
}

// Stats summarizes the catalog and local sync state.
type Stats struct {
	Songs      int    `json:"songs"`
	LocalSongs int    `json:"local_songs"`
	MaxSongID  SongID `json:"max_song_id"`
}
