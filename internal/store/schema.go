package store

// schemaV1 is the initial schema. The search_index virtual table is an
// external-content FTS5 index over catalog_entry; the triggers keep it in
// lockstep with every insert, update and delete, so callers cannot observe
// the catalog and the index out of sync.
const schemaV1 = `
CREATE TABLE meta (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	store_id TEXT NOT NULL,
	version INTEGER NOT NULL,
	ctime INTEGER NOT NULL
);

CREATE TABLE catalog_entry (
	song_id INTEGER PRIMARY KEY,
	artist TEXT NOT NULL,
	title TEXT NOT NULL,
	language TEXT NOT NULL,
	edition TEXT NOT NULL,
	golden_notes BOOLEAN NOT NULL,
	rating INTEGER NOT NULL,
	views INTEGER NOT NULL
);

CREATE TABLE sync_attempt (
	attempt_id INTEGER PRIMARY KEY,
	song_id INTEGER NOT NULL REFERENCES catalog_entry (song_id) ON DELETE CASCADE,
	path TEXT NOT NULL UNIQUE,
	mtime INTEGER NOT NULL,
	meta_tags TEXT NOT NULL,
	pinned BOOLEAN NOT NULL DEFAULT FALSE,
	UNIQUE (song_id, attempt_id)
);

CREATE TABLE resource_record (
	attempt_id INTEGER NOT NULL REFERENCES sync_attempt (attempt_id) ON DELETE CASCADE,
	kind TEXT NOT NULL,
	fname TEXT NOT NULL,
	mtime INTEGER NOT NULL,
	resource TEXT NOT NULL,
	PRIMARY KEY (attempt_id, kind)
);

CREATE TABLE active_selection (
	song_id INTEGER NOT NULL,
	rank INTEGER NOT NULL,
	attempt_id INTEGER NOT NULL,
	PRIMARY KEY (song_id, rank),
	FOREIGN KEY (song_id, attempt_id)
		REFERENCES sync_attempt (song_id, attempt_id) ON DELETE CASCADE
);

CREATE VIRTUAL TABLE search_index USING fts5(
	artist,
	title,
	language,
	edition,
	content='catalog_entry',
	content_rowid='song_id'
);

CREATE TRIGGER catalog_entry_ai AFTER INSERT ON catalog_entry BEGIN
	INSERT INTO search_index (rowid, artist, title, language, edition)
	VALUES (new.song_id, new.artist, new.title, new.language, new.edition);
END;

CREATE TRIGGER catalog_entry_ad AFTER DELETE ON catalog_entry BEGIN
	INSERT INTO search_index (search_index, rowid, artist, title, language, edition)
	VALUES ('delete', old.song_id, old.artist, old.title, old.language, old.edition);
END;

CREATE TRIGGER catalog_entry_au AFTER UPDATE ON catalog_entry BEGIN
	INSERT INTO search_index (search_index, rowid, artist, title, language, edition)
	VALUES ('delete', old.song_id, old.artist, old.title, old.language, old.edition);
	INSERT INTO search_index (rowid, artist, title, language, edition)
	VALUES (new.song_id, new.artist, new.title, new.language, new.edition);
END;
`

// schemaV2 adds query indexes for the selection recompute and folder lookups.
const schemaV2 = `
CREATE INDEX idx_sync_attempt_song ON sync_attempt (song_id);
CREATE INDEX idx_sync_attempt_order ON sync_attempt (song_id, pinned, mtime);
CREATE INDEX idx_active_selection_attempt ON active_selection (attempt_id);
`

// migrations lists schema upgrade steps in order. Each step runs in its own
// transaction with the version bump as its last statement.
var migrations = []struct {
	version int
	stmts   string
}{
	{version: 2, stmts: schemaV2},
}
