// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort          = "8080"
	DefaultDBPath        = "songbase.db"
	DefaultSnapshotCache = "song_list.json"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	ShutdownTimeout      = 5 * time.Second
)

// Query limits
const (
	MaxSearchResults  = 500
	MaxSnapshotSongs  = 1_000_000
	DeleteBatchSize   = 500
	DefaultListLimit  = 100
	MaxResourceLength = 2048
)
