// Package storage provides the SQLite-backed local storage used by the
// VoiceVista client: a key/value area standing in for browser local storage
// and a per-user snapshot of the transcription list.
package storage

import "time"

// CachedRecord is one row of a cached transcription list.
type CachedRecord struct {
	ID         int64
	Title      string
	Status     string
	Date       string
	Duration   string
	Transcript string
	Summary    string
	Position   int
}

// Snapshot is the cached transcription list for one owner.
type Snapshot struct {
	Owner     string
	Records   []CachedRecord
	FetchedAt time.Time
}
