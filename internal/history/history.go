// Package history keeps the most recent completed transcription for repeat typing.
package history

import (
	"sync"
	"time"
)

// Entry is one stored transcription result.
type Entry struct {
	Text string
	At   time.Time
}

// Store is a single-slot transcription history: each completed transcription
// overwrites the previous one, and reads never consume the entry. The session
// orchestrator is the only writer; any number of readers may query it.
type Store struct {
	mu    sync.RWMutex
	entry Entry
	set   bool
}

// NewStore returns an empty history store.
func NewStore() *Store {
	return &Store{}
}

// Put replaces the stored entry.
func (s *Store) Put(text string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = Entry{Text: text, At: at}
	s.set = true
}

// Last returns the stored entry without consuming it.
func (s *Store) Last() (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entry, s.set
}
