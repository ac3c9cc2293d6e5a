package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Document is the extracted text of the one document a session may hold.
// It lives only in memory: uploads are never persisted, and a new upload
// replaces the previous document for the same session.
type Document struct {
	Filename   string
	Text       string
	Pages      int
	UploadedAt time.Time
}

type entry struct {
	doc      Document
	lastSeen time.Time
}

// Store keeps per-session documents, isolated per session ID. It is safe
// for concurrent use by independent sessions.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

// NewStore creates a session store whose entries expire after the given
// idle TTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores the document under sessionID, or under a freshly generated ID
// when sessionID is empty, and returns the ID in use. Any previously loaded
// document for that session is discarded.
func (s *Store) Put(sessionID string, doc Document) string {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.entries[sessionID] = &entry{doc: doc, lastSeen: s.now()}
	return sessionID
}

// Get returns the session's document. The second return is false when the
// session is unknown or has expired. A hit refreshes the idle timer.
func (s *Store) Get(sessionID string) (Document, bool) {
	if sessionID == "" {
		return Document{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[sessionID]
	if !ok {
		return Document{}, false
	}
	if s.now().Sub(e.lastSeen) > s.ttl {
		delete(s.entries, sessionID)
		return Document{}, false
	}
	e.lastSeen = s.now()
	return e.doc, true
}

// Len reports the number of live sessions, expiring stale ones first.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.entries)
}

func (s *Store) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}
