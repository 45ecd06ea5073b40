package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// SessionSource identifies where a capture session's image comes from.
type SessionSource string

// The set of known capture sources.
const (
	SourceUpload SessionSource = "upload"
	SourceCamera SessionSource = "camera"
	SourceDemo   SessionSource = "demo"
)

// Session tracks one capture flow (an upload form, an open camera modal, or a
// demo-gallery pick) from start to teardown. It replaces the page's implicit
// global stream state with an explicit lifecycle.
type Session struct {
	ID        string        `json:"id"`
	Source    SessionSource `json:"source"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ErrSessionNotFound is returned when ending or resolving an unknown session.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore holds the active capture sessions. Safe for concurrent use.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]Session)}
}

// Start opens a new session for the given source. An empty source defaults
// to upload; unknown sources are rejected.
func (s *SessionStore) Start(source SessionSource) (Session, error) {
	if source == "" {
		source = SourceUpload
	}
	switch source {
	case SourceUpload, SourceCamera, SourceDemo:
	default:
		return Session{}, errors.Errorf("unknown session source %q", source)
	}

	sess := Session{
		ID:        uuid.NewString(),
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

// Get looks up an active session by ID.
func (s *SessionStore) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// End tears down a session. Ending an unknown or already-ended session
// returns ErrSessionNotFound.
func (s *SessionStore) End(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Active returns the number of open sessions.
func (s *SessionStore) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
