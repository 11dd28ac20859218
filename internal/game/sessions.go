package game

import "sync"

// Session is one pending challenge: the challenger has picked, the responder
// has not yet.
type Session struct {
	ID           string
	ChallengerID string
	Choice       Choice
}

// Sessions is a volatile in-memory session store keyed by the originating
// interaction id. Like the routing registry, it does not survive a restart.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]Session
}

// NewSessions returns an empty store.
func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]Session)}
}

// Create registers a pending challenge.
func (s *Sessions) Create(session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

// Get looks up a pending challenge.
func (s *Sessions) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Delete removes a resolved or abandoned challenge.
func (s *Sessions) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
