package session

import (
	"sync"
	"time"

	"github.com/GandhamRajaReddy/honeypot-api/internal/intel"
)

// Store owns the session map. The map itself is guarded by mu; each session
// carries its own lock so that work on distinct sessions never contends.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	sess *Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*entry)}
}

func (s *Store) getOrCreate(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{sess: &Session{
			ID:           id,
			Intelligence: intel.NewIntelligence(),
			StartedAt:    time.Now().UTC(),
		}}
		s.sessions[id] = e
	}
	return e
}

// Do runs fn with exclusive access to the session, creating it if needed.
// The whole read-modify-write of one inbound message happens inside fn, which
// is what serializes concurrent requests bearing the same session id.
func (s *Store) Do(id string, fn func(*Session)) {
	e := s.getOrCreate(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.sess)
}

// Append adds a message to the session's transcript, creating the session if
// needed.
func (s *Store) Append(id string, msg Message) {
	s.Do(id, func(sess *Session) {
		sess.Messages = append(sess.Messages, msg)
	})
}

// ReplaceIntelligence swaps the session's artifact set wholesale.
func (s *Store) ReplaceIntelligence(id string, i intel.Intelligence) {
	s.Do(id, func(sess *Session) {
		sess.Intelligence = i
	})
}

// Info is the read-only projection served by the inspection endpoint.
type Info struct {
	SessionID    string             `json:"sessionId"`
	MessageCount int                `json:"messageCount"`
	ScamDetected bool               `json:"scamDetected"`
	AgentActive  bool               `json:"agentActive"`
	Intelligence intel.Intelligence `json:"intelligence"`
	StartedAt    string             `json:"startedAt"`
}

// Snapshot returns the projection for an existing session. Unlike the
// processing path, inspection never creates a session.
func (s *Store) Snapshot(id string) (Info, bool) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return Info{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return Info{
		SessionID:    e.sess.ID,
		MessageCount: len(e.sess.Messages),
		ScamDetected: e.sess.ScamDetected,
		AgentActive:  e.sess.AgentActive,
		Intelligence: e.sess.Intelligence,
		StartedAt:    e.sess.StartedAt.Format(time.RFC3339),
	}, true
}
