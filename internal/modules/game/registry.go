package game

import (
	"sync"

	"github.com/intensealchemist/DiscordChessBot/internal/modules/game/domain"
)

// Registry maps participant identities to their live session. Every
// participant of a session resolves to the same *Session, and a participant
// holds at most one live session at a time. Begin and End are atomic across
// all of a session's participant keys.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*domain.Session)}
}

// Begin inserts the session under every participant key. The availability
// check and the inserts happen under one lock so two concurrent Begin calls
// can never double-book a participant.
func (r *Registry) Begin(session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	participants := session.Participants()
	for _, id := range participants {
		if _, taken := r.sessions[id]; taken {
			return domain.ErrAlreadyInSession
		}
	}

	for _, id := range participants {
		r.sessions[id] = session
	}

	return nil
}

func (r *Registry) Lookup(participantID string) (*domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[participantID]
	return session, ok
}

// End removes the session under all of its participant keys in one step.
// Keys that meanwhile map to a different session are left alone.
func (r *Registry) End(session *domain.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range session.Participants() {
		if r.sessions[id] == session {
			delete(r.sessions, id)
		}
	}
}

func (r *Registry) ActiveFor(participantID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[participantID]
	return ok
}
