package service

import (
	"sync"
	"time"

	"github.com/davidarcila/TowerFlip/internal/engine"
	"github.com/davidarcila/TowerFlip/internal/game"
)

// Session is one live run: the combat state machine plus the pre-fetched
// enemy sequence and bookkeeping the registry needs. All access goes
// through mu so there is only ever one logical actor inside the combat.
type Session struct {
	mu sync.Mutex

	Combat       *engine.Combat
	Email        string
	Enemies      []game.Entity
	LastActivity time.Time
	statsCounted bool
}

// Registry holds the live sessions keyed by run UUID.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Get returns the session for runID, if present.
func (r *Registry) Get(runID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[runID]
	return s, ok
}

// Put registers a session under runID.
func (r *Registry) Put(runID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[runID] = s
}

// Remove drops the session for runID.
func (r *Registry) Remove(runID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, runID)
}

// Snapshot returns the current (runID, session) pairs. The sessions still
// need their own lock before use.
func (r *Registry) Snapshot() map[string]*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*Session, len(r.sessions))
	for id, s := range r.sessions {
		out[id] = s
	}
	return out
}
