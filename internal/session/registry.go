package session

import (
	"sync"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
)

// Registry is the in-memory session index, keyed by session ID with a
// secondary index on the approval token.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]*Session
	byToken map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]*Session),
		byToken: make(map[string]string),
	}
}

func (r *Registry) Add(s *Session) {
	rec := s.Record()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rec.ID] = s
	r.byToken[rec.ApprovalToken] = rec.ID
}

func (r *Registry) ByID(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	return s, ok
}

func (r *Registry) ByToken(token string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byToken[token]
	if !ok {
		return nil, false
	}
	s, ok := r.byID[id]
	return s, ok
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	delete(r.byToken, s.Record().ApprovalToken)
}

// List returns snapshots of every tracked session.
func (r *Registry) List() []models.SessionRecord {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.byID))
	for _, s := range r.byID {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	records := make([]models.SessionRecord, 0, len(sessions))
	for _, s := range sessions {
		records = append(records, s.Record())
	}
	return records
}
