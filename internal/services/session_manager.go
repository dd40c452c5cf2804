package services

import (
	"fmt"
	"sort"
	"sync"

	"gpx-navigation-service/internal/ports"

	"github.com/google/uuid"
)

// SessionManager owns the live navigation sessions of the server.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	loader    *RouteLoader
	announcer ports.Announcer
	phrases   Phrasebook
}

func NewSessionManager(loader *RouteLoader, announcer ports.Announcer, phrases Phrasebook) *SessionManager {
	return &SessionManager{
		sessions:  make(map[string]*Session),
		loader:    loader,
		announcer: announcer,
		phrases:   phrases,
	}
}

func (m *SessionManager) Create() *Session {
	s := NewSession(uuid.NewString(), m.loader, m.announcer, m.phrases)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s
}

func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session id=%q: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

func (m *SessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("session id=%q: %w", id, ErrSessionNotFound)
	}
	delete(m.sessions, id)
	return nil
}

// List returns the ids of all sessions, oldest first.
func (m *SessionManager) List() []string {
	m.mu.RLock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	ids := make([]string, 0, len(all))
	for _, s := range all {
		ids = append(ids, s.ID)
	}
	return ids
}
