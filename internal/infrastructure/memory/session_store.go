// Package memory implementa el almacén de sesiones en memoria (desarrollo y tests).
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/laptophub-storefront/internal/domain"
	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionStore)(nil)

// SessionStore sesiones en un mapa protegido por mutex. Guarda copias: nadie comparte el carrito.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]repository.Session
}

// NewSessionStore almacén vacío.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]repository.Session)}
}

func (s *SessionStore) Create(_ context.Context, in *repository.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[in.ID]; ok {
		return domain.ErrConflict
	}
	s.sessions[in.ID] = copySession(*in)
	return nil
}

func (s *SessionStore) GetByID(_ context.Context, id string) (*repository.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	out := copySession(in)
	return &out, nil
}

func (s *SessionStore) SetUser(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if in.UserID != userID {
		// Otro usuario: la instantánea del carrito anterior no le pertenece.
		in.Cart = nil
	}
	in.UserID = userID
	in.UpdatedAt = time.Now()
	s.sessions[id] = in
	return nil
}

func (s *SessionStore) SaveCartSnapshot(_ context.Context, id string, cart *entity.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if cart == nil {
		in.Cart = nil
	} else {
		c := cart.Clone()
		in.Cart = &c
	}
	in.UpdatedAt = time.Now()
	s.sessions[id] = in
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func copySession(in repository.Session) repository.Session {
	out := in
	if in.Cart != nil {
		c := in.Cart.Clone()
		out.Cart = &c
	}
	return out
}
