package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the redis-less fallback used in development and
// tests. State is lost on restart, which is acceptable for a mirror.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(sessionID), nil
}

func (s *MemoryStore) getLocked(sessionID string) Session {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return empty(sessionID)
	}
	// Copy the slices so callers never alias stored state.
	out := sess
	out.Wishlist = append([]string{}, sess.Wishlist...)
	out.Cart = append([]CartItem{}, sess.Cart...)
	return out
}

func (s *MemoryStore) AddWishlistItem(_ context.Context, sessionID, productID string) (Session, error) {
	return s.update(sessionID, func(sess Session) Session {
		return addWishlist(sess, productID)
	})
}

func (s *MemoryStore) RemoveWishlistItem(_ context.Context, sessionID, productID string) (Session, error) {
	return s.update(sessionID, func(sess Session) Session {
		return removeWishlist(sess, productID)
	})
}

func (s *MemoryStore) ReplaceCart(_ context.Context, sessionID string, items []CartItem) (Session, error) {
	if items == nil {
		items = []CartItem{}
	}
	return s.update(sessionID, func(sess Session) Session {
		sess.Cart = items
		return sess
	})
}

func (s *MemoryStore) ClearCart(_ context.Context, sessionID string) (Session, error) {
	return s.update(sessionID, func(sess Session) Session {
		sess.Cart = []CartItem{}
		return sess
	})
}

func (s *MemoryStore) update(sessionID string, mutate func(Session) Session) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := mutate(s.getLocked(sessionID))
	sess.UpdatedAt = time.Now().UTC()
	s.sessions[sessionID] = sess
	return sess, nil
}
