// Package session mirrors per-visitor storefront state (wishlist and
// cart) so every surface reads and writes it through one store instead
// of scattering ad-hoc mutations. State is ephemeral and TTL-bound;
// the backend remains the source of truth for orders.
package session

import (
	"context"
	"time"
)

// CartItem is one line of a visitor's cart mirror.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

// Session is a visitor's mirrored state. A session that was never
// written reads back as the zero value with its ID set.
type Session struct {
	ID        string     `json:"id"`
	Wishlist  []string   `json:"wishlist"`
	Cart      []CartItem `json:"cart"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func empty(id string) Session {
	return Session{ID: id, Wishlist: []string{}, Cart: []CartItem{}}
}

// Store is the single mutation funnel for session state. All writes go
// through these designated operations; there is no raw Put.
type Store interface {
	Get(ctx context.Context, sessionID string) (Session, error)
	AddWishlistItem(ctx context.Context, sessionID, productID string) (Session, error)
	RemoveWishlistItem(ctx context.Context, sessionID, productID string) (Session, error)
	ReplaceCart(ctx context.Context, sessionID string, items []CartItem) (Session, error)
	ClearCart(ctx context.Context, sessionID string) (Session, error)
}

func addWishlist(s Session, productID string) Session {
	for _, id := range s.Wishlist {
		if id == productID {
			return s
		}
	}
	s.Wishlist = append(s.Wishlist, productID)
	return s
}

func removeWishlist(s Session, productID string) Session {
	kept := s.Wishlist[:0]
	for _, id := range s.Wishlist {
		if id != productID {
			kept = append(kept, id)
		}
	}
	s.Wishlist = kept
	return s
}
