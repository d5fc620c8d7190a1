package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/errors"
)

const keyPrefix = "watchify:session:"

// DefaultTTL is how long an untouched session survives. Every write
// refreshes it.
const DefaultTTL = 24 * time.Hour

// RedisStore keeps sessions as JSON values with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (Session, error) {
	raw, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return empty(sessionID), nil
	}
	if err != nil {
		return Session{}, apperrors.Wrap(err, "read session")
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// A corrupt value is unrecoverable; start the visitor fresh.
		return empty(sessionID), nil
	}
	sess.ID = sessionID
	if sess.Wishlist == nil {
		sess.Wishlist = []string{}
	}
	if sess.Cart == nil {
		sess.Cart = []CartItem{}
	}
	return sess, nil
}

func (s *RedisStore) AddWishlistItem(ctx context.Context, sessionID, productID string) (Session, error) {
	return s.update(ctx, sessionID, func(sess Session) Session {
		return addWishlist(sess, productID)
	})
}

func (s *RedisStore) RemoveWishlistItem(ctx context.Context, sessionID, productID string) (Session, error) {
	return s.update(ctx, sessionID, func(sess Session) Session {
		return removeWishlist(sess, productID)
	})
}

func (s *RedisStore) ReplaceCart(ctx context.Context, sessionID string, items []CartItem) (Session, error) {
	if items == nil {
		items = []CartItem{}
	}
	return s.update(ctx, sessionID, func(sess Session) Session {
		sess.Cart = items
		return sess
	})
}

func (s *RedisStore) ClearCart(ctx context.Context, sessionID string) (Session, error) {
	return s.update(ctx, sessionID, func(sess Session) Session {
		sess.Cart = []CartItem{}
		return sess
	})
}

func (s *RedisStore) update(ctx context.Context, sessionID string, mutate func(Session) Session) (Session, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}

	sess = mutate(sess)
	sess.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(sess)
	if err != nil {
		return Session{}, fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sessionID, raw, s.ttl).Err(); err != nil {
		return Session{}, apperrors.Wrap(err, "write session")
	}
	return sess, nil
}
