package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

// stores runs the same suite against both implementations.
func stores(t *testing.T) map[string]Store {
	redisStore, _ := newRedisStore(t)
	return map[string]Store{
		"redis":  redisStore,
		"memory": NewMemoryStore(),
	}
}

func TestStore_GetUnknownSessionIsEmpty(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			sess, err := store.Get(context.Background(), "visitor-1")
			require.NoError(t, err)
			assert.Equal(t, "visitor-1", sess.ID)
			assert.NotNil(t, sess.Wishlist)
			assert.Empty(t, sess.Wishlist)
			assert.NotNil(t, sess.Cart)
			assert.Empty(t, sess.Cart)
		})
	}
}

func TestStore_WishlistAddIsIdempotent(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := store.AddWishlistItem(ctx, "v-1", "p-1")
			require.NoError(t, err)
			_, err = store.AddWishlistItem(ctx, "v-1", "p-2")
			require.NoError(t, err)
			sess, err := store.AddWishlistItem(ctx, "v-1", "p-1")
			require.NoError(t, err)

			assert.Equal(t, []string{"p-1", "p-2"}, sess.Wishlist)
		})
	}
}

func TestStore_WishlistRemove(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := store.AddWishlistItem(ctx, "v-1", "p-1")
			require.NoError(t, err)
			_, err = store.AddWishlistItem(ctx, "v-1", "p-2")
			require.NoError(t, err)

			sess, err := store.RemoveWishlistItem(ctx, "v-1", "p-1")
			require.NoError(t, err)
			assert.Equal(t, []string{"p-2"}, sess.Wishlist)

			// Removing something absent is a no-op.
			sess, err = store.RemoveWishlistItem(ctx, "v-1", "p-9")
			require.NoError(t, err)
			assert.Equal(t, []string{"p-2"}, sess.Wishlist)
		})
	}
}

func TestStore_CartReplaceAndClear(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			items := []CartItem{
				{ProductID: "p-1", Name: "Seiko 5", Price: 4500000, Quantity: 2},
			}

			sess, err := store.ReplaceCart(ctx, "v-1", items)
			require.NoError(t, err)
			require.Len(t, sess.Cart, 1)
			assert.Equal(t, 2, sess.Cart[0].Quantity)
			assert.False(t, sess.UpdatedAt.IsZero())

			sess, err = store.ClearCart(ctx, "v-1")
			require.NoError(t, err)
			assert.Empty(t, sess.Cart)

			// Wishlist survives a cart clear.
			_, err = store.AddWishlistItem(ctx, "v-1", "p-1")
			require.NoError(t, err)
			sess, err = store.ClearCart(ctx, "v-1")
			require.NoError(t, err)
			assert.Equal(t, []string{"p-1"}, sess.Wishlist)
		})
	}
}

func TestRedisStore_SessionsAreIsolated(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	_, err := store.AddWishlistItem(ctx, "v-1", "p-1")
	require.NoError(t, err)

	other, err := store.Get(ctx, "v-2")
	require.NoError(t, err)
	assert.Empty(t, other.Wishlist)
}

func TestRedisStore_WriteRefreshesTTL(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	_, err := store.AddWishlistItem(ctx, "v-1", "p-1")
	require.NoError(t, err)
	require.Equal(t, time.Hour, mr.TTL(keyPrefix+"v-1"))

	mr.FastForward(30 * time.Minute)
	_, err = store.AddWishlistItem(ctx, "v-1", "p-2")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL(keyPrefix+"v-1"))
}

func TestRedisStore_ExpiredSessionReadsEmpty(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	_, err := store.AddWishlistItem(ctx, "v-1", "p-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	sess, err := store.Get(ctx, "v-1")
	require.NoError(t, err)
	assert.Empty(t, sess.Wishlist)
}

func TestRedisStore_CorruptValueStartsFresh(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set(keyPrefix+"v-1", "{not json"))

	sess, err := store.Get(context.Background(), "v-1")
	require.NoError(t, err)
	assert.Equal(t, "v-1", sess.ID)
	assert.Empty(t, sess.Wishlist)
}
