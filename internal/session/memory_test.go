package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NV18Codes/khaddar-storefront/internal/domain"
)

func newTestMemoryStore(t *testing.T) *MemoryStore {
	s := NewMemoryStore(time.Minute)
	t.Cleanup(s.Stop)
	return s
}

func TestMemoryStore_AuthRoundTrip(t *testing.T) {
	store := newTestMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetAuth(ctx, "sid-1", domain.Session{
		AuthToken: "tok-1",
		User:      &domain.User{Email: "asha@example.com"},
	}))

	got, err := store.Auth(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got.AuthToken)
	require.NotNil(t, got.User)
	assert.Equal(t, "asha@example.com", got.User.Email)
}

func TestMemoryStore_AbsentSessionReadsAsZero(t *testing.T) {
	store := newTestMemoryStore(t)

	got, err := store.Auth(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, got.Authenticated())
	assert.Nil(t, got.User)
}

func TestMemoryStore_EmptyFieldDeletes(t *testing.T) {
	store := newTestMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetAuth(ctx, "sid-1", domain.Session{AuthToken: "tok", RefreshToken: "ref"}))
	require.NoError(t, store.SetAuth(ctx, "sid-1", domain.Session{AuthToken: "tok"}))

	got, err := store.Auth(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, got.RefreshToken)
}

func TestMemoryStore_ExpiredSessionIsGone(t *testing.T) {
	store := NewMemoryStore(time.Millisecond)
	t.Cleanup(store.Stop)
	ctx := context.Background()

	require.NoError(t, store.SetAuth(ctx, "sid-1", domain.Session{AuthToken: "tok"}))
	time.Sleep(5 * time.Millisecond)

	got, err := store.Auth(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, got.Authenticated())
}

func TestMemoryStore_ClearCartOnly(t *testing.T) {
	store := newTestMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetAuth(ctx, "sid-1", domain.Session{AuthToken: "tok"}))
	require.NoError(t, store.SetCart(ctx, "sid-1", domain.Cart{Items: []domain.CartItem{{ProductID: "p1", Quantity: 1}}}))

	require.NoError(t, store.ClearCart(ctx, "sid-1"))

	cart, err := store.Cart(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	auth, err := store.Auth(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "tok", auth.AuthToken)
}
